package model

import "time"

// WatchState is the lifecycle state of a watched item, derived from
// timestamps on every evaluation. It is never persisted.
type WatchState string

const (
	WatchStateActive       WatchState = "active"
	WatchStateReminderDue  WatchState = "reminder_due"
	WatchStateReminderSent WatchState = "reminder_sent"
	WatchStateDisqualified WatchState = "disqualified"
)

// EscalationSchedule holds the two configured escalation thresholds, both
// measured from an item's deadline. A zero threshold disables that
// escalation entirely -- it never fires, regardless of elapsed time.
type EscalationSchedule struct {
	ReminderAfter   time.Duration
	DisqualifyAfter time.Duration
}

// ReminderInstant returns the instant at which a reminder becomes due for
// the given deadline. The second return is false when reminders are disabled.
func (s EscalationSchedule) ReminderInstant(deadline time.Time) (time.Time, bool) {
	if s.ReminderAfter <= 0 {
		return time.Time{}, false
	}
	return deadline.Add(s.ReminderAfter), true
}

// DisqualifyInstant returns the instant at which disqualification becomes due
// for the given deadline. The second return is false when disqualification is
// disabled.
func (s EscalationSchedule) DisqualifyInstant(deadline time.Time) (time.Time, bool) {
	if s.DisqualifyAfter <= 0 {
		return time.Time{}, false
	}
	return deadline.Add(s.DisqualifyAfter), true
}

// ReminderDue reports whether a reminder is due at now for the given
// deadline. The zero-threshold guard is explicit: a disabled reminder is
// never due, not "due immediately".
func (s EscalationSchedule) ReminderDue(now, deadline time.Time) bool {
	instant, enabled := s.ReminderInstant(deadline)
	if !enabled {
		return false
	}
	return !now.Before(instant)
}

// DisqualifyDue reports whether disqualification is due at now for the given
// deadline.
func (s EscalationSchedule) DisqualifyDue(now, deadline time.Time) bool {
	instant, enabled := s.DisqualifyInstant(deadline)
	if !enabled {
		return false
	}
	return !now.Before(instant)
}

// StateOf derives the item's current lifecycle state from its timestamps.
// Disqualification takes precedence over the reminder states.
func (s EscalationSchedule) StateOf(now time.Time, item WatchedItem) WatchState {
	if s.DisqualifyDue(now, item.Deadline) {
		return WatchStateDisqualified
	}
	if item.LastReminder != nil {
		return WatchStateReminderSent
	}
	if s.ReminderDue(now, item.Deadline) {
		return WatchStateReminderDue
	}
	return WatchStateActive
}
