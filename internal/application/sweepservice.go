// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ericfisherdev/assignwatch/internal/domain/model"
	"github.com/ericfisherdev/assignwatch/internal/domain/port/driven"
)

// ErrNoAssignees is returned by the action executors when the watched issue
// has no current assignees. The watch record is left unchanged and the item
// is re-evaluated on the next sweep.
var ErrNoAssignees = errors.New("no assignees on watched item")

// outcome is the decision the deadline engine reached for one item.
type outcome int

const (
	outcomeIdle outcome = iota
	outcomeExtended
	outcomeReminded
	outcomeUnassigned
)

// SweepService orchestrates periodic sweeps over all watched items. For each
// item it fetches the activity signal, runs the deadline engine, and executes
// the resulting action: extend the deadline, post a one-time reminder, remove
// the assignees, or nothing.
type SweepService struct {
	ghClient   driven.GitHubClient
	watchStore driven.WatchStore
	schedule   model.EscalationSchedule
	interval   time.Duration

	// mu serializes sweeps so a manual trigger never overlaps a scheduled one.
	mu sync.Mutex
}

// NewSweepService creates a new SweepService with all required dependencies.
func NewSweepService(
	ghClient driven.GitHubClient,
	watchStore driven.WatchStore,
	schedule model.EscalationSchedule,
	interval time.Duration,
) *SweepService {
	return &SweepService{
		ghClient:   ghClient,
		watchStore: watchStore,
		schedule:   schedule,
		interval:   interval,
	}
}

// Start begins the sweep loop. It runs an immediate sweep, then sweeps on the
// configured interval. Start blocks until the context is canceled.
func (s *SweepService) Start(ctx context.Context) {
	if _, err := s.Sweep(ctx); err != nil {
		slog.Error("initial sweep failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sweep service stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				slog.Error("sweep cycle failed", "error", err)
			}
		}
	}
}

// Sweep evaluates every watched item once and reports whether any watched
// items existed to process. Items are independent, so each is evaluated in
// its own goroutine; one item's failure never aborts the batch.
func (s *SweepService) Sweep(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	items, err := s.watchStore.ListAll(ctx)
	if err != nil {
		return false, err
	}

	if len(items) == 0 {
		slog.Info("no watched items to sweep")
		return false, nil
	}

	now := time.Now().UTC()

	var extended, reminded, unassigned, idle, failed atomic.Int64
	var wg sync.WaitGroup

	for _, item := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()

			result, err := s.evaluate(ctx, now, item)
			if err != nil {
				slog.Error("watch evaluation failed", "url", item.URL, "error", err)
				failed.Add(1)
				return
			}

			switch result {
			case outcomeExtended:
				extended.Add(1)
			case outcomeReminded:
				reminded.Add(1)
			case outcomeUnassigned:
				unassigned.Add(1)
			default:
				idle.Add(1)
			}
		}()
	}

	wg.Wait()

	slog.Info("sweep complete",
		"items", len(items),
		"extended", extended.Load(),
		"reminded", reminded.Load(),
		"unassigned", unassigned.Load(),
		"idle", idle.Load(),
		"failed", failed.Load(),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return true, nil
}

// evaluate is the deadline engine for a single watched item. Checks run in
// strict order: fresh assignee activity always extends the deadline,
// disqualification precedes the reminder (an item silently aged past both
// thresholds unassigns directly instead of posting a pointless reminder),
// and the reminder fires at most once per watch cycle.
func (s *SweepService) evaluate(ctx context.Context, now time.Time, item model.WatchedItem) (outcome, error) {
	ref, err := model.ParseItemURL(item.URL)
	if err != nil {
		return outcomeIdle, err
	}

	assignees, err := s.ghClient.FetchAssignees(ctx, ref)
	if err != nil {
		return outcomeIdle, fmt.Errorf("resolve assignees: %w", err)
	}

	events, err := s.ghClient.FetchActivity(ctx, ref, item.LastCheck)
	if err != nil {
		return outcomeIdle, fmt.Errorf("fetch activity: %w", err)
	}

	if hasAssigneeActivity(events, assignees, item.LastCheck) {
		item.Deadline = item.Deadline.Add(now.Sub(item.LastCheck))
		item.LastCheck = now
		item.LastReminder = nil
		if err := s.watchStore.Upsert(ctx, item); err != nil {
			return outcomeIdle, fmt.Errorf("persist extended deadline: %w", err)
		}
		slog.Info("deadline extended", "url", item.URL, "new_deadline", item.Deadline)
		return outcomeExtended, nil
	}

	if s.schedule.DisqualifyDue(now, item.Deadline) {
		if err := s.unassign(ctx, ref, assignees); err != nil {
			if errors.Is(err, ErrNoAssignees) {
				slog.Warn("cannot unassign watched item", "url", item.URL, "error", err)
				return outcomeIdle, nil
			}
			return outcomeIdle, fmt.Errorf("unassign: %w", err)
		}
		if err := s.watchStore.Delete(ctx, item.URL); err != nil {
			return outcomeIdle, fmt.Errorf("delete watch after unassign: %w", err)
		}
		slog.Info("watched item unassigned", "url", item.URL, "assignees", assignees)
		return outcomeUnassigned, nil
	}

	if item.LastReminder == nil && s.schedule.ReminderDue(now, item.Deadline) {
		if err := s.remind(ctx, ref, item, assignees); err != nil {
			if errors.Is(err, ErrNoAssignees) {
				slog.Warn("cannot remind on watched item", "url", item.URL, "error", err)
				return outcomeIdle, nil
			}
			return outcomeIdle, fmt.Errorf("remind: %w", err)
		}
		item.LastReminder = &now
		item.LastCheck = now
		if err := s.watchStore.Upsert(ctx, item); err != nil {
			return outcomeIdle, fmt.Errorf("persist reminder: %w", err)
		}
		slog.Info("reminder posted", "url", item.URL, "assignees", assignees)
		return outcomeReminded, nil
	}

	return outcomeIdle, nil
}

// remind posts a single comment mentioning all current assignees.
func (s *SweepService) remind(ctx context.Context, ref model.ItemRef, item model.WatchedItem, assignees []string) error {
	if len(assignees) == 0 {
		return ErrNoAssignees
	}

	return s.ghClient.CreateComment(ctx, ref, reminderBody(assignees, item.LastCheck))
}

// unassign removes all current assignees from the issue.
func (s *SweepService) unassign(ctx context.Context, ref model.ItemRef, assignees []string) error {
	if len(assignees) == 0 {
		return ErrNoAssignees
	}

	return s.ghClient.RemoveAssignees(ctx, ref, assignees)
}

// hasAssigneeActivity reports whether any event was produced by a current
// assignee at or after since. Login comparison is case-insensitive to match
// GitHub username semantics.
func hasAssigneeActivity(events []model.ActivityEvent, assignees []string, since time.Time) bool {
	for _, ev := range events {
		if ev.Timestamp.Before(since) {
			continue
		}
		for _, assignee := range assignees {
			if strings.EqualFold(ev.Actor, assignee) {
				return true
			}
		}
	}

	return false
}

// reminderBody builds the reminder comment posted on an inactive issue.
func reminderBody(assignees []string, lastCheck time.Time) string {
	mentions := make([]string, 0, len(assignees))
	for _, a := range assignees {
		mentions = append(mentions, "@"+a)
	}

	return fmt.Sprintf(
		"%s this issue has had no assignee activity since %s. "+
			"If you are still working on it, please post an update. "+
			"Otherwise it will be unassigned automatically.",
		strings.Join(mentions, " "),
		lastCheck.UTC().Format("2006-01-02"),
	)
}
