package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/assignwatch/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// WatchResponse is the JSON representation of a watched item, including its
// derived lifecycle state and the escalation instants it is evaluated against.
type WatchResponse struct {
	URL          string `json:"url"`
	Deadline     string `json:"deadline"`
	LastCheck    string `json:"last_check"`
	LastReminder string `json:"last_reminder,omitempty"`
	State        string `json:"state"`
	ReminderAt   string `json:"reminder_at,omitempty"`
	DisqualifyAt string `json:"disqualify_at,omitempty"`
}

// AddWatchRequest is the JSON body for the watch registration endpoint.
// Deadline is optional RFC3339; when absent the deadline starts at now.
type AddWatchRequest struct {
	URL      string `json:"url"`
	Deadline string `json:"deadline,omitempty"`
}

// SweepResponse is the JSON representation of a manual sweep result.
type SweepResponse struct {
	Processed bool `json:"processed"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toWatchResponse converts a domain WatchedItem to its JSON representation,
// deriving the lifecycle state at now from the schedule.
func toWatchResponse(item model.WatchedItem, schedule model.EscalationSchedule, now time.Time) WatchResponse {
	resp := WatchResponse{
		URL:       item.URL,
		Deadline:  item.Deadline.UTC().Format(time.RFC3339),
		LastCheck: item.LastCheck.UTC().Format(time.RFC3339),
		State:     string(schedule.StateOf(now, item)),
	}

	if item.LastReminder != nil {
		resp.LastReminder = item.LastReminder.UTC().Format(time.RFC3339)
	}
	if instant, enabled := schedule.ReminderInstant(item.Deadline); enabled {
		resp.ReminderAt = instant.UTC().Format(time.RFC3339)
	}
	if instant, enabled := schedule.DisqualifyInstant(item.Deadline); enabled {
		resp.DisqualifyAt = instant.UTC().Format(time.RFC3339)
	}

	return resp
}
