// Package httphandler is the HTTP driving adapter serving the REST API.
package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/assignwatch/internal/application"
	"github.com/ericfisherdev/assignwatch/internal/domain/model"
	"github.com/ericfisherdev/assignwatch/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	watchStore driven.WatchStore
	sweepSvc   *application.SweepService
	schedule   model.EscalationSchedule
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	watchStore driven.WatchStore,
	sweepSvc *application.SweepService,
	schedule model.EscalationSchedule,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		watchStore: watchStore,
		sweepSvc:   sweepSvc,
		schedule:   schedule,
		logger:     logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/watches", h.ListWatches)
	mux.HandleFunc("POST /api/v1/watches", h.AddWatch)
	mux.HandleFunc("GET /api/v1/watches/{owner}/{repo}/{number}", h.GetWatch)
	mux.HandleFunc("DELETE /api/v1/watches/{owner}/{repo}/{number}", h.RemoveWatch)
	mux.HandleFunc("POST /api/v1/sweep", h.TriggerSweep)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// ListWatches returns all watched items with their derived lifecycle state.
func (h *Handler) ListWatches(w http.ResponseWriter, r *http.Request) {
	items, err := h.watchStore.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list watches", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	now := time.Now().UTC()
	resp := make([]WatchResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toWatchResponse(item, h.schedule, now))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddWatch registers a new watched item. The deadline defaults to now when
// not supplied, meaning the inactivity clock starts at registration.
func (h *Handler) AddWatch(w http.ResponseWriter, r *http.Request) {
	var req AddWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ref, err := model.ParseItemURL(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "url must be a GitHub issue URL")
		return
	}

	now := time.Now().UTC()
	deadline := now
	if req.Deadline != "" {
		parsed, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "deadline must be RFC3339")
			return
		}
		deadline = parsed.UTC()
	}

	item := model.WatchedItem{
		URL:       ref.URL(),
		Deadline:  deadline,
		LastCheck: now,
	}

	if err := h.watchStore.Upsert(r.Context(), item); err != nil {
		h.logger.Error("failed to add watch", "url", item.URL, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toWatchResponse(item, h.schedule, now))
}

// GetWatch returns a single watched item by owner, repo, and issue number.
func (h *Handler) GetWatch(w http.ResponseWriter, r *http.Request) {
	ref, ok := refFromPath(w, r)
	if !ok {
		return
	}

	item, err := h.watchStore.GetByURL(r.Context(), ref.URL())
	if err != nil {
		h.logger.Error("failed to get watch", "url", ref.URL(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if item == nil {
		writeError(w, http.StatusNotFound, "watch not found")
		return
	}

	writeJSON(w, http.StatusOK, toWatchResponse(*item, h.schedule, time.Now().UTC()))
}

// RemoveWatch deletes a watched item, opting the issue out of tracking.
func (h *Handler) RemoveWatch(w http.ResponseWriter, r *http.Request) {
	ref, ok := refFromPath(w, r)
	if !ok {
		return
	}

	item, err := h.watchStore.GetByURL(r.Context(), ref.URL())
	if err != nil {
		h.logger.Error("failed to get watch", "url", ref.URL(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if item == nil {
		writeError(w, http.StatusNotFound, "watch not found")
		return
	}

	if err := h.watchStore.Delete(r.Context(), ref.URL()); err != nil {
		h.logger.Error("failed to remove watch", "url", ref.URL(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TriggerSweep runs a sweep immediately, bypassing the interval.
func (h *Handler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	processed, err := h.sweepSvc.Sweep(r.Context())
	if err != nil {
		h.logger.Error("manual sweep failed", "error", err)
		writeError(w, http.StatusInternalServerError, "sweep failed")
		return
	}

	writeJSON(w, http.StatusOK, SweepResponse{Processed: processed})
}

// Health returns a basic liveness response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// refFromPath parses the {owner}/{repo}/{number} path values into an ItemRef.
// Writes a 400 response and returns false when the number is not a positive integer.
func refFromPath(w http.ResponseWriter, r *http.Request) (model.ItemRef, bool) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number <= 0 {
		writeError(w, http.StatusBadRequest, "invalid issue number")
		return model.ItemRef{}, false
	}

	return model.ItemRef{
		Owner:  r.PathValue("owner"),
		Repo:   r.PathValue("repo"),
		Number: number,
	}, true
}
