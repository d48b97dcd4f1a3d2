package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prophetlabs/signal2store/internal/analytics"
	"github.com/prophetlabs/signal2store/internal/domain"
)

// Tracker defines the tracking methods the analytics handler requires.
type Tracker interface {
	TrackSync(ctx context.Context, eventType domain.EventType, message string, props map[string]any) analytics.Outcome
}

// AnalyticsHandler serves the track and event-archive endpoints.
type AnalyticsHandler struct {
	tracker  Tracker
	archiver domain.Archiver // nil when no blob store is configured
	logger   *slog.Logger
}

// NewAnalyticsHandler creates an AnalyticsHandler. archiver may be nil, in
// which case the archive endpoint reports 503.
func NewAnalyticsHandler(tracker Tracker, archiver domain.Archiver, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		tracker:  tracker,
		archiver: archiver,
		logger:   logger,
	}
}

type trackRequest struct {
	EventType string         `json:"eventType"`
	Message   string         `json:"message"`
	Props     map[string]any `json:"props"`
}

// Track records a dashboard analytics event. The external dispatch is
// best-effort; the response reports its outcome but the request never
// fails because of it.
// POST /api/track
func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EventType == "" {
		writeError(w, http.StatusBadRequest, "missing eventType")
		return
	}

	outcome := h.tracker.TrackSync(r.Context(), domain.EventTrack, req.Message, req.Props)
	writeJSON(w, http.StatusOK, map[string]string{"outcome": string(outcome)})
}

type archiveRequest struct {
	Before string `json:"before"` // RFC3339; zero value means "now"
}

// ArchiveEvents uploads all events older than the cutoff to blob storage.
// POST /api/events/archive
func (h *AnalyticsHandler) ArchiveEvents(w http.ResponseWriter, r *http.Request) {
	if h.archiver == nil {
		writeError(w, http.StatusServiceUnavailable, "no blob storage configured")
		return
	}

	var req archiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	before := time.Now().UTC()
	if req.Before != "" {
		t, err := time.Parse(time.RFC3339, req.Before)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid before timestamp")
			return
		}
		before = t
	}

	count, err := h.archiver.ArchiveEvents(r.Context(), before)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: event archive failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to archive events")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"archived": count,
		"before":   before.Format(time.RFC3339),
	})
}
