// Package analytics records workspace telemetry: every tracked action lands
// in the local event store, and is forwarded to Amplitude on a best-effort
// basis. A missing API key or an upstream failure never affects the caller.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// Outcome describes what happened to the external dispatch of an event.
type Outcome string

const (
	OutcomeSent         Outcome = "sent"
	OutcomeSkippedNoKey Outcome = "skipped-no-key"
	OutcomeFailed       Outcome = "failed"
)

// Sender is the external delivery half of the tracker.
type Sender interface {
	Enabled() bool
	Send(ctx context.Context, eventType string, props map[string]any) error
}

// Broadcaster fans an event out to connected live subscribers.
type Broadcaster interface {
	Broadcast(event domain.Event)
}

// Tracker appends events locally, fans them out to live subscribers, and
// dispatches them externally.
type Tracker struct {
	events    domain.EventStore
	sender    Sender
	broadcast Broadcaster // nil when no live feed is wired
	logger    *slog.Logger

	// dispatchTimeout bounds the async send so a stalled upstream can't
	// pile up goroutines forever.
	dispatchTimeout time.Duration
}

func NewTracker(events domain.EventStore, sender Sender, broadcast Broadcaster, logger *slog.Logger) *Tracker {
	return &Tracker{
		events:          events,
		sender:          sender,
		broadcast:       broadcast,
		logger:          logger.With(slog.String("component", "analytics")),
		dispatchTimeout: 10 * time.Second,
	}
}

// record appends the event to the local log and fans it out to live
// subscribers. Local failures are logged, never surfaced.
func (t *Tracker) record(ctx context.Context, eventType domain.EventType, message string) {
	ev := domain.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err := t.events.Append(ctx, ev); err != nil {
		t.logger.Warn("failed to append event locally",
			slog.String("event_type", string(eventType)),
			slog.String("error", err.Error()))
	}
	if t.broadcast != nil {
		t.broadcast.Broadcast(ev)
	}
}

// Track records the event locally and kicks off the external dispatch. It
// returns the dispatch outcome that was decided synchronously: OutcomeSent
// means the dispatch was started, not that it succeeded.
func (t *Tracker) Track(ctx context.Context, eventType domain.EventType, message string, props map[string]any) Outcome {
	t.record(ctx, eventType, message)

	if !t.sender.Enabled() {
		return OutcomeSkippedNoKey
	}

	go t.dispatch(string(eventType), props)
	return OutcomeSent
}

// TrackSync is Track with a synchronous dispatch, used by the track
// endpoint so the response can report the real outcome.
func (t *Tracker) TrackSync(ctx context.Context, eventType domain.EventType, message string, props map[string]any) Outcome {
	t.record(ctx, eventType, message)

	if !t.sender.Enabled() {
		return OutcomeSkippedNoKey
	}

	if err := t.sender.Send(ctx, string(eventType), props); err != nil {
		t.logger.Warn("amplitude dispatch failed",
			slog.String("event_type", string(eventType)),
			slog.String("error", err.Error()))
		return OutcomeFailed
	}
	return OutcomeSent
}

func (t *Tracker) dispatch(eventType string, props map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), t.dispatchTimeout)
	defer cancel()

	if err := t.sender.Send(ctx, eventType, props); err != nil {
		t.logger.Warn("amplitude dispatch failed",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}
