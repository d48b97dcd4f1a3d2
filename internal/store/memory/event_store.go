package memory

import (
	"context"
	"sync"
	"time"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// EventStore implements domain.EventStore. Events are held oldest-first
// internally; List returns them newest-first as the dashboard renders them.
type EventStore struct {
	mu     sync.RWMutex
	events []domain.Event
	cap    int
}

// NewEventStore creates an EventStore bounded by ringCap (0 means the
// default cap).
func NewEventStore(ringCap int) *EventStore {
	return &EventStore{cap: normalizeCap(ringCap)}
}

// Append adds an event, evicting the oldest once the cap is hit.
func (s *EventStore) Append(_ context.Context, event domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
	if len(s.events) > s.cap {
		s.events = s.events[len(s.events)-s.cap:]
	}
	return nil
}

// List returns up to limit retained events, newest first. limit <= 0
// returns all retained events.
func (s *EventStore) List(_ context.Context, limit int) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.Event, 0, n)
	for i := len(s.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

// ListBefore returns all retained events strictly older than the cutoff,
// oldest first.
func (s *EventStore) ListBefore(_ context.Context, before time.Time) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Event
	for _, e := range s.events {
		if e.Timestamp.Before(before) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Clear removes all events.
func (s *EventStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = nil
	return nil
}
