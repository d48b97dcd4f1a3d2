package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// EventStore implements domain.EventStore using PostgreSQL.
type EventStore struct {
	pool *pgxpool.Pool
	cap  int
}

// NewEventStore creates an EventStore backed by the given pool, bounded by
// ringCap rows (0 means 1000).
func NewEventStore(pool *pgxpool.Pool, ringCap int) *EventStore {
	if ringCap <= 0 {
		ringCap = 1000
	}
	return &EventStore{pool: pool, cap: ringCap}
}

// Append inserts an event and evicts the oldest rows beyond the ring cap.
func (s *EventStore) Append(ctx context.Context, e domain.Event) error {
	const query = `
		INSERT INTO events (id, type, message, timestamp)
		VALUES ($1, $2, $3, $4)`

	if _, err := s.pool.Exec(ctx, query, e.ID, string(e.Type), e.Message, e.Timestamp); err != nil {
		return fmt.Errorf("postgres: append event %s: %w", e.ID, err)
	}

	const trim = `
		DELETE FROM events
		WHERE id NOT IN (
			SELECT id FROM events ORDER BY timestamp DESC LIMIT $1
		)`
	if _, err := s.pool.Exec(ctx, trim, s.cap); err != nil {
		return fmt.Errorf("postgres: trim events: %w", err)
	}
	return nil
}

// List returns up to limit retained events, newest first. limit <= 0
// returns all retained events.
func (s *EventStore) List(ctx context.Context, limit int) ([]domain.Event, error) {
	query := `SELECT id, type, message, timestamp FROM events ORDER BY timestamp DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListBefore returns all retained events strictly older than the cutoff,
// oldest first.
func (s *EventStore) ListBefore(ctx context.Context, before time.Time) ([]domain.Event, error) {
	const query = `
		SELECT id, type, message, timestamp FROM events
		WHERE timestamp < $1 ORDER BY timestamp ASC`

	rows, err := s.pool.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("postgres: list events before %s: %w", before, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Clear removes all events.
func (s *EventStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("postgres: clear events: %w", err)
	}
	return nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEvents(rows pgxRows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var typ string
		if err := rows.Scan(&e.ID, &typ, &e.Message, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("postgres: scan event: %w", err)
		}
		e.Type = domain.EventType(typ)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate events: %w", err)
	}
	return events, nil
}
