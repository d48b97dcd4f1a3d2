package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// DraftStore implements domain.DraftStore using PostgreSQL.
type DraftStore struct {
	pool *pgxpool.Pool
	cap  int
}

// NewDraftStore creates a DraftStore backed by the given connection pool,
// bounded by ringCap rows (0 means 1000).
func NewDraftStore(pool *pgxpool.Pool, ringCap int) *DraftStore {
	if ringCap <= 0 {
		ringCap = 1000
	}
	return &DraftStore{pool: pool, cap: ringCap}
}

// Create inserts a draft and evicts the oldest rows beyond the ring cap.
func (s *DraftStore) Create(ctx context.Context, d domain.Draft) error {
	const query = `
		INSERT INTO drafts (
			id, title, product_type, tags, price, description,
			confidence, created_at, signal_id, product_key, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.pool.Exec(ctx, query,
		d.ID, d.Title, d.ProductType, d.Tags, d.Price, d.Description,
		d.Confidence, d.CreatedAt, d.SignalID, d.ProductKey, string(d.Status),
	)
	if err != nil {
		return fmt.Errorf("postgres: create draft %s: %w", d.ID, err)
	}

	const trim = `
		DELETE FROM drafts
		WHERE id NOT IN (
			SELECT id FROM drafts ORDER BY created_at DESC LIMIT $1
		)`
	if _, err := s.pool.Exec(ctx, trim, s.cap); err != nil {
		return fmt.Errorf("postgres: trim drafts: %w", err)
	}
	return nil
}

// GetByID returns the draft with the given id or domain.ErrNotFound.
func (s *DraftStore) GetByID(ctx context.Context, id string) (domain.Draft, error) {
	const query = `
		SELECT id, title, product_type, tags, price, description,
		       confidence, created_at, signal_id, product_key, status
		FROM drafts WHERE id = $1`

	var d domain.Draft
	var status string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Title, &d.ProductType, &d.Tags, &d.Price, &d.Description,
		&d.Confidence, &d.CreatedAt, &d.SignalID, &d.ProductKey, &status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Draft{}, domain.ErrNotFound
		}
		return domain.Draft{}, fmt.Errorf("postgres: get draft %s: %w", id, err)
	}
	d.Status = domain.DraftStatus(status)
	return d, nil
}

// UpdateStatus transitions the draft with the given id to status.
func (s *DraftStore) UpdateStatus(ctx context.Context, id string, status domain.DraftStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE drafts SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("postgres: update draft %s status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns all retained drafts in creation order.
func (s *DraftStore) List(ctx context.Context) ([]domain.Draft, error) {
	const query = `
		SELECT id, title, product_type, tags, price, description,
		       confidence, created_at, signal_id, product_key, status
		FROM drafts ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []domain.Draft
	for rows.Next() {
		var d domain.Draft
		var status string
		if err := rows.Scan(
			&d.ID, &d.Title, &d.ProductType, &d.Tags, &d.Price, &d.Description,
			&d.Confidence, &d.CreatedAt, &d.SignalID, &d.ProductKey, &status,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan draft: %w", err)
		}
		d.Status = domain.DraftStatus(status)
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list drafts: %w", err)
	}
	return drafts, nil
}

// HasActiveProductKey reports whether any non-rejected draft holds key.
func (s *DraftStore) HasActiveProductKey(ctx context.Context, key string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM drafts WHERE product_key = $1 AND status <> 'rejected'
		)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: check draft product key: %w", err)
	}
	return exists, nil
}

// Clear removes all drafts.
func (s *DraftStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM drafts`); err != nil {
		return fmt.Errorf("postgres: clear drafts: %w", err)
	}
	return nil
}
