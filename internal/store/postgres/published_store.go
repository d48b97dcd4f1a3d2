package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// PublishedStore implements domain.PublishedStore using PostgreSQL.
type PublishedStore struct {
	pool *pgxpool.Pool
	cap  int
}

// NewPublishedStore creates a PublishedStore backed by the given pool,
// bounded by ringCap rows (0 means 1000).
func NewPublishedStore(pool *pgxpool.Pool, ringCap int) *PublishedStore {
	if ringCap <= 0 {
		ringCap = 1000
	}
	return &PublishedStore{pool: pool, cap: ringCap}
}

// Create inserts a published product and evicts the oldest rows beyond the
// ring cap. Rows are never updated.
func (s *PublishedStore) Create(ctx context.Context, p domain.PublishedProduct) error {
	const query = `
		INSERT INTO published_products (
			id, title, product_type, tags, price, description,
			published_at, product_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.Title, p.ProductType, p.Tags, p.Price, p.Description,
		p.PublishedAt, p.ProductKey,
	)
	if err != nil {
		return fmt.Errorf("postgres: create published product %s: %w", p.ID, err)
	}

	const trim = `
		DELETE FROM published_products
		WHERE id NOT IN (
			SELECT id FROM published_products ORDER BY published_at DESC LIMIT $1
		)`
	if _, err := s.pool.Exec(ctx, trim, s.cap); err != nil {
		return fmt.Errorf("postgres: trim published products: %w", err)
	}
	return nil
}

// List returns all retained published products in publish order.
func (s *PublishedStore) List(ctx context.Context) ([]domain.PublishedProduct, error) {
	const query = `
		SELECT id, title, product_type, tags, price, description,
		       published_at, product_key
		FROM published_products ORDER BY published_at ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: list published products: %w", err)
	}
	defer rows.Close()

	var products []domain.PublishedProduct
	for rows.Next() {
		var p domain.PublishedProduct
		if err := rows.Scan(
			&p.ID, &p.Title, &p.ProductType, &p.Tags, &p.Price, &p.Description,
			&p.PublishedAt, &p.ProductKey,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan published product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list published products: %w", err)
	}
	return products, nil
}

// HasProductKey reports whether any published product holds key.
func (s *PublishedStore) HasProductKey(ctx context.Context, key string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM published_products WHERE product_key = $1
		)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: check published product key: %w", err)
	}
	return exists, nil
}

// Clear removes all published products.
func (s *PublishedStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM published_products`); err != nil {
		return fmt.Errorf("postgres: clear published products: %w", err)
	}
	return nil
}
