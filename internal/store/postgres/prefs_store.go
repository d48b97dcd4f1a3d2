package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// PrefsStore implements domain.PrefsStore using a single-row PostgreSQL
// table.
type PrefsStore struct {
	pool *pgxpool.Pool
}

// NewPrefsStore creates a PrefsStore backed by the given connection pool.
func NewPrefsStore(pool *pgxpool.Pool) *PrefsStore {
	return &PrefsStore{pool: pool}
}

// Get returns the stored preferences, or defaults when nothing has been
// stored yet.
func (s *PrefsStore) Get(ctx context.Context) (domain.Preferences, error) {
	const query = `SELECT confidence, keywords FROM preferences WHERE id = 1`

	var confidence int
	var raw []byte
	err := s.pool.QueryRow(ctx, query).Scan(&confidence, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultPreferences(), nil
		}
		return domain.Preferences{}, fmt.Errorf("postgres: get preferences: %w", err)
	}

	keywords := make(map[string]int)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &keywords); err != nil {
			return domain.Preferences{}, fmt.Errorf("postgres: decode preference keywords: %w", err)
		}
	}

	return domain.Preferences{Confidence: confidence, Keywords: keywords}, nil
}

// Put replaces the stored preferences.
func (s *PrefsStore) Put(ctx context.Context, prefs domain.Preferences) error {
	raw, err := json.Marshal(prefs.Keywords)
	if err != nil {
		return fmt.Errorf("postgres: encode preference keywords: %w", err)
	}

	const query = `
		INSERT INTO preferences (id, confidence, keywords, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET
			confidence = EXCLUDED.confidence,
			keywords   = EXCLUDED.keywords,
			updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, prefs.Confidence, raw); err != nil {
		return fmt.Errorf("postgres: put preferences: %w", err)
	}
	return nil
}

// Clear resets preferences to defaults.
func (s *PrefsStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM preferences WHERE id = 1`); err != nil {
		return fmt.Errorf("postgres: clear preferences: %w", err)
	}
	return nil
}
