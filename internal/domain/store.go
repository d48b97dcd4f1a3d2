package domain

import (
	"context"
	"time"
)

// DraftStore persists product drafts. Implementations enforce the workspace
// ring cap: once the cap is reached, the oldest drafts are evicted on insert.
type DraftStore interface {
	Create(ctx context.Context, draft Draft) error
	GetByID(ctx context.Context, id string) (Draft, error)
	UpdateStatus(ctx context.Context, id string, status DraftStatus) error
	List(ctx context.Context) ([]Draft, error)
	// HasActiveProductKey reports whether any non-rejected draft holds key.
	HasActiveProductKey(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
}

// PublishedStore persists published products. Records are immutable once
// created.
type PublishedStore interface {
	Create(ctx context.Context, product PublishedProduct) error
	List(ctx context.Context) ([]PublishedProduct, error)
	HasProductKey(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
}

// EventStore persists the append-only workspace event log, newest first.
type EventStore interface {
	Append(ctx context.Context, event Event) error
	// List returns up to limit events, newest first. limit <= 0 means all
	// retained events.
	List(ctx context.Context, limit int) ([]Event, error)
	// ListBefore returns all retained events strictly older than the cutoff,
	// oldest first. Used by the archiver.
	ListBefore(ctx context.Context, before time.Time) ([]Event, error)
	Clear(ctx context.Context) error
}

// PrefsStore persists operator preferences. Get returns
// DefaultPreferences() when nothing has been stored yet.
type PrefsStore interface {
	Get(ctx context.Context) (Preferences, error)
	Put(ctx context.Context, prefs Preferences) error
	Clear(ctx context.Context) error
}

// MarketCache caches the ranked live market batch between dashboard
// refreshes. Implementations return ErrNotFound on miss.
type MarketCache interface {
	SetRanked(ctx context.Context, markets []Market) error
	GetRanked(ctx context.Context) ([]Market, error)
}
