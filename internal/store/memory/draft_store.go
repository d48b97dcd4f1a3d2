package memory

import (
	"context"
	"sync"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// DraftStore implements domain.DraftStore with a mutex-guarded slice in
// creation order.
type DraftStore struct {
	mu     sync.RWMutex
	drafts []domain.Draft
	cap    int
}

// NewDraftStore creates a DraftStore bounded by ringCap (0 means the
// default cap).
func NewDraftStore(ringCap int) *DraftStore {
	return &DraftStore{cap: normalizeCap(ringCap)}
}

// Create appends a draft, evicting the oldest drafts once the cap is hit.
func (s *DraftStore) Create(_ context.Context, draft domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts = append(s.drafts, draft)
	if len(s.drafts) > s.cap {
		s.drafts = s.drafts[len(s.drafts)-s.cap:]
	}
	return nil
}

// GetByID returns the draft with the given id or domain.ErrNotFound.
func (s *DraftStore) GetByID(_ context.Context, id string) (domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.drafts {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Draft{}, domain.ErrNotFound
}

// UpdateStatus transitions the draft with the given id to status.
func (s *DraftStore) UpdateStatus(_ context.Context, id string, status domain.DraftStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.drafts {
		if s.drafts[i].ID == id {
			s.drafts[i].Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

// List returns all retained drafts in creation order.
func (s *DraftStore) List(_ context.Context) ([]domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Draft, len(s.drafts))
	copy(out, s.drafts)
	return out, nil
}

// HasActiveProductKey reports whether any non-rejected draft holds key.
func (s *DraftStore) HasActiveProductKey(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.drafts {
		if d.ProductKey == key && d.Active() {
			return true, nil
		}
	}
	return false, nil
}

// Clear removes all drafts.
func (s *DraftStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts = nil
	return nil
}
