package memory

import (
	"context"
	"sync"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// PublishedStore implements domain.PublishedStore.
type PublishedStore struct {
	mu       sync.RWMutex
	products []domain.PublishedProduct
	cap      int
}

// NewPublishedStore creates a PublishedStore bounded by ringCap (0 means
// the default cap).
func NewPublishedStore(ringCap int) *PublishedStore {
	return &PublishedStore{cap: normalizeCap(ringCap)}
}

// Create appends a published product, evicting the oldest once the cap is
// hit. Records are never mutated after insertion.
func (s *PublishedStore) Create(_ context.Context, product domain.PublishedProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append(s.products, product)
	if len(s.products) > s.cap {
		s.products = s.products[len(s.products)-s.cap:]
	}
	return nil
}

// List returns all retained published products in publish order.
func (s *PublishedStore) List(_ context.Context) ([]domain.PublishedProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PublishedProduct, len(s.products))
	copy(out, s.products)
	return out, nil
}

// HasProductKey reports whether any published product holds key.
func (s *PublishedStore) HasProductKey(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ProductKey == key {
			return true, nil
		}
	}
	return false, nil
}

// Clear removes all published products.
func (s *PublishedStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = nil
	return nil
}
