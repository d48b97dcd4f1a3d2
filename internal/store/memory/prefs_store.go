package memory

import (
	"context"
	"sync"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// PrefsStore implements domain.PrefsStore.
type PrefsStore struct {
	mu    sync.RWMutex
	prefs *domain.Preferences
}

// NewPrefsStore creates an empty PrefsStore.
func NewPrefsStore() *PrefsStore {
	return &PrefsStore{}
}

// Get returns the stored preferences, or defaults when nothing has been
// stored yet.
func (s *PrefsStore) Get(_ context.Context) (domain.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.prefs == nil {
		return domain.DefaultPreferences(), nil
	}

	out := domain.Preferences{
		Confidence: s.prefs.Confidence,
		Keywords:   make(map[string]int, len(s.prefs.Keywords)),
	}
	for k, v := range s.prefs.Keywords {
		out.Keywords[k] = v
	}
	return out, nil
}

// Put replaces the stored preferences.
func (s *PrefsStore) Put(_ context.Context, prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := domain.Preferences{
		Confidence: prefs.Confidence,
		Keywords:   make(map[string]int, len(prefs.Keywords)),
	}
	for k, v := range prefs.Keywords {
		stored.Keywords[k] = v
	}
	s.prefs = &stored
	return nil
}

// Clear resets preferences to defaults.
func (s *PrefsStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = nil
	return nil
}
