package holiday

import (
	"context"
	"sync"

	"github.com/spec-kit/sla-engine/internal/domain"
)

// Store persists fetched holiday entries keyed by (countryCode, year).
// Entries never expire; past years do not change. The provider is the only
// component that reads or writes the store.
type Store interface {
	// Load returns the persisted holidays for the key and whether an entry
	// exists. An empty slice with ok=true is a valid entry (a year with no
	// holidays).
	Load(ctx context.Context, countryCode string, year int) ([]domain.Holiday, bool, error)
	// Save persists the holidays for the key, replacing any existing entry.
	Save(ctx context.Context, countryCode string, year int, holidays []domain.Holiday) error
	// Delete removes the entry for the key, if present.
	Delete(ctx context.Context, countryCode string, year int) error
}

// MemoryStore is an in-process Store for tests and cache-less deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.Holiday
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]domain.Holiday)}
}

func (s *MemoryStore) Load(_ context.Context, countryCode string, year int) ([]domain.Holiday, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	holidays, ok := s.entries[cacheKey(countryCode, year)]
	if !ok {
		return nil, false, nil
	}
	out := make([]domain.Holiday, len(holidays))
	copy(out, holidays)
	return out, true, nil
}

func (s *MemoryStore) Save(_ context.Context, countryCode string, year int, holidays []domain.Holiday) error {
	stored := make([]domain.Holiday, len(holidays))
	copy(stored, holidays)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[cacheKey(countryCode, year)] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, countryCode string, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, cacheKey(countryCode, year))
	return nil
}
