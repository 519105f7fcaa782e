// Package memory is an in-process history backend. Nothing survives a
// restart; it serves tests and QRGEN_HISTORY_BACKEND=memory.
package memory

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
)

// Store keeps history entries keyed by id.
type Store struct {
	mu      sync.RWMutex
	entries map[string]domain.HistoryEntry
}

// NewStore creates an empty memory backend.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]domain.HistoryEntry),
	}
}

// GetAll returns every entry in no particular order.
func (s *Store) GetAll(_ context.Context) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.HistoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out, nil
}

// Put adds or replaces an entry.
func (s *Store) Put(_ context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.ID()] = entry
	return nil
}

// Delete removes id if present.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// DeleteAll empties the store.
func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]domain.HistoryEntry)
	return nil
}

// Count returns the number of stored entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
