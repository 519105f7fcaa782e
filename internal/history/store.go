// Package history keeps the bounded, most-recent-first list of exported codes.
package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
)

// DefaultLimit is how many entries the view exposes.
const DefaultLimit = 10

// ErrNotFound is returned by lookups for an id that is not in the view.
var ErrNotFound = errors.New("history entry not found")

// Backend is the persistent key-value collaborator, keyed by entry id.
// Implementations must survive process restarts (except the memory one).
type Backend interface {
	GetAll(ctx context.Context) ([]domain.HistoryEntry, error)
	Put(ctx context.Context, entry domain.HistoryEntry) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// Store owns the ordered view over a Backend. The view is truncated to limit;
// older entries may stay in the backend until compacted.
type Store struct {
	mu      sync.Mutex
	backend Backend
	limit   int
	view    []domain.HistoryEntry
}

// NewStore creates a history store. A non-positive limit means DefaultLimit.
func NewStore(backend Backend, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		backend: backend,
		limit:   limit,
	}
}

// Load refreshes the view from the backend and returns it newest first.
// On failure it returns an empty slice and leaves the previous view in place.
func (s *Store) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.backend.GetAll(ctx)
	if err != nil {
		return []domain.HistoryEntry{}, fmt.Errorf("failed to load history: %w", err)
	}

	sortNewestFirst(all)
	if len(all) > s.limit {
		all = all[:s.limit]
	}
	s.view = all

	return s.entriesLocked(), nil
}

// Add persists entry and prepends it to the view.
func (s *Store) Add(ctx context.Context, entry domain.HistoryEntry) error {
	if entry.IsZero() {
		return fmt.Errorf("cannot add empty history entry")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Put(ctx, entry); err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	view := make([]domain.HistoryEntry, 0, s.limit)
	view = append(view, entry)
	for _, e := range s.view {
		if len(view) == s.limit {
			break
		}
		if e.ID() != entry.ID() {
			view = append(view, e)
		}
	}
	s.view = view

	return nil
}

// Remove deletes id from the backend and the view. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to remove history entry: %w", err)
	}

	view := s.view[:0:0]
	for _, e := range s.view {
		if e.ID() != id {
			view = append(view, e)
		}
	}
	s.view = view

	return nil
}

// Clear deletes every entry.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.view = nil

	return nil
}

// Entries returns a copy of the current view.
func (s *Store) Entries() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entriesLocked()
}

// Get looks up id in the view.
func (s *Store) Get(id string) (domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.view {
		if e.ID() == id {
			return e, nil
		}
	}
	return domain.HistoryEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Compact deletes backend entries beyond the keep newest ones and returns how
// many were removed. The view is unaffected unless keep is below the limit.
func (s *Store) Compact(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.backend.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read history for compaction: %w", err)
	}
	if len(all) <= keep {
		return 0, nil
	}

	sortNewestFirst(all)
	deleted := 0
	for _, e := range all[keep:] {
		if err := s.backend.Delete(ctx, e.ID()); err != nil {
			return deleted, fmt.Errorf("failed to compact history entry %s: %w", e.ID(), err)
		}
		deleted++
	}

	if keep < len(s.view) {
		s.view = s.view[:keep]
	}

	return deleted, nil
}

func (s *Store) entriesLocked() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(s.view))
	copy(out, s.view)
	return out
}

func sortNewestFirst(entries []domain.HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Newer(entries[j])
	})
}
