// Package file persists history as a YAML document on local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
)

// document is the on-disk layout.
type document struct {
	Version int                    `yaml:"version"`
	Entries []domain.HistoryRecord `yaml:"entries"`
}

const documentVersion = 1

// Store reads and rewrites the whole document on every call. History is
// small enough that this is never the bottleneck.
type Store struct {
	mu     sync.Mutex
	path   string
	logger logger.Logger
}

// NewStore creates a file backend at path. The file is created lazily.
func NewStore(path string, log logger.Logger) *Store {
	return &Store{
		path:   path,
		logger: log,
	}
}

// GetAll returns every decodable entry. Entries that fail to decode are
// skipped with a warning rather than failing the whole read.
func (s *Store) GetAll(ctx context.Context) ([]domain.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.HistoryEntry, 0, len(doc.Entries))
	for _, rec := range doc.Entries {
		e, err := rec.Entry()
		if err != nil {
			s.logger.Warn("skipping unreadable history entry",
				logger.String("id", rec.ID),
				logger.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Put upserts entry.
func (s *Store) Put(ctx context.Context, entry domain.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	rec := entry.ToRecord()
	replaced := false
	for i := range doc.Entries {
		if doc.Entries[i].ID == rec.ID {
			doc.Entries[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Entries = append(doc.Entries, rec)
	}

	return s.write(doc)
}

// Delete removes id. A missing id leaves the file untouched.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	kept := doc.Entries[:0]
	for _, rec := range doc.Entries {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(doc.Entries) {
		return nil
	}
	doc.Entries = kept

	return s.write(doc)
}

// DeleteAll truncates the document to zero entries.
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(document{Version: documentVersion})
}

func (s *Store) read() (document, error) {
	doc := document{Version: documentVersion}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("failed to read history file: %w", err)
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse history file: %w", err)
	}
	return doc, nil
}

// write replaces the file atomically so a crash never leaves half a document.
func (s *Store) write(doc document) error {
	doc.Version = documentVersion
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close history file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
