package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/store/memory"
)

// flakyBackend wraps a memory store and fails on demand.
type flakyBackend struct {
	*memory.Store
	fail bool
}

var errUnavailable = errors.New("backend unavailable")

func (f *flakyBackend) GetAll(ctx context.Context) ([]domain.HistoryEntry, error) {
	if f.fail {
		return nil, errUnavailable
	}
	return f.Store.GetAll(ctx)
}

func (f *flakyBackend) Put(ctx context.Context, e domain.HistoryEntry) error {
	if f.fail {
		return errUnavailable
	}
	return f.Store.Put(ctx, e)
}

func (f *flakyBackend) Delete(ctx context.Context, id string) error {
	if f.fail {
		return errUnavailable
	}
	return f.Store.Delete(ctx, id)
}

func (f *flakyBackend) DeleteAll(ctx context.Context) error {
	if f.fail {
		return errUnavailable
	}
	return f.Store.DeleteAll(ctx)
}

func entryAt(t *testing.T, i int, base time.Time) domain.HistoryEntry {
	t.Helper()
	e, err := domain.RestoreHistoryEntry(
		fmt.Sprintf("entry-%02d", i),
		domain.TextForm{Text: fmt.Sprintf("text %d", i)},
		domain.DefaultStyleOptions(),
		base.Add(time.Duration(i)*time.Second),
	)
	if err != nil {
		t.Fatalf("RestoreHistoryEntry() error = %v", err)
	}
	return e
}

func ids(entries []domain.HistoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID()
	}
	return out
}

func TestStoreKeepsTenMostRecent(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	store := NewStore(backend, 0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 11; i++ {
		if err := store.Add(ctx, entryAt(t, i, base)); err != nil {
			t.Fatalf("Add(%d) error = %v", i, err)
		}
	}

	if got := len(store.Entries()); got != DefaultLimit {
		t.Errorf("view length = %d, want %d", got, DefaultLimit)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 10 {
		t.Fatalf("Load() returned %d entries, want 10", len(loaded))
	}
	for i, e := range loaded {
		want := fmt.Sprintf("entry-%02d", 11-i)
		if e.ID() != want {
			t.Errorf("Load()[%d] = %s, want %s", i, e.ID(), want)
		}
	}

	// Truncation is a view contract; storage still has all 11.
	if backend.Count() != 11 {
		t.Errorf("backend count = %d, want 11", backend.Count())
	}
}

func TestStoreRemove(t *testing.T) {
	ctx := context.Background()
	store := NewStore(memory.NewStore(), 0)
	base := time.Now()

	for i := 1; i <= 3; i++ {
		_ = store.Add(ctx, entryAt(t, i, base))
	}
	before := ids(store.Entries())

	if err := store.Remove(ctx, "does-not-exist"); err != nil {
		t.Fatalf("Remove(missing) error = %v", err)
	}
	if got := ids(store.Entries()); fmt.Sprint(got) != fmt.Sprint(before) {
		t.Errorf("Remove(missing) changed view: %v -> %v", before, got)
	}

	if err := store.Remove(ctx, "entry-02"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := store.Remove(ctx, "entry-02"); err != nil {
		t.Fatalf("repeated Remove() error = %v", err)
	}
	loaded, _ := store.Load(ctx)
	if got := fmt.Sprint(ids(loaded)); got != "[entry-03 entry-01]" {
		t.Errorf("after remove = %s", got)
	}
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewStore(memory.NewStore(), 0)
	_ = store.Add(ctx, entryAt(t, 1, time.Now()))

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Load() after Clear() = %v", ids(loaded))
	}
}

func TestStoreFailuresLeaveStateUntouched(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{Store: memory.NewStore()}
	store := NewStore(backend, 0)
	base := time.Now()

	_ = store.Add(ctx, entryAt(t, 1, base))
	_ = store.Add(ctx, entryAt(t, 2, base))
	before := fmt.Sprint(ids(store.Entries()))

	backend.fail = true

	if err := store.Add(ctx, entryAt(t, 3, base)); !errors.Is(err, errUnavailable) {
		t.Errorf("Add() error = %v, want wrapped errUnavailable", err)
	}
	if err := store.Remove(ctx, "entry-01"); err == nil {
		t.Error("Remove() should fail")
	}
	if err := store.Clear(ctx); err == nil {
		t.Error("Clear() should fail")
	}
	loaded, err := store.Load(ctx)
	if err == nil {
		t.Error("Load() should fail")
	}
	if len(loaded) != 0 {
		t.Errorf("Load() on failure returned %d entries", len(loaded))
	}

	if got := fmt.Sprint(ids(store.Entries())); got != before {
		t.Errorf("view changed on failure: %s -> %s", before, got)
	}

	backend.fail = false
	if err := store.Add(ctx, entryAt(t, 3, base)); err != nil {
		t.Errorf("Add() after recovery error = %v", err)
	}
}

func TestStoreGet(t *testing.T) {
	store := NewStore(memory.NewStore(), 0)
	_ = store.Add(context.Background(), entryAt(t, 1, time.Now()))

	if _, err := store.Get("entry-01"); err != nil {
		t.Errorf("Get() error = %v", err)
	}
	if _, err := store.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStoreCompact(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	store := NewStore(backend, 3)
	base := time.Now()

	for i := 1; i <= 8; i++ {
		_ = store.Add(ctx, entryAt(t, i, base))
	}

	deleted, err := store.Compact(ctx, 5)
	if err != nil {
		t.Fatalf("Compact() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("Compact() deleted %d, want 3", deleted)
	}
	if backend.Count() != 5 {
		t.Errorf("backend count = %d, want 5", backend.Count())
	}
	if got := fmt.Sprint(ids(store.Entries())); got != "[entry-08 entry-07 entry-06]" {
		t.Errorf("view after compaction = %s", got)
	}

	if n, _ := store.Compact(ctx, 0); n != 0 {
		t.Errorf("Compact(0) deleted %d, want 0", n)
	}
}
