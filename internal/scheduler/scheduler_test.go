package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/history"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
	"github.com/MrSnakeDoc/qrgen/internal/store/memory"
)

func seedHistory(t *testing.T, n int) (*history.Store, *memory.Store) {
	t.Helper()
	backend := memory.NewStore()
	store := history.NewStore(backend, 0)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		e, err := domain.RestoreHistoryEntry(fmt.Sprintf("e%02d", i),
			domain.TextForm{Text: "x"}, domain.DefaultStyleOptions(), base.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("RestoreHistoryEntry() error = %v", err)
		}
		if err := store.Add(context.Background(), e); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	return store, backend
}

func TestHistoryCompactor_Compact(t *testing.T) {
	log := logger.New("error", false)
	store, backend := seedHistory(t, 25)

	hc := NewHistoryCompactor(store, log, 24*time.Hour, 20)
	if err := hc.Compact(context.Background()); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	if backend.Count() != 20 {
		t.Errorf("Expected 20 stored entries after compaction, got %d", backend.Count())
	}

	// View is bounded separately and must still expose the newest ten.
	entries := store.Entries()
	if len(entries) != history.DefaultLimit || entries[0].ID() != "e24" {
		t.Errorf("view after compaction = %d entries, newest %s", len(entries), entries[0].ID())
	}
}

func TestHistoryCompactor_Disabled(t *testing.T) {
	store, backend := seedHistory(t, 12)

	hc := NewHistoryCompactor(store, logger.Nop(), time.Hour, 0)
	if hc.Enabled() {
		t.Fatal("zero retention should disable compaction")
	}
	if err := hc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if backend.Count() != 12 {
		t.Errorf("disabled compactor deleted entries: %d left", backend.Count())
	}
}

func TestHistorySyncer_Sync(t *testing.T) {
	_, backend := seedHistory(t, 3)

	// A fresh store over the same backend models a restart.
	restarted := history.NewStore(backend, 0)
	if err := NewHistorySyncer(restarted, logger.Nop()).Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if got := len(restarted.Entries()); got != 3 {
		t.Errorf("Expected 3 entries after sync, got %d", got)
	}
}

type recordingTarget struct {
	mu  sync.Mutex
	got []domain.Defaults
}

func (r *recordingTarget) SetDefaults(d domain.Defaults) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, d)
}

func (r *recordingTarget) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func (r *recordingTarget) last() domain.Defaults {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.got[len(r.got)-1]
}

func TestPresetsReloader_ManualTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte("contact:\n  organization: Acme\n"), 0o644); err != nil {
		t.Fatalf("failed to write presets: %v", err)
	}

	base := domain.Defaults{Style: domain.StyleOptions{LogoImage: "data:image/png;base64,AAAA"}}
	target := &recordingTarget{}
	trigger := make(chan struct{}, 1)
	pr := NewPresetsReloader(path, 0, target, base, logger.Nop(), 0, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := pr.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer pr.Stop()

	if target.calls() != 1 || target.last().Contact.Organization != "Acme" {
		t.Fatalf("initial load not applied: %d calls", target.calls())
	}
	if target.last().Style.LogoImage == "" {
		t.Error("base logo should survive a presets file without style")
	}

	if err := os.WriteFile(path, []byte("contact:\n  organization: Globex\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite presets: %v", err)
	}
	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for target.calls() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if target.calls() < 2 || target.last().Contact.Organization != "Globex" {
		t.Errorf("manual reload not applied: %d calls", target.calls())
	}
}

func TestPresetsReloader_BadFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte("wifi:\n  encryption: WPA9\n"), 0o644); err != nil {
		t.Fatalf("failed to write presets: %v", err)
	}

	target := &recordingTarget{}
	pr := NewPresetsReloader(path, 0, target, domain.Defaults{}, logger.Nop(), time.Hour, nil)
	if err := pr.Reload(context.Background()); err == nil {
		t.Error("Reload() with invalid presets should fail")
	}
	if target.calls() != 0 {
		t.Error("invalid presets must not reach the target")
	}
}
