package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
)

func TestStoreRoundTripAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.yaml")

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	style := domain.DefaultStyleOptions()
	style.FgColor = "#1976D2"
	entry, err := domain.RestoreHistoryEntry("abc", domain.WifiForm{
		SSID:       "Home",
		Password:   "secret",
		Encryption: domain.EncryptionWPA,
		Hidden:     true,
	}, style, created)
	if err != nil {
		t.Fatalf("RestoreHistoryEntry() error = %v", err)
	}

	if err := NewStore(path, logger.Nop()).Put(ctx, entry); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// A fresh instance stands in for the next session.
	all, err := NewStore(path, logger.Nop()).GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("GetAll() returned %d entries, want 1", len(all))
	}

	got := all[0]
	if got.ID() != "abc" || !got.CreatedAt().Equal(created) {
		t.Errorf("entry identity = %s @ %v", got.ID(), got.CreatedAt())
	}
	if wifi, ok := got.Form().(domain.WifiForm); !ok || wifi.SSID != "Home" || !wifi.Hidden {
		t.Errorf("form = %#v", got.Form())
	}
	if got.Style() != style {
		t.Errorf("style = %+v, want %+v", got.Style(), style)
	}
}

func TestStoreDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "history.yaml"), logger.Nop())

	for _, id := range []string{"a", "b", "c"} {
		e, _ := domain.RestoreHistoryEntry(id, domain.TextForm{Text: id}, domain.DefaultStyleOptions(), time.Now())
		if err := store.Put(ctx, e); err != nil {
			t.Fatalf("Put(%s) error = %v", id, err)
		}
	}

	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
	if err := store.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	all, _ := store.GetAll(ctx)
	if len(all) != 2 {
		t.Errorf("after delete = %d entries, want 2", len(all))
	}

	if err := store.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	all, _ = store.GetAll(ctx)
	if len(all) != 0 {
		t.Errorf("after clear = %d entries, want 0", len(all))
	}
}

func TestStoreMissingFileIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "none.yaml"), logger.Nop())
	all, err := store.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("GetAll() = %d entries, want 0", len(all))
	}
}

func TestStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")
	if err := os.WriteFile(path, []byte("entries: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := NewStore(path, logger.Nop()).GetAll(context.Background()); err == nil {
		t.Error("GetAll() on corrupt file should fail")
	}
}
