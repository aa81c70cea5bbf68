package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bobmcallan/fundwatch/internal/common"
	"github.com/bobmcallan/fundwatch/internal/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(common.NewSilentLogger(), &common.StorageConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestPositionsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// nothing saved yet: empty slice, not an error
	positions, err := store.GetPositions(ctx)
	if err != nil {
		t.Fatalf("GetPositions on empty store: %v", err)
	}
	if len(positions) != 0 {
		t.Fatalf("got %d positions, want 0", len(positions))
	}

	saved := []models.FundPosition{
		{FundCode: "005911", FundName: "广发双擎升级混合", Shares: 100, Cost: 200, BuyDate: "2024-02-20"},
		{FundCode: "110022", Shares: 50, Cost: 160},
	}
	if err := store.SavePositions(ctx, saved); err != nil {
		t.Fatalf("SavePositions: %v", err)
	}

	loaded, err := store.GetPositions(ctx)
	if err != nil {
		t.Fatalf("GetPositions: %v", err)
	}
	if len(loaded) != 2 || loaded[0].FundCode != "005911" || loaded[1].Shares != 50 {
		t.Errorf("loaded = %+v", loaded)
	}

	if err := store.DeletePositions(ctx); err != nil {
		t.Fatalf("DeletePositions: %v", err)
	}
	positions, err = store.GetPositions(ctx)
	if err != nil {
		t.Fatalf("GetPositions after delete: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("got %d positions after delete, want 0", len(positions))
	}

	// deleting again is a no-op
	if err := store.DeletePositions(ctx); err != nil {
		t.Errorf("second DeletePositions: %v", err)
	}
}

func TestSystemKV(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	value, err := store.GetSystemKV(ctx, "schema_version")
	if err != nil {
		t.Fatalf("GetSystemKV on empty store: %v", err)
	}
	if value != "" {
		t.Fatalf("got %q, want empty", value)
	}

	if err := store.SetSystemKV(ctx, "schema_version", "1"); err != nil {
		t.Fatalf("SetSystemKV: %v", err)
	}
	value, err = store.GetSystemKV(ctx, "schema_version")
	if err != nil {
		t.Fatalf("GetSystemKV: %v", err)
	}
	if value != "1" {
		t.Errorf("got %q, want 1", value)
	}
}

func TestSanitizeKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetSystemKV(ctx, "../escape/attempt", "x"); err != nil {
		t.Fatalf("SetSystemKV: %v", err)
	}

	// the write must land inside the kv subdirectory
	entries, err := os.ReadDir(filepath.Join(store.basePath, "kv"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries in kv dir, want 1", len(entries))
	}

	value, err := store.GetSystemKV(ctx, "../escape/attempt")
	if err != nil || value != "x" {
		t.Errorf("round trip = %q, %v", value, err)
	}
}
