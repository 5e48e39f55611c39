package cartsync

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "state", "cart_id"))

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected empty store, ok=%v err=%v", ok, err)
	}

	if err := store.Save(ctx, "c1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	id, ok, err := store.Load(ctx)
	if err != nil || !ok || id != "c1" {
		t.Fatalf("Load after save: id=%q ok=%v err=%v", id, ok, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := store.Load(ctx); ok {
		t.Fatal("expected cleared store")
	}
	// Clearing twice is fine.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}
