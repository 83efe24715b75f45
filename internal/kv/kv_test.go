package kv

import (
	"context"
	"testing"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "k", `{"a":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || v != `{"a":1}` {
		t.Fatalf("get after set: v=%q ok=%v err=%v", v, ok, err)
	}

	// Set replaces, never merges.
	if err := s.Set(ctx, "k", `{"b":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = s.Get(ctx, "k")
	if v != `{"b":2}` {
		t.Fatalf("overwrite result: %q", v)
	}

	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("key still present after remove")
	}

	// Removing an absent key is a no-op, not an error.
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	s, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	testStore(t, s)
}

func TestFileStoreEscapesKeys(t *testing.T) {
	s, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()
	if err := s.Set(ctx, "@yonkistats_entries", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "@yonkistats_entries")
	if err != nil || !ok || v != "[]" {
		t.Fatalf("round trip: v=%q ok=%v err=%v", v, ok, err)
	}
}
