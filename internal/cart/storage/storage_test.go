package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok, err := m.Read(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := m.Write(ctx, "k", "v1"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := m.Write(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, ok, err := m.Read(ctx, "k")
	if err != nil || !ok || got != "v2" {
		t.Fatalf("expected (v2,true,nil), got (%q,%v,%v)", got, ok, err)
	}
}

func TestFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	t.Run("absent key", func(t *testing.T) {
		if _, ok, err := f.Read(ctx, "cart/v-current"); err != nil || ok {
			t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("round trip with slash in key", func(t *testing.T) {
		if err := f.Write(ctx, "cart/v-current", `{"items":[]}`); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		got, ok, err := f.Read(ctx, "cart/v-current")
		if err != nil || !ok || got != `{"items":[]}` {
			t.Fatalf("expected round trip, got (%q,%v,%v)", got, ok, err)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := f.Write(ctx, "k", "old"); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if err := f.Write(ctx, "k", "new"); err != nil {
			t.Fatalf("overwrite failed: %v", err)
		}
		got, _, _ := f.Read(ctx, "k")
		if got != "new" {
			t.Fatalf("expected %q, got %q", "new", got)
		}
	})

	t.Run("survives reopen", func(t *testing.T) {
		again, err := NewFile(dir)
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		got, ok, err := again.Read(ctx, "cart/v-current")
		if err != nil || !ok || got != `{"items":[]}` {
			t.Fatalf("expected value after reopen, got (%q,%v,%v)", got, ok, err)
		}
	})
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "slots.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}

	t.Run("absent key", func(t *testing.T) {
		if _, ok, err := db.Read(ctx, "missing"); err != nil || ok {
			t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("upsert", func(t *testing.T) {
		if err := db.Write(ctx, "k", "v1"); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if err := db.Write(ctx, "k", "v2"); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
		got, ok, err := db.Read(ctx, "k")
		if err != nil || !ok || got != "v2" {
			t.Fatalf("expected (v2,true,nil), got (%q,%v,%v)", got, ok, err)
		}
	})

	t.Run("survives reopen", func(t *testing.T) {
		if err := db.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		again, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		defer again.Close()

		got, ok, err := again.Read(ctx, "k")
		if err != nil || !ok || got != "v2" {
			t.Fatalf("expected value after reopen, got (%q,%v,%v)", got, ok, err)
		}
	})
}
