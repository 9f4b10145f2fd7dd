package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	// Round-trip
	if err := c.Set(ctx, "key", []byte("payload"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != "payload" {
		t.Errorf("Get = %q, %v; want payload, true", data, hit)
	}

	// Expired entry reads as miss
	if err := c.Set(ctx, "short", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "short")
	if hit {
		t.Error("expired entry should miss")
	}

	// Delete
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("deleted entry should miss")
	}
	// Deleting an absent key is fine
	if err := c.Delete(ctx, "absent"); err != nil {
		t.Errorf("Delete absent key error: %v", err)
	}
}

func TestFileCacheStats(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	c := fc.(*FileCache)

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte("data"), 0); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}

	entries, bytes, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if entries != 3 {
		t.Errorf("entries = %d, want 3", entries)
	}
	if bytes == 0 {
		t.Error("bytes should be nonzero")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	entries, _, err = c.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if entries != 0 {
		t.Errorf("entries after Clear = %d, want 0", entries)
	}
}

func TestHash(t *testing.T) {
	// Determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDesignHash(t *testing.T) {
	a := DesignHash([]byte("nodes"), []byte("pl"), []byte("scl"))
	b := DesignHash([]byte("nodes"), []byte("pl"), []byte("scl"))
	if a != b {
		t.Error("DesignHash should be deterministic")
	}

	// Boundary shifts must not collide
	c := DesignHash([]byte("nodespl"), []byte(""), []byte("scl"))
	if a == c {
		t.Error("shifted content boundaries should produce different hashes")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	k1 := k.ResultKey("hash123", ResultKeyOpts{Slack: 20, MaxIterations: 6})
	k2 := k.ResultKey("hash123", ResultKeyOpts{Slack: 40, MaxIterations: 6})
	if k1 == k2 {
		t.Error("different opts should produce different keys")
	}

	k3 := k.ResultKey("hash456", ResultKeyOpts{Slack: 20, MaxIterations: 6})
	if k1 == k3 {
		t.Error("different design hashes should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "design:ibm01:")

	key := scoped.ResultKey("hash123", ResultKeyOpts{Slack: 20, MaxIterations: 6})
	want := "design:ibm01:" + inner.ResultKey("hash123", ResultKeyOpts{Slack: 20, MaxIterations: 6})
	if key != want {
		t.Errorf("scoped key = %q, want %q", key, want)
	}
}
