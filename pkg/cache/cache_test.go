package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss with nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "grid", []byte("[A][B]"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "grid")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != "[A][B]" {
		t.Fatalf("Get = %q, hit=%v", data, hit)
	}

	if err := c.Delete(ctx, "grid"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "grid"); hit {
		t.Error("entry should be gone after Delete")
	}
	// Deleting again is not an error.
	if err := c.Delete(ctx, "grid"); err != nil {
		t.Errorf("second Delete error: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	fc := c.(*FileCache)
	if err := os.WriteFile(fc.path("k"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("corrupt write error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("corrupt entry should read as a miss")
	}
	if _, err := os.Stat(fc.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
	// The shard directory still exists.
	if _, err := os.Stat(filepath.Dir(fc.path("k"))); err != nil {
		t.Errorf("shard dir missing: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("castle"))
	h2 := Hash([]byte("castle"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h3 := Hash([]byte("village")); h1 == h3 {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	s1 := k.SolveKey("abc", SolveKeyOpts{MaxIterations: 10000})
	s2 := k.SolveKey("abc", SolveKeyOpts{MaxIterations: 10000})
	if s1 != s2 {
		t.Error("SolveKey should be deterministic")
	}
	if s3 := k.SolveKey("abc", SolveKeyOpts{MaxIterations: 500}); s1 == s3 {
		t.Error("different limits should produce different keys")
	}
	if !strings.HasPrefix(s1, "solve:") {
		t.Errorf("SolveKey prefix wrong: %s", s1)
	}

	a := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "dot"})
	if !strings.HasPrefix(a, "artifact:") {
		t.Errorf("ArtifactKey prefix wrong: %s", a)
	}
	if a2 := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"}); a == a2 {
		t.Error("different formats should produce different keys")
	}

	g := k.GenerateKey("castle", "p1")
	if !strings.HasPrefix(g, "generate:") {
		t.Errorf("GenerateKey prefix wrong: %s", g)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:42:")

	key := scoped.SolveKey("abc", SolveKeyOpts{})
	if !strings.HasPrefix(key, "tenant:42:solve:") {
		t.Errorf("scoped key = %s", key)
	}
	if inner.SolveKey("abc", SolveKeyOpts{}) != strings.TrimPrefix(key, "tenant:42:") {
		t.Error("scoped key should wrap the inner key unchanged")
	}

	// Nil inner falls back to the default keyer.
	fallback := NewScopedKeyer(nil, "p:")
	if !strings.HasPrefix(fallback.GenerateKey("castle", "h"), "p:generate:") {
		t.Error("nil inner should use DefaultKeyer")
	}
}

func TestRetryWithBackoffStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 for non-retryable error", calls)
	}
}
