package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache().(*NullCache)
	defer c.Close()

	for _, key := range []string{"img:a", "img:b"} {
		if err := c.Set(ctx, key, []byte("png"), time.Hour); err != nil {
			t.Fatalf("Set(%s) error: %v", key, err)
		}
		data, hit, err := c.Get(ctx, key)
		if err != nil || hit || data != nil {
			t.Errorf("Get(%s) = %q, %v, %v; want miss", key, data, hit, err)
		}
	}
	if got := c.Dropped(); got != 2 {
		t.Errorf("Dropped() = %d, want 2", got)
	}
	if err := c.Delete(ctx, "img:a"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get on empty cache should miss")
	}

	if err := c.Set(ctx, "k", []byte("png bytes"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "png bytes" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	calls := 0
	fill := func(context.Context) ([]byte, error) {
		calls++
		return []byte("fresh"), nil
	}

	for range 2 {
		data, err := Fetch(ctx, c, "k", time.Hour, fill)
		if err != nil || string(data) != "fresh" {
			t.Fatalf("Fetch = %q, %v", data, err)
		}
	}
	if calls != 1 {
		t.Errorf("fill called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	_, err := Fetch(ctx, c, "other", time.Hour, func(context.Context) ([]byte, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("Fetch error = %v, want fill error", err)
	}
	if _, hit, _ := c.Get(ctx, "other"); hit {
		t.Error("failed fill should not be cached")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.ImageKey("https://example.com/a.png")
	b := k.ImageKey("https://example.com/b.png")
	if a == b {
		t.Error("different URLs should produce different keys")
	}
	if len(a) != len("image:")+64 || a[:6] != "image:" {
		t.Errorf("ImageKey unexpected: %s", a)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "team:123:")

	key := scoped.ImageKey("x.png")
	if key != "team:123:"+NewDefaultKeyer().ImageKey("x.png") {
		t.Errorf("ScopedKeyer ImageKey unexpected: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ImageKey("x.png")
	if key[:13] != "prefix:image:" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
