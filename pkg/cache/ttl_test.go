package cache

import (
	"testing"
	"time"
)

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewTTLCacheWithNow[string, int](func() time.Time { return now })

	c.Set("a", 42, time.Minute)

	got, ok := c.Get("a")
	if !ok || got != 42 {
		t.Fatalf("expected hit 42, got %d (ok=%v)", got, ok)
	}

	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestTTLCacheZeroTTLNotStored(t *testing.T) {
	c := NewTTLCache[string, string]()
	c.Set("k", "v", 0)
	if _, ok := c.Get("k"); ok {
		t.Fatal("zero ttl entries must not be stored")
	}
}

func TestTTLCachePurge(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Hour)
	c.Set("b", 2, time.Hour)
	c.Purge()
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected purge to drop entries")
	}
}
