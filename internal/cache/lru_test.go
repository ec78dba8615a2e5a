package cache

import (
	"testing"
	"time"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[[]byte](2, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache should miss")
	}

	c.Set("a", []byte("pdf-a"))
	got, ok := c.Get("a")
	if !ok || string(got) != "pdf-a" {
		t.Errorf("Get(a) = %q, %v", got, ok)
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[[]byte](2, time.Minute)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Get("a") // a is now most recently used
	c.Set("c", []byte("3"))

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should have survived eviction")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c := NewLRUCache[[]byte](10, 10*time.Millisecond)

	c.Set("a", []byte("1"))
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should miss")
	}

	c.Set("b", []byte("2"))
	time.Sleep(20 * time.Millisecond)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired() = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size() after cleanup = %d, want 0", c.Size())
	}
}
