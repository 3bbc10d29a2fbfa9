package cache

import (
	"testing"
	"time"
)

func TestTTLCacheBasics(t *testing.T) {
	c := NewTTL[string](time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss")
	}
	c.Set("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("expected hit with v, got %q ok=%v", v, ok)
	}
	if c.Size() != 1 {
		t.Fatalf("expected size 1, got %d", c.Size())
	}
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTL[int](time.Millisecond)
	c.Set("k", 42)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire")
	}

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(5 * time.Millisecond)
	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("expected 2 cleaned, got %d", n)
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewTTL[int](0)
	c.Set("k", 1)
	time.Sleep(2 * time.Millisecond)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("zero-ttl entry should not expire")
	}
	if n := c.CleanExpired(); n != 0 {
		t.Fatalf("expected nothing cleaned, got %d", n)
	}
}
