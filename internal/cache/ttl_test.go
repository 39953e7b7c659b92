package cache

import (
	"testing"
	"time"
)

func TestTTLGetSetDelete(t *testing.T) {
	c := NewTTL[int](time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("empty cache returned a value")
	}
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("got %d/%v, want 1/true", v, ok)
	}
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("value survived Delete")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewTTL[string](5 * time.Millisecond)
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("value survived its TTL")
	}
	c.Set("k2", "v")
	time.Sleep(20 * time.Millisecond)
	if removed := c.CleanExpired(); removed != 1 {
		t.Errorf("CleanExpired removed %d, want 1", removed)
	}
	if c.Size() != 0 {
		t.Errorf("size = %d after cleanup", c.Size())
	}
}

func TestJanitorSweeps(t *testing.T) {
	c := NewTTL[int](time.Millisecond)
	j := NewJanitor(c)
	j.Start(5 * time.Millisecond)
	defer j.Stop()

	c.Set("x", 1)
	time.Sleep(30 * time.Millisecond)
	if c.Size() != 0 {
		t.Errorf("janitor did not sweep, size = %d", c.Size())
	}
}
