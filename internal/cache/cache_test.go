// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(ttl time.Duration, maxEntries int) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(ttl, maxEntries)
	c.now = clock.Now
	return c, clock
}

func TestCacheBasicOperations(t *testing.T) {
	c, _ := newTestCache(time.Minute, 0)

	c.Set("info:cher", "value1")
	value, exists := c.Get("info:cher")
	if !exists {
		t.Fatal("expected info:cher to exist")
	}
	if value != "value1" {
		t.Errorf("expected value1, got %v", value)
	}

	if _, exists := c.Get("info:abba"); exists {
		t.Error("expected info:abba to be absent")
	}
}

func TestCacheExpiration(t *testing.T) {
	c, clock := newTestCache(24*time.Hour, 0)

	c.Set("similar:cher:25", []int{1})
	clock.Advance(23 * time.Hour)
	if _, ok := c.Get("similar:cher:25"); !ok {
		t.Fatal("entry should still be valid before the TTL")
	}

	clock.Advance(2 * time.Hour)
	if _, ok := c.Get("similar:cher:25"); ok {
		t.Fatal("entry should be expired after the TTL")
	}
	if got := c.GetStats().TotalKeys; got != 0 {
		t.Errorf("expired entry should be dropped on read, TotalKeys = %d", got)
	}
}

func TestCacheSetWithTTLOverridesDefault(t *testing.T) {
	c, clock := newTestCache(time.Hour, 0)

	c.SetWithTTL("short", "v", time.Minute)
	clock.Advance(2 * time.Minute)
	if _, ok := c.Get("short"); ok {
		t.Error("custom TTL not honored")
	}
}

func TestCacheOverwriteKeepsSingleEntry(t *testing.T) {
	c, _ := newTestCache(time.Hour, 0)

	c.Set("k", "a")
	c.Set("k", "b")
	v, _ := c.Get("k")
	if v != "b" {
		t.Errorf("last write should win, got %v", v)
	}
	if got := c.GetStats().TotalKeys; got != 1 {
		t.Errorf("TotalKeys = %d, want 1", got)
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c, _ := newTestCache(time.Hour, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now most recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry a should survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("new entry c should be present")
	}
	if got := c.GetStats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestCacheSweep(t *testing.T) {
	c, clock := newTestCache(time.Hour, 0)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("old-%d", i), i)
	}
	clock.Advance(30 * time.Minute)
	c.Set("fresh", true)
	clock.Advance(45 * time.Minute)

	if removed := c.Sweep(); removed != 5 {
		t.Errorf("Sweep removed %d, want 5", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry should survive the sweep")
	}
	if err := c.Maintain(); err != nil {
		t.Errorf("Maintain: %v", err)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c, _ := newTestCache(time.Hour, 0)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be deleted")
	}

	c.Clear()
	if got := c.GetStats().TotalKeys; got != 0 {
		t.Errorf("TotalKeys after Clear = %d", got)
	}
}

func TestCacheHitRate(t *testing.T) {
	c, _ := newTestCache(time.Hour, 0)

	if c.HitRate() != 0 {
		t.Error("empty cache should report 0% hit rate")
	}
	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	if got := c.HitRate(); got != 75.0 {
		t.Errorf("HitRate = %v, want 75", got)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(time.Minute, 100)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k-%d", (i*j)%150)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if got := c.GetStats().TotalKeys; got > 100 {
		t.Errorf("TotalKeys = %d exceeds bound", got)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	c, err := Open(Options{Backend: BackendMemory, TTL: time.Hour, MaxEntries: 10})
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	if _, ok := c.(*Cache); !ok {
		t.Errorf("memory backend type = %T", c)
	}

	if _, err := Open(Options{Backend: "redis"}); err == nil {
		t.Error("unknown backend should fail")
	}
}
