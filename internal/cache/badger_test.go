// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package cache

import (
	"testing"
	"time"
)

type cachedArtist struct {
	Name      string   `json:"name"`
	Listeners int64    `json:"listeners"`
	Tags      []string `json:"tags"`
}

func openTestBadger(t *testing.T, path string) *BadgerCache {
	t.Helper()
	b, err := OpenBadger(path, time.Hour)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBadgerRoundTripThroughLookup(t *testing.T) {
	b := openTestBadger(t, "")

	b.Set("info:cher", cachedArtist{Name: "Cher", Listeners: 1200000, Tags: []string{"pop", "disco"}})

	got, ok := Lookup[cachedArtist](b, "info:cher")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Name != "Cher" || got.Listeners != 1200000 || len(got.Tags) != 2 {
		t.Errorf("decoded = %+v", got)
	}

	if _, ok := Lookup[cachedArtist](b, "info:nobody"); ok {
		t.Error("expected miss for unknown key")
	}

	stats := b.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit 1 miss", stats)
	}
	if stats.TotalKeys != 1 {
		t.Errorf("TotalKeys = %d, want 1", stats.TotalKeys)
	}
}

func TestBadgerTTLExpiry(t *testing.T) {
	b := openTestBadger(t, "")

	// badger TTLs have one-second resolution.
	b.SetWithTTL("short", "v", time.Second)
	if _, ok := b.Get("short"); !ok {
		t.Fatal("entry should be readable before expiry")
	}
	time.Sleep(2100 * time.Millisecond)
	if _, ok := b.Get("short"); ok {
		t.Error("entry should expire after its TTL")
	}
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := OpenBadger(dir, time.Hour)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	first.Set("similar:cher:25", []string{"Madonna"})
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := openTestBadger(t, dir)
	got, ok := Lookup[[]string](second, "similar:cher:25")
	if !ok || len(got) != 1 || got[0] != "Madonna" {
		t.Errorf("after reopen got %v, %v", got, ok)
	}
	if err := second.Maintain(); err != nil {
		t.Errorf("Maintain: %v", err)
	}
}

func TestBadgerDeleteAndClear(t *testing.T) {
	b := openTestBadger(t, "")

	b.Set("a", 1)
	b.Set("b", 2)
	b.Delete("a")
	if _, ok := b.Get("a"); ok {
		t.Error("a should be deleted")
	}
	b.Clear()
	if _, ok := b.Get("b"); ok {
		t.Error("b should be cleared")
	}
}

func TestLookupMemoryBackendReturnsStoredValue(t *testing.T) {
	c := New(time.Hour, 0)
	c.Set("k", cachedArtist{Name: "ABBA"})

	got, ok := Lookup[cachedArtist](c, "k")
	if !ok || got.Name != "ABBA" {
		t.Errorf("Lookup = %+v, %v", got, ok)
	}
}

func TestLookupWrongTypeIsMiss(t *testing.T) {
	c := New(time.Hour, 0)
	c.Set("k", 42)

	if _, ok := Lookup[cachedArtist](c, "k"); ok {
		t.Error("mismatched type should be a miss")
	}
	if _, ok := c.Get("k"); ok {
		t.Error("mismatched entry should be dropped")
	}
}
