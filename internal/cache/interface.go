// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// Package cache provides the TTL key-value store shared by all graph builds.
//
// Two backends implement Cacher: an in-process TTL cache bounded by LRU
// eviction (memory) and a badger-backed store that survives restarts
// (badger). Reads and writes are idempotent; the last write for a key wins.
package cache

import (
	"fmt"
	"time"
)

// Cacher is the contract used by the Last.fm client.
type Cacher interface {
	// Get returns the value and true if present and not expired.
	Get(key string) (interface{}, bool)

	// Set stores a value with the default TTL.
	Set(key string, value interface{})

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(key string, value interface{}, ttl time.Duration)

	// Delete removes a key.
	Delete(key string)

	// Clear removes every entry.
	Clear()

	// GetStats returns a snapshot of the counters.
	GetStats() Stats

	// HitRate returns hits/(hits+misses) as a percentage.
	HitRate() float64

	// Maintain reclaims space held by expired entries.
	Maintain() error

	// Close releases backend resources.
	Close() error
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Options selects and sizes a backend.
type Options struct {
	Backend    string
	TTL        time.Duration
	MaxEntries int
	Path       string
}

// Open constructs the configured backend.
func Open(opts Options) (Cacher, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return New(opts.TTL, opts.MaxEntries), nil
	case BackendBadger:
		return OpenBadger(opts.Path, opts.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

func hitRate(s Stats) float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total) * 100.0
}

var (
	_ Cacher = (*Cache)(nil)
	_ Cacher = (*BadgerCache)(nil)
)
