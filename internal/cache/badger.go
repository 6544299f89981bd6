// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package cache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/sonograph/internal/logging"
)

const badgerKeyPrefix = "upstream:"

// BadgerCache persists cache entries in badger using its native per-entry TTL,
// so upstream responses survive restarts for the rest of their validity window.
//
// Values are stored as JSON. Get returns the raw json.RawMessage; use Lookup
// to decode into a concrete type.
type BadgerCache struct {
	db  *badger.DB
	ttl time.Duration

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	mu          sync.Mutex
	lastCleanup time.Time
}

// OpenBadger opens (or creates) a badger cache at path. An empty path opens
// an in-memory database.
func OpenBadger(path string, ttl time.Duration) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil                // Suppress BadgerDB internal logs
	opts.ValueLogFileSize = 64 << 20 // 64MB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache at %q: %w", path, err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &BadgerCache{db: db, ttl: ttl, lastCleanup: time.Now()}, nil
}

// Get returns the stored JSON as json.RawMessage.
func (b *BadgerCache) Get(key string) (interface{}, bool) {
	var raw json.RawMessage
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("key", key).Msg("Badger cache read failed")
		}
		b.misses.Add(1)
		return nil, false
	}
	b.hits.Add(1)
	return raw, true
}

// Set stores value with the default TTL.
func (b *BadgerCache) Set(key string, value interface{}) {
	b.SetWithTTL(key, value, b.ttl)
}

// SetWithTTL JSON-encodes value and stores it with ttl. Write failures are
// logged; a failed cache write only costs a future upstream call.
func (b *BadgerCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Badger cache value not encodable")
		return
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(badgerKeyPrefix+key), data).WithTTL(ttl))
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Badger cache write failed")
	}
}

// Delete removes key.
func (b *BadgerCache) Delete(key string) {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerKeyPrefix + key))
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Badger cache delete failed")
		return
	}
	b.evictions.Add(1)
}

// Clear drops every cache entry.
func (b *BadgerCache) Clear() {
	if err := b.db.DropPrefix([]byte(badgerKeyPrefix)); err != nil {
		logging.Warn().Err(err).Msg("Badger cache clear failed")
	}
}

// GetStats returns counters plus a live key count.
func (b *BadgerCache) GetStats() Stats {
	var keys int64
	_ = b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(badgerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys++
		}
		return nil
	})

	b.mu.Lock()
	last := b.lastCleanup
	b.mu.Unlock()

	return Stats{
		Hits:        b.hits.Load(),
		Misses:      b.misses.Load(),
		Evictions:   b.evictions.Load(),
		TotalKeys:   keys,
		LastCleanup: last,
	}
}

// HitRate returns the hit rate as a percentage.
func (b *BadgerCache) HitRate() float64 {
	return hitRate(Stats{Hits: b.hits.Load(), Misses: b.misses.Load()})
}

// Maintain runs value-log garbage collection until badger reports nothing
// left to rewrite. Expired entries are otherwise only dropped at compaction.
func (b *BadgerCache) Maintain() error {
	defer func() {
		b.mu.Lock()
		b.lastCleanup = time.Now()
		b.mu.Unlock()
	}()
	if b.db.Opts().InMemory {
		return nil
	}
	for {
		err := b.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("badger value log gc: %w", err)
		}
	}
}

// Close closes the database.
func (b *BadgerCache) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
