// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry is one cached value. It lives in both the map and the recency list.
type entry struct {
	key       string
	data      interface{}
	expiresAt time.Time
}

// Cache is an in-process TTL cache with LRU eviction once maxEntries is
// reached. Expired entries are dropped lazily on Get and in bulk by Maintain.
type Cache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	order      *list.List // front = most recently used
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	hits        int64
	misses      int64
	evictions   int64
	lastCleanup time.Time
}

// New creates a memory cache. maxEntries <= 0 means unbounded.
func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{
		items:       make(map[string]*list.Element),
		order:       list.New(),
		ttl:         ttl,
		maxEntries:  maxEntries,
		now:         time.Now,
		lastCleanup: time.Now(),
	}
}

// Get returns the value for key if it has not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	e := el.Value.(*entry)
	if c.now().After(e.expiresAt) {
		c.removeElement(el)
		c.evictions++
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return e.data, true
}

// Set stores value with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value with a custom TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.data = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry{key: key, data: value, expiresAt: expiresAt})
	for c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		c.removeElement(c.order.Back())
		c.evictions++
	}
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
		c.evictions++
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictions += int64(len(c.items))
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// GetStats returns a snapshot of the counters.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		TotalKeys:   int64(len(c.items)),
		LastCleanup: c.lastCleanup,
	}
}

// HitRate returns the hit rate as a percentage.
func (c *Cache) HitRate() float64 {
	return hitRate(c.GetStats())
}

// Maintain sweeps expired entries.
func (c *Cache) Maintain() error {
	c.Sweep()
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*entry).expiresAt) {
			c.removeElement(el)
			removed++
		}
		el = prev
	}
	c.evictions += int64(removed)
	c.lastCleanup = now
	return removed
}

// Close is a no-op for the memory backend.
func (c *Cache) Close() error {
	return nil
}

// removeElement must be called with mu held.
func (c *Cache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
