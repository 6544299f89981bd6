// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package cache

import (
	"github.com/goccy/go-json"
)

// Lookup reads key and returns it as T. The memory backend hands back the
// stored value as-is; the badger backend returns JSON which is decoded here.
// An undecodable entry is deleted and reported as a miss.
func Lookup[T any](c Cacher, key string) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	switch val := v.(type) {
	case T:
		return val, true
	case json.RawMessage:
		var out T
		if err := json.Unmarshal(val, &out); err != nil {
			c.Delete(key)
			return zero, false
		}
		return out, true
	default:
		c.Delete(key)
		return zero, false
	}
}
