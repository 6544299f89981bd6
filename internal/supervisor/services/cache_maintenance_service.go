// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package services

import (
	"context"
	"time"

	"github.com/tomtom215/sonograph/internal/cache"
	"github.com/tomtom215/sonograph/internal/logging"
	"github.com/tomtom215/sonograph/internal/metrics"
)

// CacheMaintenanceService calls Maintain on a cache at a fixed interval and
// publishes the entry count.
type CacheMaintenanceService struct {
	cache    cache.Cacher
	interval time.Duration
	name     string
}

// NewCacheMaintenanceService creates the service. A non-positive interval means 10m.
func NewCacheMaintenanceService(c cache.Cacher, interval time.Duration) *CacheMaintenanceService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CacheMaintenanceService{
		cache:    c,
		interval: interval,
		name:     "cache-maintenance",
	}
}

// Serve implements suture.Service. Maintenance errors are logged and do not
// stop the loop.
func (s *CacheMaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *CacheMaintenanceService) runOnce() {
	start := time.Now()
	err := s.cache.Maintain()
	stats := s.cache.GetStats()
	metrics.CacheEntries.Set(float64(stats.TotalKeys))

	if err != nil {
		logging.Warn().Err(err).Msg("Cache maintenance failed")
		return
	}
	logging.Debug().
		Int64("entries", stats.TotalKeys).
		Int64("evictions", stats.Evictions).
		Float64("hit_rate", s.cache.HitRate()).
		Dur("duration", time.Since(start)).
		Msg("Cache maintenance complete")
}

// String names the service in supervisor logs.
func (s *CacheMaintenanceService) String() string {
	return s.name
}
