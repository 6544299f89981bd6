// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/sonograph/internal/cache"
	"github.com/tomtom215/sonograph/internal/metrics"
)

// countingCache wraps the memory cache and counts Maintain calls.
type countingCache struct {
	*cache.Cache
	calls atomic.Int32
	err   error
}

func (c *countingCache) Maintain() error {
	c.calls.Add(1)
	if c.err != nil {
		return c.err
	}
	return c.Cache.Maintain()
}

func TestCacheMaintenanceSweepsExpiredEntries(t *testing.T) {
	c := cache.New(time.Hour, 100)
	c.Set("info:keep", "value")
	c.SetWithTTL("info:gone", "value", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	svc := NewCacheMaintenanceService(c, time.Minute)
	svc.runOnce()

	if got := c.GetStats().TotalKeys; got != 1 {
		t.Errorf("TotalKeys = %d, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CacheEntries); got != 1 {
		t.Errorf("cache_entries gauge = %v, want 1", got)
	}
}

func TestCacheMaintenanceServeTicksUntilCanceled(t *testing.T) {
	c := &countingCache{Cache: cache.New(time.Hour, 10)}
	svc := NewCacheMaintenanceService(c, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(time.Second)
	for c.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}
	if c.calls.Load() < 2 {
		t.Errorf("Maintain called %d times, want at least 2", c.calls.Load())
	}
}

func TestCacheMaintenanceErrorKeepsLoopAlive(t *testing.T) {
	c := &countingCache{Cache: cache.New(time.Hour, 10), err: errors.New("value log busy")}
	svc := NewCacheMaintenanceService(c, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve returned %v", err)
	}
	if c.calls.Load() < 2 {
		t.Errorf("loop stopped after a maintenance error: %d calls", c.calls.Load())
	}
}

func TestNewCacheMaintenanceServiceDefaults(t *testing.T) {
	svc := NewCacheMaintenanceService(cache.New(time.Hour, 10), 0)
	if svc.interval != 10*time.Minute || svc.String() != "cache-maintenance" {
		t.Errorf("svc = %+v", svc)
	}
}
