// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// Package gate serializes outbound calls to a rate-limited upstream.
//
// A Gate owns one FIFO deque and a single consumer (Serve) that dispatches
// one request at a time, at least MinInterval apart. When a dispatched call
// reports throttling, the request goes back to the FRONT of the deque and the
// consumer pauses for Cooldown before dispatching anything else, so the
// throttled caller keeps its place and no other work overtakes it.
//
//	g := gate.New(gate.Options{MinInterval: 200 * time.Millisecond, Cooldown: 2 * time.Second, IsThrottled: lastfm.IsRateLimited})
//	go g.Serve(ctx) // or add it to the supervisor tree
//	err := g.Do(ctx, func(ctx context.Context) error { return call(ctx) })
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/sonograph/internal/logging"
	"github.com/tomtom215/sonograph/internal/metrics"
)

// ErrStopped is returned to callers still queued when the gate shuts down.
var ErrStopped = errors.New("request gate stopped")

// Options configures a Gate.
type Options struct {
	// MinInterval is the minimum spacing between dispatches. Zero disables pacing.
	MinInterval time.Duration

	// Cooldown is the pause after a throttled response.
	Cooldown time.Duration

	// MaxRetries bounds requeues of a single request after throttling.
	// Once exhausted the throttling error is returned to the caller.
	MaxRetries int

	// IsThrottled classifies a call's error as upstream throttling.
	IsThrottled func(error) bool
}

type request struct {
	ctx      context.Context
	fn       func(context.Context) error
	done     chan error // buffered; the consumer never blocks on it
	enqueued time.Time
	attempts int
}

// Gate is the single point of serialization for upstream calls.
type Gate struct {
	opts    Options
	limiter *rate.Limiter
	logger  zerolog.Logger

	mu    sync.Mutex
	queue Deque[*request]
	wake  chan struct{}

	running atomic.Bool
}

// New creates a Gate. It dispatches nothing until Serve runs.
func New(opts Options) *Gate {
	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}
	if opts.IsThrottled == nil {
		opts.IsThrottled = func(error) bool { return false }
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Gate{
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logging.WithComponent("gate"),
		wake:    make(chan struct{}, 1),
	}
}

// Do queues fn behind all pending work and blocks until it has run or ctx is
// done. A request whose ctx ends while queued is discarded without dispatch.
func (g *Gate) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := &request{ctx: ctx, fn: fn, done: make(chan error, 1), enqueued: time.Now()}
	g.push(req, false)

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of queued requests.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.queue.Len()
}

// Running reports whether the consumer loop is active.
func (g *Gate) Running() bool {
	return g.running.Load()
}

// Serve runs the consumer loop until ctx is cancelled. Requests still queued
// at that point fail with ErrStopped.
func (g *Gate) Serve(ctx context.Context) error {
	if !g.running.CompareAndSwap(false, true) {
		return fmt.Errorf("request gate already running")
	}
	defer g.running.Store(false)
	defer g.failPending()

	for {
		req, ok := g.next(ctx)
		if !ok {
			return ctx.Err()
		}

		if err := req.ctx.Err(); err != nil {
			metrics.GateDroppedTotal.WithLabelValues("cancelled").Inc()
			req.done <- err
			continue
		}

		if err := g.limiter.Wait(ctx); err != nil {
			g.push(req, true)
			return ctx.Err()
		}

		if req.attempts == 0 {
			metrics.GateWaitDuration.Observe(time.Since(req.enqueued).Seconds())
		}
		metrics.GateDispatchesTotal.Inc()
		err := g.dispatch(req)

		if err != nil && g.opts.IsThrottled(err) {
			if req.attempts < g.opts.MaxRetries {
				req.attempts++
				metrics.GateThrottlesTotal.Inc()
				g.push(req, true)
				g.logger.Warn().
					Int("attempt", req.attempts).
					Dur("cooldown", g.opts.Cooldown).
					Int("queued", g.Len()).
					Msg("Upstream throttled, requeued at front")
				if !sleepCtx(ctx, g.opts.Cooldown) {
					return ctx.Err()
				}
				continue
			}
			metrics.GateDroppedTotal.WithLabelValues("retries_exhausted").Inc()
		}
		req.done <- err
	}
}

// String implements suture.Service naming.
func (g *Gate) String() string {
	return "request-gate"
}

// dispatch runs fn, converting a panic into an error so the waiting caller
// is always answered.
func (g *Gate) dispatch(req *request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gated call panicked: %v", r)
		}
	}()
	return req.fn(req.ctx)
}

func (g *Gate) push(req *request, front bool) {
	g.mu.Lock()
	if front {
		g.queue.PushFront(req)
	} else {
		g.queue.PushBack(req)
	}
	metrics.GateQueueDepth.Set(float64(g.queue.Len()))
	g.mu.Unlock()

	select {
	case g.wake <- struct{}{}:
	default:
	}
}

// next blocks until a request is available or ctx ends.
func (g *Gate) next(ctx context.Context) (*request, bool) {
	for {
		g.mu.Lock()
		req, ok := g.queue.PopFront()
		metrics.GateQueueDepth.Set(float64(g.queue.Len()))
		g.mu.Unlock()
		if ok {
			return req, true
		}

		select {
		case <-g.wake:
		case <-ctx.Done():
			return nil, false
		}
	}
}

func (g *Gate) failPending() {
	g.mu.Lock()
	pending := g.queue.Drain()
	metrics.GateQueueDepth.Set(0)
	g.mu.Unlock()

	for _, req := range pending {
		metrics.GateDroppedTotal.WithLabelValues("shutdown").Inc()
		req.done <- ErrStopped
	}
	if len(pending) > 0 {
		g.logger.Info().Int("pending", len(pending)).Msg("Request gate stopped with queued requests")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
