// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package gate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errThrottled = errors.New("throttled")

func isThrottled(err error) bool { return errors.Is(err, errThrottled) }

// recorder collects dispatch order and timestamps.
type recorder struct {
	mu    sync.Mutex
	order []string
	times []time.Time
}

func (r *recorder) record(name string) {
	r.mu.Lock()
	r.order = append(r.order, name)
	r.times = append(r.times, time.Now())
	r.mu.Unlock()
}

func (r *recorder) snapshot() ([]string, []time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...), append([]time.Time(nil), r.times...)
}

// enqueueInOrder starts one Do per name and waits until each is queued
// before starting the next, so queue order is deterministic.
func enqueueInOrder(t *testing.T, g *Gate, names []string, fn func(name string) func(context.Context) error) []chan error {
	t.Helper()
	results := make([]chan error, len(names))
	for i, name := range names {
		results[i] = make(chan error, 1)
		go func(ch chan error, name string) {
			ch <- g.Do(context.Background(), fn(name))
		}(results[i], name)

		want := i + 1
		deadline := time.Now().Add(2 * time.Second)
		for g.Len() < want {
			if time.Now().After(deadline) {
				t.Fatalf("request %s was never queued", name)
			}
			time.Sleep(time.Millisecond)
		}
	}
	return results
}

func startGate(t *testing.T, g *Gate) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = g.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func waitAll(t *testing.T, results []chan error) []error {
	t.Helper()
	errs := make([]error, len(results))
	for i, ch := range results {
		select {
		case errs[i] = <-ch:
		case <-time.After(5 * time.Second):
			t.Fatalf("request %d never completed", i)
		}
	}
	return errs
}

func TestGateDispatchesInFIFOOrder(t *testing.T) {
	g := New(Options{})
	rec := &recorder{}

	results := enqueueInOrder(t, g, []string{"a", "b", "c", "d"}, func(name string) func(context.Context) error {
		return func(context.Context) error { rec.record(name); return nil }
	})
	startGate(t, g)

	for _, err := range waitAll(t, results) {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	order, _ := rec.snapshot()
	want := []string{"a", "b", "c", "d"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("dispatch order = %v, want %v", order, want)
		}
	}
}

func TestGateEnforcesMinimumSpacing(t *testing.T) {
	const interval = 40 * time.Millisecond
	g := New(Options{MinInterval: interval, Cooldown: interval})
	rec := &recorder{}
	startGate(t, g)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.Do(context.Background(), func(context.Context) error { rec.record("x"); return nil })
		}()
	}
	wg.Wait()

	_, times := rec.snapshot()
	if len(times) != 4 {
		t.Fatalf("dispatched %d, want 4", len(times))
	}
	for i := 1; i < len(times); i++ {
		// small tolerance for timer granularity
		if gap := times[i].Sub(times[i-1]); gap < interval-5*time.Millisecond {
			t.Errorf("gap %d = %v, want >= %v", i, gap, interval)
		}
	}
}

func TestGateRequeuesThrottledRequestAtFront(t *testing.T) {
	const cooldown = 30 * time.Millisecond
	g := New(Options{Cooldown: cooldown, MaxRetries: 3, IsThrottled: isThrottled})
	rec := &recorder{}

	var throttledOnce sync.Once
	results := enqueueInOrder(t, g, []string{"a", "b", "c"}, func(name string) func(context.Context) error {
		return func(context.Context) error {
			rec.record(name)
			if name == "a" {
				var err error
				throttledOnce.Do(func() { err = errThrottled })
				return err
			}
			return nil
		}
	})
	startGate(t, g)

	for _, err := range waitAll(t, results) {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}

	order, times := rec.snapshot()
	want := []string{"a", "a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("dispatch order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("dispatch order = %v, want %v", order, want)
		}
	}
	if gap := times[1].Sub(times[0]); gap < cooldown {
		t.Errorf("retry came after %v, want at least the %v cooldown", gap, cooldown)
	}
}

func TestGateReturnsThrottleErrorAfterMaxRetries(t *testing.T) {
	g := New(Options{Cooldown: time.Millisecond, MaxRetries: 2, IsThrottled: isThrottled})
	startGate(t, g)

	calls := 0
	err := g.Do(context.Background(), func(context.Context) error {
		calls++
		return errThrottled
	})
	if !errors.Is(err, errThrottled) {
		t.Fatalf("err = %v, want throttled", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 1 + 2 retries", calls)
	}
}

func TestGateNonThrottleErrorIsNotRetried(t *testing.T) {
	g := New(Options{MaxRetries: 5, IsThrottled: isThrottled})
	startGate(t, g)

	boom := errors.New("boom")
	calls := 0
	err := g.Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("err = %v calls = %d, want boom once", err, calls)
	}
}

func TestGateSkipsCancelledRequests(t *testing.T) {
	g := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())

	ran := make(chan struct{}, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Do(ctx, func(context.Context) error { ran <- struct{}{}; return nil })
	}()
	for g.Len() == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	startGate(t, g)
	if err := g.Do(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("follow-up request: %v", err)
	}
	select {
	case <-ran:
		t.Error("cancelled request was dispatched")
	default:
	}
}

func TestGateStopFailsPendingRequests(t *testing.T) {
	g := New(Options{})
	cancel := startGate(t, g)

	release := make(chan struct{})
	started := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		first <- g.Do(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	second := make(chan error, 1)
	go func() {
		second <- g.Do(context.Background(), func(context.Context) error { return nil })
	}()
	for g.Len() == 0 {
		time.Sleep(time.Millisecond)
	}

	cancel()
	close(release)

	if err := <-first; err != nil {
		t.Errorf("in-flight request err = %v", err)
	}
	if err := <-second; !errors.Is(err, ErrStopped) {
		t.Errorf("queued request err = %v, want ErrStopped", err)
	}
}

func TestGateRecoversPanics(t *testing.T) {
	g := New(Options{})
	startGate(t, g)

	err := g.Do(context.Background(), func(context.Context) error { panic("bad") })
	if err == nil {
		t.Fatal("expected error from panicking call")
	}
	if err := g.Do(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Errorf("gate should keep serving after a panic: %v", err)
	}
}

func TestGateRejectsSecondServe(t *testing.T) {
	g := New(Options{})
	startGate(t, g)
	for !g.Running() {
		time.Sleep(time.Millisecond)
	}
	if err := g.Serve(context.Background()); err == nil {
		t.Error("second Serve should fail")
	}
}

func TestDeque(t *testing.T) {
	t.Parallel()

	var d Deque[int]
	for i := 0; i < 20; i++ {
		d.PushBack(i)
	}
	d.PushFront(-1)
	d.PushFront(-2)

	if d.Len() != 22 {
		t.Fatalf("Len = %d", d.Len())
	}
	for _, want := range []int{-2, -1, 0, 1} {
		got, ok := d.PopFront()
		if !ok || got != want {
			t.Fatalf("PopFront = %d,%v want %d", got, ok, want)
		}
	}
	rest := d.Drain()
	if len(rest) != 18 || rest[0] != 2 || rest[17] != 19 {
		t.Errorf("Drain = %v", rest)
	}
	if _, ok := d.PopFront(); ok {
		t.Error("PopFront on empty deque should fail")
	}
}
