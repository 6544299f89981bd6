// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// Package breaker wraps sony/gobreaker with Sonograph's logging and metrics.
//
// Both outbound integrations (Last.fm and the playlist sink) run their HTTP
// calls through a Breaker so a failing upstream is cut off quickly instead of
// tying up the request gate with calls that are going to fail anyway.
//
// DETERMINISM NOTE: gobreaker uses real time for its interval and timeout.
// Tests that need a specific state should trip the breaker with real calls.
package breaker

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/sonograph/internal/logging"
	"github.com/tomtom215/sonograph/internal/metrics"
)

// Settings configures a Breaker.
type Settings struct {
	Name string

	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32

	// Timeout is how long the circuit stays open before a half-open probe.
	Timeout time.Duration

	// IsSuccessful classifies a returned error. Errors it accepts do not count
	// against the circuit. Nil means only a nil error is a success.
	IsSuccessful func(error) bool
}

// Breaker is a named circuit breaker.
type Breaker struct {
	cb           *gobreaker.CircuitBreaker[any]
	name         string
	isSuccessful func(error) bool
}

// New creates a closed Breaker.
func New(s Settings) *Breaker {
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}
	if s.IsSuccessful == nil {
		s.IsSuccessful = func(err error) bool { return err == nil }
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.Name).Set(0)

	maxFailures := s.MaxFailures
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1, // one probe in half-open state
		Interval:    time.Minute,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= maxFailures
			if trip {
				logging.Warn().
					Str("breaker", s.Name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: s.IsSuccessful,
	})

	return &Breaker{cb: cb, name: s.Name, isSuccessful: s.IsSuccessful}
}

// IsOpen reports whether err is a rejection by an open (or saturated
// half-open) circuit rather than a failure of the wrapped call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// Execute runs fn under the circuit breaker.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	case IsOpen(err):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		logging.Warn().Str("breaker", b.name).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
	case b.isSuccessful(err):
		// An expected outcome such as "not found"; the circuit stays healthy.
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		counts := b.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
	}
	return result, err
}

// Name returns the breaker's name.
func (b *Breaker) Name() string {
	return b.name
}

// State returns "closed", "half-open" or "open".
func (b *Breaker) State() string {
	return stateToString(b.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
