// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package lastfm

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds. Every error returned by Client matches exactly one of these
// with errors.Is.
var (
	ErrNotFound    = errors.New("artist not found")
	ErrRateLimited = errors.New("last.fm rate limit exceeded")
	ErrUpstream    = errors.New("last.fm upstream error")
)

// Last.fm API error codes we classify specially.
// https://www.last.fm/api/errorcodes
const (
	codeInvalidParameters = 6
	codeRateLimitExceeded = 29
)

// Error carries upstream detail for a failed call.
type Error struct {
	Kind       error
	Method     string
	Code       int
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	switch {
	case e.Code != 0:
		return fmt.Sprintf("%s: %v (code %d: %s)", e.Method, e.Kind, e.Code, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %v (HTTP %d: %s)", e.Method, e.Kind, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s: %v: %s", e.Method, e.Kind, e.Message)
	}
}

// Is matches the failure kind sentinel.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// IsRateLimited reports whether err is upstream throttling. It is the gate's
// throttle classifier.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsNotFound reports whether err means the artist does not exist upstream.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// classify maps an HTTP status and an optional Last.fm error code to a kind.
func classify(statusCode, code int) error {
	switch {
	case code == codeInvalidParameters:
		return ErrNotFound
	case code == codeRateLimitExceeded:
		return ErrRateLimited
	case statusCode == http.StatusNotFound:
		return ErrNotFound
	case statusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrUpstream
	}
}

// outcome is the metrics label for err.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	default:
		return "upstream_error"
	}
}
