// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/tomtom215/sonograph/internal/export"
	"github.com/tomtom215/sonograph/internal/graph"
	"github.com/tomtom215/sonograph/internal/lastfm"
	"github.com/tomtom215/sonograph/internal/playlist"
	"github.com/tomtom215/sonograph/internal/validation"
)

// Error codes returned in APIError.Code.
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeValidationError   = validation.CodeValidationError
	CodeNoRootArtist      = "NO_ROOT_ARTIST"
	CodeArtistNotFound    = "ARTIST_NOT_FOUND"
	CodeRateLimited       = "RATE_LIMITED"
	CodeTooManyRequests   = "TOO_MANY_REQUESTS"
	CodeUpstreamError     = "UPSTREAM_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidTrack      = "INVALID_TRACK"
	CodePlaylistsDisabled = "PLAYLISTS_DISABLED"
	CodeNotFound          = "NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
)

// ErrInvalidInput marks a request the caller must fix.
var ErrInvalidInput = errors.New("invalid input")

// classifyError maps a domain error to a status, a code and a message that
// is safe to show the caller.
func classifyError(err error) (status int, code, message string) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, CodeValidationError, verr.Error()
	case errors.Is(err, ErrInvalidInput), errors.Is(err, graph.ErrInvalidRequest):
		return http.StatusBadRequest, CodeInvalidInput, err.Error()
	case errors.Is(err, export.ErrNoRoot):
		return http.StatusBadRequest, CodeNoRootArtist, "Graph has no root artist"
	case errors.Is(err, playlist.ErrInvalidTrack):
		return http.StatusBadRequest, CodeInvalidTrack, err.Error()
	case errors.Is(err, lastfm.ErrNotFound):
		return http.StatusNotFound, CodeArtistNotFound, "Artist not found"
	case errors.Is(err, lastfm.ErrRateLimited), errors.Is(err, playlist.ErrRateLimited):
		return http.StatusTooManyRequests, CodeRateLimited, "Upstream rate limit exceeded, try again shortly"
	case errors.Is(err, playlist.ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized, "Playlist service rejected the access token"
	case errors.Is(err, lastfm.ErrUpstream), errors.Is(err, playlist.ErrUpstream):
		return http.StatusInternalServerError, CodeUpstreamError, "Upstream service error"
	default:
		return http.StatusInternalServerError, CodeInternalError, "Internal server error"
	}
}

// retryAfter renders d as whole seconds for the Retry-After header.
func retryAfter(seconds float64) string {
	return strconv.Itoa(int(math.Max(1, math.Ceil(seconds))))
}
