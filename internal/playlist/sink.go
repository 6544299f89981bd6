// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// Package playlist turns a list of track identifiers into a playlist on an
// external streaming service.
//
// Sonograph does not manage user sessions. The caller's bearer token is
// forwarded verbatim and never stored or logged.
package playlist

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Failure kinds returned by a Sink.
var (
	ErrUnauthorized = errors.New("playlist service rejected the access token")
	ErrRateLimited  = errors.New("playlist service rate limit exceeded")
	ErrUpstream     = errors.New("playlist service error")
	ErrInvalidTrack = errors.New("invalid track identifier")
)

// Request describes the playlist to create.
type Request struct {
	Name        string
	Description string
	Public      bool
	TrackIDs    []string
}

// Result describes the created playlist.
type Result struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	TracksAdded int    `json:"tracksAdded"`
}

// Sink creates playlists on behalf of the token holder.
type Sink interface {
	CreatePlaylist(ctx context.Context, token string, req Request) (*Result, error)
}

const trackURIPrefix = "spotify:track:"

// TrackURI normalizes a bare id, a spotify:track: URI or an
// open.spotify.com track link into a track URI.
func TrackURI(id string) (string, error) {
	id = strings.TrimSpace(id)
	switch {
	case strings.HasPrefix(id, trackURIPrefix):
		id = strings.TrimPrefix(id, trackURIPrefix)
	case strings.HasPrefix(id, "https://") || strings.HasPrefix(id, "http://"):
		u, err := url.Parse(id)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidTrack, id)
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) < 2 || parts[len(parts)-2] != "track" {
			return "", fmt.Errorf("%w: %q", ErrInvalidTrack, id)
		}
		id = parts[len(parts)-1]
	}
	if !isBase62(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTrack, id)
	}
	return trackURIPrefix + id, nil
}

func isBase62(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
