// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package playlist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sonograph/internal/breaker"
	"github.com/tomtom215/sonograph/internal/config"
	"github.com/tomtom215/sonograph/internal/logging"
	"github.com/tomtom215/sonograph/internal/metrics"
)

// maxErrorBodySize bounds how much of an error response is kept.
const maxErrorBodySize = 1024

// SpotifyClient creates playlists through the Spotify Web API.
type SpotifyClient struct {
	baseURL   string
	batchSize int
	client    *http.Client
	breaker   *breaker.Breaker
}

// NewSpotifyClient creates a client for cfg.BaseURL.
func NewSpotifyClient(cfg *config.PlaylistConfig) *SpotifyClient {
	batch := cfg.BatchSize
	if batch <= 0 || batch > 100 {
		batch = 100
	}
	return &SpotifyClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		batchSize: batch,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		breaker: breaker.New(breaker.Settings{
			Name:        "playlist",
			MaxFailures: cfg.BreakerMaxFailures,
			Timeout:     cfg.BreakerTimeout,
			IsSuccessful: func(err error) bool {
				// A bad token or a throttled user says nothing about service health.
				return err == nil || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrRateLimited)
			},
		}),
	}
}

type createPlaylistBody struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Public      bool   `json:"public"`
}

type createPlaylistResponse struct {
	ID           string `json:"id"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type addTracksBody struct {
	URIs []string `json:"uris"`
}

// CreatePlaylist creates the playlist, then adds the tracks in batches.
func (c *SpotifyClient) CreatePlaylist(ctx context.Context, token string, req Request) (res *Result, err error) {
	tracksAdded := 0
	defer func() {
		outcome := "ok"
		switch {
		case errors.Is(err, ErrUnauthorized):
			outcome = "unauthorized"
		case errors.Is(err, ErrRateLimited):
			outcome = "rate_limited"
		case errors.Is(err, ErrInvalidTrack):
			outcome = "invalid_track"
		case err != nil:
			outcome = "upstream_error"
		}
		metrics.RecordPlaylist(outcome, tracksAdded)
	}()

	uris := make([]string, 0, len(req.TrackIDs))
	for _, id := range req.TrackIDs {
		uri, err := TrackURI(id)
		if err != nil {
			return nil, err
		}
		uris = append(uris, uri)
	}

	var created createPlaylistResponse
	if err := c.post(ctx, token, "/me/playlists", createPlaylistBody{
		Name:        req.Name,
		Description: req.Description,
		Public:      req.Public,
	}, &created); err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("create playlist: %w: response has no playlist id", ErrUpstream)
	}

	for start := 0; start < len(uris); start += c.batchSize {
		end := min(start+c.batchSize, len(uris))
		if err := c.post(ctx, token, "/playlists/"+created.ID+"/tracks", addTracksBody{URIs: uris[start:end]}, nil); err != nil {
			return nil, fmt.Errorf("add tracks %d-%d to playlist %s: %w", start, end, created.ID, err)
		}
		tracksAdded = end
	}

	logging.Ctx(ctx).Info().
		Str("playlist_id", created.ID).
		Int("tracks", tracksAdded).
		Msg("Playlist created")

	return &Result{
		ID:          created.ID,
		URL:         created.ExternalURLs.Spotify,
		TracksAdded: tracksAdded,
	}, nil
}

// post sends body as JSON with the caller's bearer token.
func (c *SpotifyClient) post(ctx context.Context, token, path string, body, result interface{}) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.doPost(ctx, token, path, body, result)
	})
	if breaker.IsOpen(err) {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return err
}

func (c *SpotifyClient) doPost(ctx context.Context, token, path string, body, result interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("%w: HTTP %d: %s", classifyStatus(resp.StatusCode), resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
		}
	}
	return nil
}

func classifyStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrUpstream
	}
}

var _ Sink = (*SpotifyClient)(nil)
