// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// Package lastfm is the similarity data client backed by the Last.fm 2.0 API.
//
// Every lookup is cache-first. A miss is coalesced with concurrent misses for
// the same key (singleflight), then queued on the request gate and executed
// through a circuit breaker:
//
//	cache -> singleflight -> gate -> breaker -> HTTP
//
// Failures surface as one of ErrNotFound, ErrRateLimited or ErrUpstream.
package lastfm

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/sonograph/internal/breaker"
	"github.com/tomtom215/sonograph/internal/cache"
	"github.com/tomtom215/sonograph/internal/config"
	"github.com/tomtom215/sonograph/internal/logging"
	"github.com/tomtom215/sonograph/internal/metrics"
	"github.com/tomtom215/sonograph/internal/models"
)

// MaxSimilar is the largest similar-artist list Last.fm returns in one call.
const MaxSimilar = 100

// Gate serializes outbound calls. *gate.Gate satisfies it.
type Gate interface {
	Do(ctx context.Context, fn func(context.Context) error) error
}

// Client fetches artist records and similarity lists.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	client    *http.Client

	gate    Gate
	cache   cache.Cacher
	breaker *breaker.Breaker
	flight  singleflight.Group
	logger  zerolog.Logger
}

// NewClient creates a Last.fm client. All network calls are dispatched through
// g; results are stored in c.
func NewClient(cfg *config.LastFMConfig, g Gate, c cache.Cacher) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		gate:  g,
		cache: c,
		breaker: breaker.New(breaker.Settings{
			Name:        "lastfm",
			MaxFailures: cfg.BreakerMaxFailures,
			Timeout:     cfg.BreakerTimeout,
			IsSuccessful: func(err error) bool {
				// Not-found and throttling are answers, not outages.
				return err == nil ||
					errors.Is(err, ErrNotFound) ||
					errors.Is(err, ErrRateLimited) ||
					errors.Is(err, context.Canceled) ||
					errors.Is(err, context.DeadlineExceeded)
			},
		}),
		logger: logging.WithComponent("lastfm"),
	}
}

// BreakerState reports the circuit state for readiness checks.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// GetArtistInfo returns the record for name. When Last.fm has no exact match,
// one more attempt is made with the top artist.search suggestion.
func (c *Client) GetArtistInfo(ctx context.Context, name string) (*models.ArtistRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &Error{Kind: ErrNotFound, Method: "artist.getInfo", Message: "empty artist name"}
	}

	key := "info:" + models.ArtistID(name)
	if rec, ok := cache.Lookup[models.ArtistRecord](c.cache, key); ok {
		metrics.RecordCacheLookup("info", true)
		return &rec, nil
	}
	metrics.RecordCacheLookup("info", false)

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		rec, err := c.fetchInfo(ctx, name)
		if IsNotFound(err) {
			rec, err = c.autocorrect(ctx, name, err)
		}
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, *rec)
		if canonical := "info:" + rec.ID(); canonical != key {
			c.cache.Set(canonical, *rec)
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	rec := *v.(*models.ArtistRecord)
	return &rec, nil
}

// autocorrect retries getInfo with the search suggestion for name. The
// original not-found error is returned when there is no better candidate.
func (c *Client) autocorrect(ctx context.Context, name string, notFound error) (*models.ArtistRecord, error) {
	suggestion, err := c.SearchArtist(ctx, name)
	if err != nil {
		if IsNotFound(err) {
			return nil, notFound
		}
		return nil, err
	}
	if strings.EqualFold(suggestion, name) {
		return nil, notFound
	}
	logging.Ctx(ctx).Debug().Str("query", name).Str("suggestion", suggestion).Msg("Retrying artist lookup with search suggestion")
	return c.fetchInfo(ctx, suggestion)
}

func (c *Client) fetchInfo(ctx context.Context, name string) (*models.ArtistRecord, error) {
	var resp artistInfoResponse
	err := c.call(ctx, requestConfig{
		method: "artist.getInfo",
		params: url.Values{"artist": {name}, "autocorrect": {"1"}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.Artist.Name) == "" {
		return nil, &Error{Kind: ErrNotFound, Method: "artist.getInfo", Message: "empty artist in response"}
	}
	return resp.Artist.toRecord(), nil
}

// GetSimilarArtists returns up to limit entries in the order Last.fm ranks
// them (descending score).
func (c *Client) GetSimilarArtists(ctx context.Context, name string, limit int) ([]models.SimilarityEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &Error{Kind: ErrNotFound, Method: "artist.getSimilar", Message: "empty artist name"}
	}
	if limit <= 0 {
		return []models.SimilarityEntry{}, nil
	}
	limit = min(limit, MaxSimilar)

	key := "similar:" + models.ArtistID(name) + ":" + strconv.Itoa(limit)
	if entries, ok := cache.Lookup[[]models.SimilarityEntry](c.cache, key); ok {
		metrics.RecordCacheLookup("similar", true)
		return entries, nil
	}
	metrics.RecordCacheLookup("similar", false)

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		var resp similarResponse
		err := c.call(ctx, requestConfig{
			method: "artist.getSimilar",
			params: url.Values{
				"artist":      {name},
				"autocorrect": {"1"},
				"limit":       {strconv.Itoa(limit)},
			},
		}, &resp)
		if err != nil {
			return nil, err
		}
		entries := toEntries(resp.SimilarArtists.Artist, limit)
		c.cache.Set(key, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.SimilarityEntry), nil
}

// SearchArtist returns the name of the best artist.search match for query.
func (c *Client) SearchArtist(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", &Error{Kind: ErrNotFound, Method: "artist.search", Message: "empty query"}
	}

	key := "search:" + models.ArtistID(query)
	if name, ok := cache.Lookup[string](c.cache, key); ok {
		metrics.RecordCacheLookup("search", true)
		return name, nil
	}
	metrics.RecordCacheLookup("search", false)

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		var resp searchResponse
		err := c.call(ctx, requestConfig{
			method: "artist.search",
			params: url.Values{"artist": {query}, "limit": {"1"}},
		}, &resp)
		if err != nil {
			return "", err
		}
		for _, m := range resp.Results.ArtistMatches.Artist {
			if name := strings.TrimSpace(m.Name); name != "" {
				c.cache.Set(key, name)
				return name, nil
			}
		}
		return "", &Error{Kind: ErrNotFound, Method: "artist.search", Message: "no matches"}
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// call queues one request on the gate and runs it under the breaker. A
// rejection by an open circuit is reported as ErrUpstream.
func (c *Client) call(ctx context.Context, cfg requestConfig, result interface{}) error {
	err := c.gate.Do(ctx, func(ctx context.Context) error {
		_, err := c.breaker.Execute(func() (any, error) {
			return nil, c.doRequest(ctx, cfg, result)
		})
		return err
	})
	if breaker.IsOpen(err) {
		c.logger.Warn().Str("method", cfg.method).Msg("Last.fm circuit open, failing fast")
		return &Error{Kind: ErrUpstream, Method: cfg.method, Message: err.Error()}
	}
	return err
}
