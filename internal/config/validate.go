// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLastFM,
		c.validateGate,
		c.validateCache,
		c.validateGraph,
		c.validatePlaylist,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateLastFM() error {
	if strings.TrimSpace(c.LastFM.APIKey) == "" {
		return fmt.Errorf("LASTFM_API_KEY is required")
	}
	if err := validateBaseURL("LASTFM_BASE_URL", c.LastFM.BaseURL); err != nil {
		return err
	}
	if c.LastFM.RequestTimeout <= 0 {
		return fmt.Errorf("LASTFM_REQUEST_TIMEOUT must be positive")
	}
	if c.LastFM.BreakerMaxFailures == 0 {
		return fmt.Errorf("LASTFM_BREAKER_MAX_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validateGate() error {
	if c.Gate.MinInterval < 0 {
		return fmt.Errorf("GATE_MIN_INTERVAL must not be negative")
	}
	if c.Gate.Cooldown < c.Gate.MinInterval {
		return fmt.Errorf("GATE_COOLDOWN (%s) must be at least GATE_MIN_INTERVAL (%s)", c.Gate.Cooldown, c.Gate.MinInterval)
	}
	if c.Gate.MaxRetries < 0 {
		return fmt.Errorf("GATE_MAX_RETRIES must not be negative")
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "memory":
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("CACHE_MAX_ENTRIES must be at least 1")
		}
	case "badger":
		if c.Cache.Path == "" {
			return fmt.Errorf("CACHE_PATH is required when CACHE_BACKEND=badger")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory or badger, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.MaintenanceInterval <= 0 {
		return fmt.Errorf("CACHE_MAINTENANCE_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) validateGraph() error {
	g := c.Graph
	if g.MinLimit < 1 || g.MaxLimit < g.MinLimit {
		return fmt.Errorf("graph limits invalid: min=%d max=%d", g.MinLimit, g.MaxLimit)
	}
	if g.DefaultLimit < g.MinLimit || g.DefaultLimit > g.MaxLimit {
		return fmt.Errorf("GRAPH_DEFAULT_LIMIT %d outside [%d,%d]", g.DefaultLimit, g.MinLimit, g.MaxLimit)
	}
	if g.DefaultDepth != 1 && g.DefaultDepth != 2 {
		return fmt.Errorf("GRAPH_DEFAULT_DEPTH must be 1 or 2, got %d", g.DefaultDepth)
	}
	if g.ExpandDefaultLimit < 1 || g.ExpandDefaultLimit > g.MaxLimit {
		return fmt.Errorf("GRAPH_EXPAND_DEFAULT_LIMIT %d outside [1,%d]", g.ExpandDefaultLimit, g.MaxLimit)
	}
	if g.MaxRootFanOut < g.MaxLimit {
		return fmt.Errorf("GRAPH_MAX_ROOT_FAN_OUT (%d) must be at least GRAPH_MAX_LIMIT (%d)", g.MaxRootFanOut, g.MaxLimit)
	}
	if g.RootFanOutFactor < 1 || g.HopTwoSources < 0 || g.HopTwoFanOut < 1 || g.HopTwoPerSource < 1 {
		return fmt.Errorf("graph hop-two fan-out settings must be positive")
	}
	if g.IndirectCap <= 0 || g.IndirectCap > 1 {
		return fmt.Errorf("GRAPH_INDIRECT_CAP must be in (0,1], got %v", g.IndirectCap)
	}
	if g.MaterialityThreshold < 0 || g.MaterialityThreshold >= 1 {
		return fmt.Errorf("GRAPH_MATERIALITY_THRESHOLD must be in [0,1), got %v", g.MaterialityThreshold)
	}
	return nil
}

func (c *Config) validatePlaylist() error {
	if !c.Playlist.Enabled {
		return nil
	}
	if err := validateBaseURL("PLAYLIST_BASE_URL", c.Playlist.BaseURL); err != nil {
		return err
	}
	if c.Playlist.BatchSize < 1 || c.Playlist.BatchSize > 100 {
		return fmt.Errorf("PLAYLIST_BATCH_SIZE must be between 1 and 100, got %d", c.Playlist.BatchSize)
	}
	if c.Playlist.BreakerMaxFailures == 0 {
		return fmt.Errorf("PLAYLIST_BREAKER_MAX_FAILURES must be at least 1")
	}
	if c.Playlist.BreakerTimeout <= 0 {
		return fmt.Errorf("PLAYLIST_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func validateBaseURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}
