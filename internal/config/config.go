// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// Package config loads Sonograph configuration.
//
// Configuration is layered with koanf: struct defaults, then an optional YAML
// file, then environment variables (highest priority). See LoadWithKoanf.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	LastFM   LastFMConfig   `koanf:"lastfm"`
	Gate     GateConfig     `koanf:"gate"`
	Cache    CacheConfig    `koanf:"cache"`
	Graph    GraphConfig    `koanf:"graph"`
	Playlist PlaylistConfig `koanf:"playlist"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LastFMConfig configures the similarity data source.
type LastFMConfig struct {
	APIKey         string        `koanf:"api_key"`
	BaseURL        string        `koanf:"base_url"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	UserAgent      string        `koanf:"user_agent"`

	// Circuit breaker
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// GateConfig configures the outbound request gate.
type GateConfig struct {
	// MinInterval is the minimum spacing between two dispatched requests.
	MinInterval time.Duration `koanf:"min_interval"`

	// Cooldown is the pause after the upstream signals throttling.
	Cooldown time.Duration `koanf:"cooldown"`

	// MaxRetries bounds how often one request is requeued after throttling.
	MaxRetries int `koanf:"max_retries"`
}

// CacheConfig configures the upstream response cache.
type CacheConfig struct {
	// Backend is "memory" or "badger".
	Backend string        `koanf:"backend"`
	TTL     time.Duration `koanf:"ttl"`

	// Path is the badger directory. Ignored by the memory backend.
	Path string `koanf:"path"`

	// MaxEntries bounds the memory backend; least recently used entries go first.
	MaxEntries int `koanf:"max_entries"`

	// MaintenanceInterval is how often expired entries are swept (memory)
	// or the value log is garbage-collected (badger).
	MaintenanceInterval time.Duration `koanf:"maintenance_interval"`
}

// GraphConfig holds the graph builder limits and heuristics.
type GraphConfig struct {
	DefaultDepth int `koanf:"default_depth"`
	DefaultLimit int `koanf:"default_limit"`
	MinLimit     int `koanf:"min_limit"`
	MaxLimit     int `koanf:"max_limit"`

	// ExpandDefaultLimit is the fan-out used by expand when the request omits it.
	ExpandDefaultLimit int `koanf:"expand_default_limit"`

	MaxRootFanOut        int     `koanf:"max_root_fan_out"`
	RootFanOutFactor     int     `koanf:"root_fan_out_factor"`
	HopTwoSources        int     `koanf:"hop_two_sources"`
	HopTwoFanOut         int     `koanf:"hop_two_fan_out"`
	HopTwoPerSource      int     `koanf:"hop_two_per_source"`
	IndirectCap          float64 `koanf:"indirect_cap"`
	MaterialityThreshold float64 `koanf:"materiality_threshold"`
}

// PlaylistConfig configures the playlist sink.
type PlaylistConfig struct {
	Enabled        bool          `koanf:"enabled"`
	BaseURL        string        `koanf:"base_url"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	BatchSize      int           `koanf:"batch_size"`

	// Circuit breaker
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// SecurityConfig holds inbound HTTP protections.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
