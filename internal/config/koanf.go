// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/sonograph/config.yaml",
	"/etc/sonograph/config.yml",
}

// ConfigPathEnvVar names the environment variable holding an explicit config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// sliceConfigPaths are accepted as comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so the process environment cannot leak into config.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"lastfm_api_key":              "lastfm.api_key",
	"lastfm_base_url":             "lastfm.base_url",
	"lastfm_request_timeout":      "lastfm.request_timeout",
	"lastfm_user_agent":           "lastfm.user_agent",
	"lastfm_breaker_max_failures": "lastfm.breaker_max_failures",
	"lastfm_breaker_timeout":      "lastfm.breaker_timeout",

	"gate_min_interval": "gate.min_interval",
	"gate_cooldown":     "gate.cooldown",
	"gate_max_retries":  "gate.max_retries",

	"cache_backend":              "cache.backend",
	"cache_ttl":                  "cache.ttl",
	"cache_path":                 "cache.path",
	"cache_max_entries":          "cache.max_entries",
	"cache_maintenance_interval": "cache.maintenance_interval",

	"graph_default_depth":         "graph.default_depth",
	"graph_default_limit":         "graph.default_limit",
	"graph_min_limit":             "graph.min_limit",
	"graph_max_limit":             "graph.max_limit",
	"graph_expand_default_limit":  "graph.expand_default_limit",
	"graph_max_root_fan_out":      "graph.max_root_fan_out",
	"graph_root_fan_out_factor":   "graph.root_fan_out_factor",
	"graph_hop_two_sources":       "graph.hop_two_sources",
	"graph_hop_two_fan_out":       "graph.hop_two_fan_out",
	"graph_hop_two_per_source":    "graph.hop_two_per_source",
	"graph_indirect_cap":          "graph.indirect_cap",
	"graph_materiality_threshold": "graph.materiality_threshold",

	"playlist_enabled":              "playlist.enabled",
	"playlist_base_url":             "playlist.base_url",
	"playlist_request_timeout":      "playlist.request_timeout",
	"playlist_batch_size":           "playlist.batch_size",
	"playlist_breaker_max_failures": "playlist.breaker_max_failures",
	"playlist_breaker_timeout":      "playlist.breaker_timeout",

	"rate_limit_reqs":     "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"rate_limit_disabled": "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// Default returns the built-in defaults, the lowest-priority layer.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3001,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    5 * time.Minute, // depth-2 builds queue ~100 gated calls
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		LastFM: LastFMConfig{
			BaseURL:            "https://ws.audioscrobbler.com/2.0/",
			RequestTimeout:     10 * time.Second,
			UserAgent:          "Sonograph/1.0 (+https://github.com/tomtom215/sonograph)",
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Gate: GateConfig{
			MinInterval: 200 * time.Millisecond, // Last.fm fair use: 5 req/s
			Cooldown:    2 * time.Second,
			MaxRetries:  5,
		},
		Cache: CacheConfig{
			Backend:             "memory",
			TTL:                 24 * time.Hour,
			Path:                "/data/cache",
			MaxEntries:          50000,
			MaintenanceInterval: 10 * time.Minute,
		},
		Graph: GraphConfig{
			DefaultDepth:         1,
			DefaultLimit:         25,
			MinLimit:             5,
			MaxLimit:             50,
			ExpandDefaultLimit:   10,
			MaxRootFanOut:        100,
			RootFanOutFactor:     4,
			HopTwoSources:        8,
			HopTwoFanOut:         5,
			HopTwoPerSource:      2,
			IndirectCap:          0.5,
			MaterialityThreshold: 0.1,
		},
		Playlist: PlaylistConfig{
			Enabled:        true,
			BaseURL:        "https://api.spotify.com/v1",
			RequestTimeout:     15 * time.Second,
			BatchSize:          100,
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// the environment, in increasing priority, and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// LASTFM_API_KEY -> lastfm.api_key
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// processSliceFields splits comma-separated env values into string slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
