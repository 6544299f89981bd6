// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// Package metrics defines the Prometheus instrumentation exposed on /metrics.
//
// Metrics are package-level promauto collectors registered with the default
// registry; record them through the helper functions below.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120}, // graph builds wait on the gate
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Last.fm upstream
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lastfm_requests_total",
			Help: "Total number of Last.fm API calls by method and outcome",
		},
		[]string{"method", "outcome"}, // outcome: ok, not_found, rate_limited, upstream_error
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lastfm_request_duration_seconds",
			Help:    "Last.fm API call duration in seconds, excluding gate wait",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Request gate
	GateQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gate_queue_depth",
			Help: "Number of requests waiting in the outbound request gate",
		},
	)

	GateWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gate_wait_duration_seconds",
			Help:    "Time a request spent queued before dispatch",
			Buckets: []float64{0.001, 0.01, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	GateDispatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gate_dispatches_total",
			Help: "Total number of requests dispatched by the gate",
		},
	)

	GateThrottlesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gate_throttles_total",
			Help: "Total number of throttled responses requeued at the front of the gate",
		},
	)

	GateDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_dropped_total",
			Help: "Requests removed from the gate without success",
		},
		[]string{"reason"}, // cancelled, retries_exhausted, shutdown
	)

	// Cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "info", "similar", "search"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached upstream responses",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Graph builds
	GraphBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_builds_total",
			Help: "Total number of graph builds by depth and outcome",
		},
		[]string{"depth", "outcome"}, // outcome: ok, not_found, rate_limited, error
	)

	GraphBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graph_build_duration_seconds",
			Help:    "Graph build duration in seconds",
			Buckets: []float64{0.05, 0.25, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"depth"},
	)

	GraphNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graph_nodes",
			Help:    "Number of nodes in built graphs",
			Buckets: []float64{1, 5, 10, 20, 30, 40, 50, 60, 70},
		},
	)

	GraphLookupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_lookup_failures_total",
			Help: "Per-artist lookups skipped during fan-out",
		},
		[]string{"hop"},
	)

	// Playlist sink
	PlaylistRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlist_requests_total",
			Help: "Total number of playlist creations by outcome",
		},
		[]string{"outcome"},
	)

	PlaylistTracksAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playlist_tracks_added_total",
			Help: "Total number of tracks added to created playlists",
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamRequest records one Last.fm call.
func RecordUpstreamRequest(method, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(method, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordCacheLookup records a cache hit or miss for the given cache type.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordGraphBuild records a finished build. nodes is ignored on failure.
func RecordGraphBuild(depth int, outcome string, nodes int, duration time.Duration) {
	d := strconv.Itoa(depth)
	GraphBuildsTotal.WithLabelValues(d, outcome).Inc()
	GraphBuildDuration.WithLabelValues(d).Observe(duration.Seconds())
	if outcome == "ok" {
		GraphNodes.Observe(float64(nodes))
	}
}

// RecordLookupFailure counts a skipped fan-out lookup at the given hop.
func RecordLookupFailure(hop int) {
	GraphLookupFailures.WithLabelValues(strconv.Itoa(hop)).Inc()
}

// RecordPlaylist records a playlist creation attempt.
func RecordPlaylist(outcome string, tracks int) {
	PlaylistRequestsTotal.WithLabelValues(outcome).Inc()
	if tracks > 0 {
		PlaylistTracksAdded.Add(float64(tracks))
	}
}
