// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

/*
Command server runs the Sonograph API.

Startup order:

 1. Configuration: defaults, optional config.yaml, then environment (koanf v2)
 2. Logging: zerolog, JSON or console
 3. Cache: in-memory LRU or badger, per CACHE_BACKEND
 4. Request gate and Last.fm client
 5. Graph builder and, if enabled, the playlist sink
 6. Supervisor tree: gate consumer, HTTP server, cache maintenance

# Configuration

Only LASTFM_API_KEY is required. Common settings:

	LASTFM_API_KEY=...            Last.fm API key
	HTTP_PORT=3001                listen port
	GATE_MIN_INTERVAL=200ms       spacing between Last.fm calls
	GATE_COOLDOWN=2s              pause after Last.fm throttles
	CACHE_BACKEND=memory|badger   response cache
	CACHE_PATH=/data/cache        badger directory
	CACHE_TTL=24h                 response cache lifetime
	PLAYLIST_ENABLED=true         expose POST /api/v1/playlists
	LOG_LEVEL=info LOG_FORMAT=json

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for up
to SHUTDOWN_TIMEOUT, queued gate requests fail with gate.ErrStopped, and the
cache is closed.

Swagger UI is served at /swagger/index.html and Prometheus metrics at /metrics.
*/
package main
