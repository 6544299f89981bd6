// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// @title Sonograph API
// @version 1.0
// @description Artist similarity graphs built from Last.fm data.
// @description
// @description ## Rate Limiting
// @description
// @description Requests under /api/v1 are limited per client IP (RATE_LIMIT_REQS per RATE_LIMIT_WINDOW).
// @description Upstream throttling on the root artist surfaces as 429 RATE_LIMITED with a Retry-After header.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {"code": "ARTIST_NOT_FOUND", "message": "Artist not found"},
// @description   "metadata": {"timestamp": "2026-01-01T12:00:00Z", "request_id": "..."}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/sonograph/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3001
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Streaming service access token, forwarded as-is to the playlist service.
//
// @tag.name Graph
// @tag.description Build and expand artist similarity graphs
//
// @tag.name Export
// @tag.description CSV export of graphs
//
// @tag.name Playlists
// @tag.description Playlist creation on the caller's streaming account
//
// @tag.name Core
// @tag.description Health probes
package main
