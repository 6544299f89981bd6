// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package api

import (
	"context"
	"time"

	"github.com/tomtom215/sonograph/internal/config"
	"github.com/tomtom215/sonograph/internal/models"
	"github.com/tomtom215/sonograph/internal/playlist"
)

// GraphBuilder builds and expands similarity graphs. *graph.Builder satisfies it.
type GraphBuilder interface {
	Build(ctx context.Context, root string, depth, limit int) (*models.Graph, error)
	Expand(ctx context.Context, artistName string, limit int) (*models.Expansion, error)
}

// UpstreamStatus reports the similarity source's circuit state.
type UpstreamStatus interface {
	BreakerState() string
}

// GateStatus reports the request gate's consumer state.
type GateStatus interface {
	Running() bool
	Len() int
}

// Dependencies are the collaborators a Handler serves from.
// Playlists is nil when the playlist sink is disabled.
type Dependencies struct {
	Builder   GraphBuilder
	Playlists playlist.Sink
	Upstream  UpstreamStatus
	Gate      GateStatus
}

// Handler serves the HTTP API.
//
// Handler methods are split across files:
//   - handlers_graph.go: graph build and expand
//   - handlers_export.go: CSV export
//   - handlers_playlist.go: playlist creation
//   - handlers_health.go: liveness and readiness
type Handler struct {
	builder   GraphBuilder
	playlists playlist.Sink
	upstream  UpstreamStatus
	gate      GateStatus
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(cfg *config.Config, deps Dependencies) *Handler {
	return &Handler{
		builder:   deps.Builder,
		playlists: deps.Playlists,
		upstream:  deps.Upstream,
		gate:      deps.Gate,
		config:    cfg,
		startTime: time.Now(),
	}
}
