// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/sonograph/internal/logging"
	"github.com/tomtom215/sonograph/internal/models"
	"github.com/tomtom215/sonograph/internal/validation"
)

// GraphRequest asks for a similarity graph around Input, which is an artist
// name or a profile URL. Omitted depth and limit take the configured defaults.
type GraphRequest struct {
	Input string `json:"input" validate:"required,notblank,max=512" example:"Radiohead"`
	Depth int    `json:"depth" validate:"oneof=1 2" example:"1"`
	Limit int    `json:"limit" example:"25"`
}

// ExpandRequest asks for the hop-1 neighbourhood of an artist already in a graph.
type ExpandRequest struct {
	ArtistName string `json:"artistName" validate:"required,notblank,max=512" example:"Portishead"`
	Limit      int    `json:"limit" example:"10"`
}

// buildContext detaches a build from client disconnects while keeping the
// request's logging fields.
func buildContext(r *http.Request, artist string) context.Context {
	return logging.ContextWithArtist(context.WithoutCancel(r.Context()), artist)
}

// BuildGraph builds a similarity graph from a JSON body.
//
// @Summary Build artist similarity graph
// @Description Expands a root artist into a graph of similar artists, one or two hops deep. Input may be an artist name or a Last.fm profile URL.
// @Tags Graph
// @Accept json
// @Produce json
// @Param request body GraphRequest true "Graph request"
// @Success 200 {object} models.APIResponse{data=models.Graph} "Graph built"
// @Failure 400 {object} models.APIResponse "Invalid input"
// @Failure 404 {object} models.APIResponse "Artist not found"
// @Failure 429 {object} models.APIResponse "Upstream rate limited"
// @Failure 500 {object} models.APIResponse "Upstream or internal error"
// @Router /graph [post]
func (h *Handler) BuildGraph(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := GraphRequest{Depth: h.config.Graph.DefaultDepth, Limit: h.config.Graph.DefaultLimit}
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	h.serveGraph(w, r, start, req)
}

// BuildGraphQuery builds a similarity graph from query parameters.
//
// @Summary Build artist similarity graph (query form)
// @Tags Graph
// @Produce json
// @Param artist query string true "Artist name or profile URL"
// @Param depth query int false "Hop depth (1 or 2)" default(1)
// @Param limit query int false "Hop-1 fan-out (5-50)" default(25)
// @Success 200 {object} models.APIResponse{data=models.Graph} "Graph built"
// @Failure 400 {object} models.APIResponse "Invalid input"
// @Failure 404 {object} models.APIResponse "Artist not found"
// @Failure 429 {object} models.APIResponse "Upstream rate limited"
// @Failure 500 {object} models.APIResponse "Upstream or internal error"
// @Router /graph [get]
func (h *Handler) BuildGraphQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := h.graphRequestFromQuery(r, "artist")
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	h.serveGraph(w, r, start, req)
}

func (h *Handler) serveGraph(w http.ResponseWriter, r *http.Request, start time.Time, req GraphRequest) {
	g, ok := h.build(w, r, req)
	if !ok {
		return
	}
	respondSuccess(w, r, start, g)
}

// build validates req and runs the builder. It writes the error response
// itself and reports whether a graph was produced.
func (h *Handler) build(w http.ResponseWriter, r *http.Request, req GraphRequest) (*models.Graph, bool) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError(), nil)
		return nil, false
	}
	name, err := ParseArtistInput(req.Input)
	if err != nil {
		h.respondDomainError(w, r, err)
		return nil, false
	}

	g, err := h.builder.Build(buildContext(r, name), name, req.Depth, req.Limit)
	if err != nil {
		h.respondDomainError(w, r, err)
		return nil, false
	}
	return g, true
}

func (h *Handler) graphRequestFromQuery(r *http.Request, inputKey string) (GraphRequest, error) {
	depth, err := queryInt(r, "depth", h.config.Graph.DefaultDepth)
	if err != nil {
		return GraphRequest{}, err
	}
	limit, err := queryInt(r, "limit", h.config.Graph.DefaultLimit)
	if err != nil {
		return GraphRequest{}, err
	}
	return GraphRequest{
		Input: r.URL.Query().Get(inputKey),
		Depth: depth,
		Limit: limit,
	}, nil
}

// ExpandNode returns the new hop-1 neighbourhood around one artist.
//
// @Summary Expand a graph node
// @Description Returns the artist's similar artists as nodes and edges for the client to merge into the graph it holds. The artist itself is not repeated.
// @Tags Graph
// @Accept json
// @Produce json
// @Param request body ExpandRequest true "Expand request"
// @Success 200 {object} models.APIResponse{data=models.Expansion} "Node expanded"
// @Failure 400 {object} models.APIResponse "Invalid input"
// @Failure 404 {object} models.APIResponse "Artist not found"
// @Failure 429 {object} models.APIResponse "Upstream rate limited"
// @Failure 500 {object} models.APIResponse "Upstream or internal error"
// @Router /graph/expand [post]
func (h *Handler) ExpandNode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := ExpandRequest{Limit: h.config.Graph.ExpandDefaultLimit}
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError(), nil)
		return
	}

	exp, err := h.builder.Expand(buildContext(r, req.ArtistName), req.ArtistName, req.Limit)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, r, start, exp)
}
