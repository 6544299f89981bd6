// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/sonograph/internal/models"
	"github.com/tomtom215/sonograph/internal/playlist"
	"github.com/tomtom215/sonograph/internal/validation"
)

// PlaylistRequest describes a playlist to create for the token holder.
type PlaylistRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=100" example:"Sounds like Radiohead"`
	Description string   `json:"description" validate:"max=300"`
	Public      bool     `json:"public"`
	TrackIDs    []string `json:"trackIds" validate:"max=10000"`
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// CreatePlaylist creates a playlist on the streaming service with the
// caller's own access token.
//
// @Summary Create a playlist
// @Description Creates a playlist for the owner of the bearer token and adds the tracks in batches. The token is forwarded as-is and never stored.
// @Tags Playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlaylistRequest true "Playlist"
// @Success 201 {object} models.APIResponse{data=playlist.Result} "Playlist created"
// @Failure 400 {object} models.APIResponse "Invalid input or track id"
// @Failure 401 {object} models.APIResponse "Missing or rejected token"
// @Failure 429 {object} models.APIResponse "Playlist service rate limited"
// @Failure 500 {object} models.APIResponse "Playlist service error"
// @Failure 503 {object} models.APIResponse "Playlists disabled"
// @Router /playlists [post]
func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.playlists == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodePlaylistsDisabled, "Playlist creation is disabled", nil)
		return
	}
	token := bearerToken(r)
	if token == "" {
		w.Header().Set("WWW-Authenticate", `Bearer realm="playlists"`)
		respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Bearer token required", nil)
		return
	}

	var req PlaylistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError(), nil)
		return
	}

	res, err := h.playlists.CreatePlaylist(r.Context(), token, playlist.Request{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Public:      req.Public,
		TrackIDs:    req.TrackIDs,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, &models.APIResponse{
		Status:   "success",
		Data:     res,
		Metadata: metadata(r, start),
	})
}
