// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/sonograph/internal/models"
)

// HealthLive reports that the process is up.
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, time.Time{}, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady reports whether builds can be served: the request gate must be
// draining and the Last.fm circuit must not be open.
//
// @Summary Readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	gateRunning := h.gate != nil && h.gate.Running()
	circuit := "unknown"
	if h.upstream != nil {
		circuit = h.upstream.BreakerState()
	}
	queued := 0
	if h.gate != nil {
		queued = h.gate.Len()
	}

	ready := gateRunning && circuit != "open"
	details := map[string]interface{}{
		"ready":          ready,
		"gate_running":   gateRunning,
		"gate_queued":    queued,
		"lastfm_circuit": circuit,
		"playlists":      h.playlists != nil,
	}

	if !ready {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     details,
			Metadata: metadata(r, time.Time{}),
			Error:    &models.APIError{Code: "NOT_READY", Message: "Service is not ready"},
		})
		return
	}
	respondSuccess(w, r, time.Time{}, details)
}
