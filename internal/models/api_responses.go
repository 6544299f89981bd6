// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package models

import (
	"time"
)

// APIResponse is the envelope used by every JSON endpoint.
//
// Status is "success" (see Data) or "error" (see Error).
//
//	{
//	  "status": "success",
//	  "data": {"rootArtist": "Cher", "depth": 1, "limit": 25, "nodes": [...], "edges": [...], "stats": {...}},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z", "request_id": "..."}
//	}
//
//	{
//	  "status": "error",
//	  "error": {"code": "ARTIST_NOT_FOUND", "message": "artist not found"},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response bookkeeping.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the machine-readable error body.
//
// Codes: VALIDATION_ERROR, INVALID_INPUT, NO_ROOT_ARTIST, UNAUTHORIZED,
// ARTIST_NOT_FOUND, RATE_LIMITED, UPSTREAM_ERROR, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
