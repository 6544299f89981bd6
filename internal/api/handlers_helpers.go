// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package api

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sonograph/internal/lastfm"
	"github.com/tomtom215/sonograph/internal/logging"
	"github.com/tomtom215/sonograph/internal/models"
)

// maxBodyBytes bounds request bodies. Exported graphs are the largest payloads.
const maxBodyBytes = 4 << 20

// sanitizeLogValue escapes control characters so user input cannot forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func metadata(r *http.Request, start time.Time) models.Metadata {
	md := models.Metadata{
		Timestamp: time.Now().UTC(),
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
	if !start.IsZero() {
		md.QueryTimeMS = time.Since(start).Milliseconds()
	}
	return md
}

// respondJSON sends a JSON response with an ETag over the encoded body.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h := fnv.New32a()
	_, _ = h.Write(data)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("ETag", strconv.FormatUint(uint64(h.Sum32()), 16))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondSuccess(w http.ResponseWriter, r *http.Request, start time.Time, data interface{}) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: metadata(r, start),
	})
}

// respondError sends an error envelope. err is logged, never returned to the caller.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondAPIError(w, r, status, &models.APIError{Code: code, Message: message}, err)
}

func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Str("code", apiErr.Code).Str("error", sanitizeLogValue(err.Error())).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: metadata(r, time.Time{}),
		Error:    apiErr,
	})
}

// respondDomainError classifies err and writes the matching error envelope.
func (h *Handler) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classifyError(err)
	if status == http.StatusTooManyRequests {
		cooldown := time.Second
		if errors.Is(err, lastfm.ErrRateLimited) {
			cooldown = h.config.Gate.Cooldown
		}
		w.Header().Set("Retry-After", retryAfter(cooldown.Seconds()))
	}
	respondError(w, r, status, code, message, err)
}

// decodeJSON decodes a bounded request body into v, which should already
// hold the defaults for omitted fields. Unknown fields are ignored since
// exported graphs carry layout state from the frontend.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: request body exceeds %d bytes", ErrInvalidInput, maxErr.Limit)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", ErrInvalidInput)
		default:
			return fmt.Errorf("%w: malformed JSON: %v", ErrInvalidInput, err)
		}
	}
	return nil
}

// queryInt reads an integer query parameter, returning def when it is absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidInput, key, raw)
	}
	return n, nil
}
