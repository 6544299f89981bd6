// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	requestIDKey     contextKey = "request_id"
	artistKey        contextKey = "artist"
)

// GenerateCorrelationID returns a short correlation ID (first 8 chars of a UUID).
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID returns a full UUID request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithCorrelationID returns ctx carrying the correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation ID or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID returns ctx carrying the HTTP request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithArtist tags ctx with the root artist of the graph being built,
// so fan-out lookups log which build they belong to.
func ContextWithArtist(ctx context.Context, artist string) context.Context {
	return context.WithValue(ctx, artistKey, artist)
}

// ArtistFromContext returns the root artist tag or "".
func ArtistFromContext(ctx context.Context) string {
	if a, ok := ctx.Value(artistKey).(string); ok {
		return a
	}
	return ""
}

// Ctx returns the global logger enriched with the correlation ID, request ID
// and root artist found in ctx.
//
//	logging.Ctx(ctx).Info().Msg("Graph built")
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := Logger().With()
	if id := CorrelationIDFromContext(ctx); id != "" {
		lc = lc.Str("correlation_id", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if a := ArtistFromContext(ctx); a != "" {
		lc = lc.Str("root_artist", a)
	}
	l := lc.Logger()
	return &l
}
