// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// withCapturedLogger swaps the global logger for one writing to a buffer.
func withCapturedLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestCtxAddsRequestFields(t *testing.T) {
	buf := withCapturedLogger(t)

	ctx := context.Background()
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	ctx = ContextWithArtist(ctx, "Cher")

	Ctx(ctx).Info().Msg("graph built")

	out := buf.String()
	for _, want := range []string{`"request_id":"req-1"`, `"correlation_id":"corr-1"`, `"root_artist":"Cher"`, `"message":"graph built"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestCtxWithoutValues(t *testing.T) {
	buf := withCapturedLogger(t)

	Ctx(context.Background()).Info().Msg("plain")

	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("unexpected request_id in %s", buf.String())
	}
}

func TestGeneratedIDs(t *testing.T) {
	t.Parallel()

	if got := len(GenerateCorrelationID()); got != 8 {
		t.Errorf("correlation id length = %d, want 8", got)
	}
	a, b := GenerateRequestID(), GenerateRequestID()
	if len(a) != 36 {
		t.Errorf("request id length = %d, want 36", len(a))
	}
	if a == b {
		t.Error("expected unique request IDs")
	}
}

func TestSlogHandlerWritesThroughZerolog(t *testing.T) {
	buf := withCapturedLogger(t)

	logger := slog.New(NewSlogHandler(Logger()))
	logger.With("service", "gate").WithGroup("restart").Warn("service restarted",
		"attempt", 3,
		"err", errors.New("boom"),
	)

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"service":"gate"`, `"restart.attempt":3`, `"restart.err":"boom"`, `"message":"service restarted"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	withCapturedLogger(t)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	h := NewSlogHandler(Logger())
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}
