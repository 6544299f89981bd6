// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package graph

import (
	"math"
	"testing"

	"github.com/tomtom215/sonograph/internal/models"
)

func TestDisplaySize(t *testing.T) {
	tests := []struct {
		listeners int64
		want      float64
	}{
		{-5, 20},
		{0, 20},
		{1, 20},
		{10, 25},
		{1000, 35},
		{100_000_000, 60},
		{5_000_000_000, 60}, // clamped
	}
	for _, tt := range tests {
		if got := DisplaySize(tt.listeners); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DisplaySize(%d) = %v, want %v", tt.listeners, got, tt.want)
		}
	}

	prev := 0.0
	for l := int64(1); l < 1e10; l *= 7 {
		size := DisplaySize(l)
		if size < prev {
			t.Fatalf("DisplaySize not monotonic at %d", l)
		}
		prev = size
	}
}

func TestPrimaryGenre(t *testing.T) {
	if got := PrimaryGenre([]string{"synthpop", "pop"}); got != "synthpop" {
		t.Errorf("got %q", got)
	}
	if got := PrimaryGenre(nil); got != UnknownGenre {
		t.Errorf("got %q, want %q", got, UnknownGenre)
	}
	if got := PrimaryGenre([]string{""}); got != UnknownGenre {
		t.Errorf("got %q, want %q", got, UnknownGenre)
	}
}

func TestProjectNode(t *testing.T) {
	rec := &models.ArtistRecord{
		Name:          "Kate Bush",
		ListenerCount: 1000,
		PlayCount:     55,
		ProfileURL:    "https://www.last.fm/music/Kate+Bush",
	}

	n := ProjectNode(rec, true, models.HopRoot)
	if n.ID != "kate bush" || n.Name != "Kate Bush" {
		t.Errorf("identity = %q/%q", n.ID, n.Name)
	}
	if !n.IsRoot || n.HopLevel != 0 {
		t.Errorf("root flags = %v/%d", n.IsRoot, n.HopLevel)
	}
	if n.PrimaryGenre != UnknownGenre || n.Tags == nil {
		t.Errorf("untagged artist: genre %q tags %v", n.PrimaryGenre, n.Tags)
	}
	if math.Abs(n.DisplaySize-35) > 1e-9 {
		t.Errorf("DisplaySize = %v", n.DisplaySize)
	}
}

func TestRootRelativeSimilarity(t *testing.T) {
	rootSim := map[string]float64{"direct": 0.05}

	tests := []struct {
		name                      string
		candidate                 string
		sourceToRoot, sourceScore float64
		want                      float64
	}{
		{"capped indirect", "X", 0.8, 0.6, 0.5},
		{"uncapped indirect", "X", 0.2, 0.3, math.Sqrt(0.06)},
		{"direct wins even when lower", "Direct", 0.9, 0.9, 0.05},
		{"zero path", "X", 0, 0.9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RootRelativeSimilarity(rootSim, tt.candidate, tt.sourceToRoot, tt.sourceScore, 0.5)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
