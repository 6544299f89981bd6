// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package graph

import (
	"math"

	"github.com/tomtom215/sonograph/internal/models"
)

// UnknownGenre is the primary genre of an artist without tags.
const UnknownGenre = "unknown"

// Display size bounds in layout units.
const (
	MinDisplaySize = 20.0
	MaxDisplaySize = 60.0
)

// ProjectNode maps an artist record onto a display node.
func ProjectNode(rec *models.ArtistRecord, isRoot bool, hopLevel int) models.GraphNode {
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.GraphNode{
		ID:           rec.ID(),
		Name:         rec.Name,
		Listeners:    rec.ListenerCount,
		PlayCount:    rec.PlayCount,
		Tags:         tags,
		PrimaryGenre: PrimaryGenre(tags),
		ImageURL:     rec.ImageURL,
		ProfileURL:   rec.ProfileURL,
		Bio:          rec.Bio,
		HopLevel:     hopLevel,
		IsRoot:       isRoot,
		DisplaySize:  DisplaySize(rec.ListenerCount),
	}
}

// PrimaryGenre returns the first tag, or UnknownGenre.
func PrimaryGenre(tags []string) string {
	if len(tags) == 0 || tags[0] == "" {
		return UnknownGenre
	}
	return tags[0]
}

// DisplaySize is 20 + 5*log10(listeners), clamped to [20, 60].
func DisplaySize(listeners int64) float64 {
	size := MinDisplaySize + math.Log10(float64(max(1, listeners)))*5
	return math.Max(MinDisplaySize, math.Min(MaxDisplaySize, size))
}

// RootRelativeSimilarity estimates how similar candidate is to the root.
// A direct score from the root's own similarity list wins. Otherwise the
// geometric mean of the two path scores is used, capped at indirectCap so
// indirect evidence never outranks a mid-strength direct match.
func RootRelativeSimilarity(rootSim map[string]float64, candidate string, sourceToRoot, sourceScore, indirectCap float64) float64 {
	if s, ok := rootSim[models.ArtistID(candidate)]; ok {
		return s
	}
	if sourceToRoot <= 0 || sourceScore <= 0 {
		return 0
	}
	return math.Min(indirectCap, math.Sqrt(sourceToRoot*sourceScore))
}
