// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// Package models holds the data shapes shared between the Last.fm client,
// the graph builder, the CSV exporter and the HTTP layer.
package models

import "strings"

// ArtistRecord is a normalized artist as returned by the similarity source.
// It is read-only once fetched and is what the response cache stores.
type ArtistRecord struct {
	Name          string   `json:"name"`
	ListenerCount int64    `json:"listenerCount"`
	PlayCount     int64    `json:"playCount"`
	Tags          []string `json:"tags"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	ProfileURL    string   `json:"profileUrl,omitempty"`
	Bio           string   `json:"bio,omitempty"`
}

// ID returns the case-insensitive identity key of the artist.
func (a *ArtistRecord) ID() string {
	return ArtistID(a.Name)
}

// SimilarityEntry is one row of an artist's similarity list. Score is
// relative to the artist that was queried and is not comparable across
// different queried artists.
type SimilarityEntry struct {
	TargetName string  `json:"targetName"`
	Score      float64 `json:"score"`
}

// ArtistID normalizes an artist name to its identity key.
func ArtistID(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
