// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// Package export renders finished graphs as downloadable tables.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/tomtom215/sonograph/internal/models"
)

// ErrNoRoot is returned when the node set has no root artist.
var ErrNoRoot = errors.New("no root artist found")

// Header is the CSV column row.
var Header = []string{"Artist", "Hop", "Listeners", "Plays", "Genres", "Similarity to Root", "Profile URL"}

// HopLabel names a hop level for humans.
func HopLabel(hop int) string {
	switch hop {
	case models.HopRoot:
		return "Root"
	case models.HopOne:
		return "1st Hop"
	case models.HopTwo:
		return "2nd Hop"
	default:
		return "Unknown"
	}
}

// WriteCSV writes one row per node. A node's similarity to the root comes
// from any edge joining it to the root in either direction. Hop-2 nodes whose
// root-relative score fell under the materiality threshold have no such edge
// and report 0.0%.
func WriteCSV(w io.Writer, nodes []models.GraphNode, edges []models.GraphEdge) error {
	root := models.FindRoot(nodes)
	if root == nil {
		return ErrNoRoot
	}

	toRoot := rootSimilarities(root, edges)

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range nodes {
		n := &nodes[i]
		sim := 1.0
		if !n.IsRoot {
			sim = toRoot[models.ArtistID(n.Name)]
		}
		row := []string{
			n.Name,
			HopLabel(n.HopLevel),
			humanize.Comma(n.Listeners),
			humanize.Comma(n.PlayCount),
			strings.Join(n.Tags, "; "),
			fmt.Sprintf("%.1f%%", sim*100),
			n.ProfileURL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for %q: %w", n.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatCSV renders the table into memory.
func FormatCSV(nodes []models.GraphNode, edges []models.GraphEdge) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nodes, edges); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rootSimilarities maps node id to the highest similarity of an edge joining
// it to the root. Edge endpoints are matched case-insensitively.
func rootSimilarities(root *models.GraphNode, edges []models.GraphEdge) map[string]float64 {
	rootIDs := map[string]bool{root.ID: true, models.ArtistID(root.Name): true}
	out := make(map[string]float64)
	for _, e := range edges {
		var other string
		switch {
		case rootIDs[models.ArtistID(e.Source)]:
			other = models.ArtistID(e.Target)
		case rootIDs[models.ArtistID(e.Target)]:
			other = models.ArtistID(e.Source)
		default:
			continue
		}
		if e.Similarity > out[other] {
			out[other] = e.Similarity
		}
	}
	return out
}

// Filename derives the attachment name for root, e.g.
// "Sigur Rós" -> "sigur-rós-similar-artists.csv".
func Filename(root string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(root) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "artist"
	}
	return slug + "-similar-artists.csv"
}
