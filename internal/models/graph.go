// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package models

// Hop levels of a node relative to the root artist.
const (
	HopRoot = 0
	HopOne  = 1
	HopTwo  = 2
)

// Edge kinds.
const (
	// EdgeSimilar is a discovery path edge weighted by the source artist's own score.
	EdgeSimilar = "similar"

	// EdgeRootRelative links the root to a hop-2 node with a root-relative score.
	EdgeRootRelative = "root"
)

// GraphNode is an artist projected for display.
type GraphNode struct {
	// ID is the lowercase artist name; at most one node per ID per graph.
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Listeners    int64    `json:"listeners"`
	PlayCount    int64    `json:"playCount"`
	Tags         []string `json:"tags"`
	PrimaryGenre string   `json:"primaryGenre"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	ProfileURL   string   `json:"profileUrl,omitempty"`
	Bio          string   `json:"bio,omitempty"`
	HopLevel     int      `json:"hopLevel"`
	IsRoot       bool     `json:"isRoot"`
	DisplaySize  float64  `json:"displaySize"`
}

// GraphEdge connects two node names. Source and Target hold display names
// as the frontend keys links by name; matching is case-insensitive.
type GraphEdge struct {
	ID         string  `json:"id"`
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Similarity float64 `json:"similarity"`
	Kind       string  `json:"kind,omitempty"`
}

// GraphStats summarizes a build.
type GraphStats struct {
	TotalNodes    int    `json:"totalNodes"`
	TotalEdges    int    `json:"totalEdges"`
	RootArtist    string `json:"rootArtist"`
	HopOneNodes   int    `json:"hopOneNodes"`
	HopTwoNodes   int    `json:"hopTwoNodes"`
	FailedLookups int    `json:"failedLookups"`
	DurationMS    int64  `json:"durationMs"`
}

// Graph is the result of one build. Nodes[0] is always the root.
type Graph struct {
	RootArtist string      `json:"rootArtist"`
	Depth      int         `json:"depth"`
	Limit      int         `json:"limit"`
	Nodes      []GraphNode `json:"nodes"`
	Edges      []GraphEdge `json:"edges"`
	Stats      GraphStats  `json:"stats"`
}

// Root returns the root node, or nil if none is flagged.
func (g *Graph) Root() *GraphNode {
	return FindRoot(g.Nodes)
}

// FindRoot returns the first node flagged as root, or nil.
func FindRoot(nodes []GraphNode) *GraphNode {
	for i := range nodes {
		if nodes[i].IsRoot {
			return &nodes[i]
		}
	}
	return nil
}

// Expansion is the hop-1 delta around an existing node. The client merges
// it into its graph, deduplicating by node ID.
type Expansion struct {
	Artist string      `json:"artist"`
	Nodes  []GraphNode `json:"nodes"`
	Edges  []GraphEdge `json:"edges"`
}
