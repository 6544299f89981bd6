// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// Package graph builds bounded artist similarity graphs.
//
// A build starts at a root artist and expands one or two hops through
// similarity lists. Hop-1 nodes come straight from the root's list and keep
// its scores. Hop-2 nodes are discovered through up to HopTwoSources hop-1
// artists and get a root-relative score: the root's own score when the root
// lists them directly, otherwise a capped geometric mean of the path scores.
//
// Lookups for individual artists during fan-out may fail; such artists are
// left out and counted in Stats.FailedLookups. Only a failure to resolve the
// root fails the build.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/sonograph/internal/config"
	"github.com/tomtom215/sonograph/internal/lastfm"
	"github.com/tomtom215/sonograph/internal/logging"
	"github.com/tomtom215/sonograph/internal/metrics"
	"github.com/tomtom215/sonograph/internal/models"
)

// ErrInvalidRequest is returned for a depth or limit outside the allowed range.
var ErrInvalidRequest = errors.New("invalid graph request")

// Source supplies artist records and similarity lists. *lastfm.Client
// satisfies it.
type Source interface {
	GetArtistInfo(ctx context.Context, name string) (*models.ArtistRecord, error)
	GetSimilarArtists(ctx context.Context, name string, limit int) ([]models.SimilarityEntry, error)
}

// Options bounds the build. The heuristics are tunable but default to the
// values the frontend was designed against.
type Options struct {
	MinLimit int
	MaxLimit int

	MaxRootFanOut    int // cap on the root list fetched for depth 2
	RootFanOutFactor int // root list size for depth 2 is limit*factor

	HopTwoSources   int // hop-1 nodes expanded at depth 2
	HopTwoFanOut    int // similar list size fetched per source
	HopTwoPerSource int // candidates taken per source

	IndirectCap          float64 // ceiling for path-derived root similarity
	MaterialityThreshold float64 // root edges for hop-2 nodes need more than this
}

// DefaultOptions returns the stock heuristics.
func DefaultOptions() Options {
	return Options{
		MinLimit:             5,
		MaxLimit:             50,
		MaxRootFanOut:        lastfm.MaxSimilar,
		RootFanOutFactor:     4,
		HopTwoSources:        8,
		HopTwoFanOut:         5,
		HopTwoPerSource:      2,
		IndirectCap:          0.5,
		MaterialityThreshold: 0.1,
	}
}

// OptionsFromConfig maps the graph config section onto Options.
func OptionsFromConfig(cfg *config.GraphConfig) Options {
	return Options{
		MinLimit:             cfg.MinLimit,
		MaxLimit:             cfg.MaxLimit,
		MaxRootFanOut:        cfg.MaxRootFanOut,
		RootFanOutFactor:     cfg.RootFanOutFactor,
		HopTwoSources:        cfg.HopTwoSources,
		HopTwoFanOut:         cfg.HopTwoFanOut,
		HopTwoPerSource:      cfg.HopTwoPerSource,
		IndirectCap:          cfg.IndirectCap,
		MaterialityThreshold: cfg.MaterialityThreshold,
	}
}

// Builder is the one graph-building implementation; HTTP handlers and the
// CSV export both go through it.
type Builder struct {
	src  Source
	opts Options
}

// NewBuilder creates a Builder.
func NewBuilder(src Source, opts Options) *Builder {
	return &Builder{src: src, opts: opts}
}

// hopOneNode is a hop-1 artist eligible as a hop-2 source.
type hopOneNode struct {
	id    string
	name  string
	score float64 // root-relative
}

// candidate is a hop-2 artist picked from a source's list.
type candidate struct {
	name   string
	source hopOneNode
	score  float64 // source-relative
}

// state accumulates one build. It is only touched from the build goroutine.
type state struct {
	graph   *models.Graph
	present map[string]bool
	failed  int
}

func (s *state) addNode(n models.GraphNode) {
	s.graph.Nodes = append(s.graph.Nodes, n)
	s.present[n.ID] = true
}

func (s *state) addEdge(source, target string, similarity float64, kind string) {
	s.graph.Edges = append(s.graph.Edges, models.GraphEdge{
		ID:         EdgeID(source, target, kind),
		Source:     source,
		Target:     target,
		Similarity: similarity,
		Kind:       kind,
	})
}

// EdgeID derives a deterministic edge id. A root-relative edge gets a suffix
// so it never collides with a path edge between the same pair.
func EdgeID(source, target, kind string) string {
	id := source + "->" + target
	if kind == models.EdgeRootRelative {
		id += "#root"
	}
	return id
}

// Build expands root into a graph of the given depth (1 or 2) with up to
// limit hop-1 artists.
func (b *Builder) Build(ctx context.Context, root string, depth, limit int) (*models.Graph, error) {
	if depth != 1 && depth != 2 {
		return nil, fmt.Errorf("%w: depth must be 1 or 2, got %d", ErrInvalidRequest, depth)
	}
	if limit < b.opts.MinLimit || limit > b.opts.MaxLimit {
		return nil, fmt.Errorf("%w: limit must be between %d and %d, got %d", ErrInvalidRequest, b.opts.MinLimit, b.opts.MaxLimit, limit)
	}

	start := time.Now()
	g, err := b.build(ctx, root, depth, limit)
	if err != nil {
		metrics.RecordGraphBuild(depth, buildOutcome(err), 0, time.Since(start))
		return nil, err
	}

	g.Stats.DurationMS = time.Since(start).Milliseconds()
	metrics.RecordGraphBuild(depth, "ok", len(g.Nodes), time.Since(start))
	logging.Ctx(ctx).Info().
		Str("root", g.RootArtist).
		Int("depth", depth).
		Int("limit", limit).
		Int("nodes", g.Stats.TotalNodes).
		Int("edges", g.Stats.TotalEdges).
		Int("failed_lookups", g.Stats.FailedLookups).
		Int64("duration_ms", g.Stats.DurationMS).
		Msg("Graph built")
	return g, nil
}

func (b *Builder) build(ctx context.Context, root string, depth, limit int) (*models.Graph, error) {
	rootRec, err := b.src.GetArtistInfo(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("resolve root artist %q: %w", root, err)
	}

	fanOut := limit
	if depth == 2 {
		fanOut = min(b.opts.MaxRootFanOut, limit*b.opts.RootFanOutFactor)
	}
	similar, err := b.src.GetSimilarArtists(ctx, rootRec.Name, fanOut)
	if err != nil {
		return nil, fmt.Errorf("similar artists for root %q: %w", rootRec.Name, err)
	}

	rootSim := make(map[string]float64, len(similar))
	for _, e := range similar {
		id := models.ArtistID(e.TargetName)
		if _, ok := rootSim[id]; !ok {
			rootSim[id] = e.Score
		}
	}

	s := &state{
		graph: &models.Graph{
			RootArtist: rootRec.Name,
			Depth:      depth,
			Limit:      limit,
			Nodes:      make([]models.GraphNode, 0, limit*2+1),
			Edges:      make([]models.GraphEdge, 0, limit*3),
		},
		present: make(map[string]bool),
	}
	rootNode := ProjectNode(rootRec, true, models.HopRoot)
	s.addNode(rootNode)

	hopOne := b.hopOne(ctx, s, rootNode, similar[:min(limit, len(similar))])
	if depth == 2 {
		b.hopTwo(ctx, s, rootNode, hopOne, rootSim)
	}

	g := s.graph
	g.Stats = models.GraphStats{
		TotalNodes:    len(g.Nodes),
		TotalEdges:    len(g.Edges),
		RootArtist:    rootRec.Name,
		FailedLookups: s.failed,
	}
	for _, n := range g.Nodes {
		switch n.HopLevel {
		case models.HopOne:
			g.Stats.HopOneNodes++
		case models.HopTwo:
			g.Stats.HopTwoNodes++
		}
	}
	return g, nil
}

// hopOne resolves the root's first entries and links each to the root with
// the root's own score.
func (b *Builder) hopOne(ctx context.Context, s *state, root models.GraphNode, entries []models.SimilarityEntry) []hopOneNode {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.TargetName
	}
	recs := b.resolveAll(ctx, s, names, models.HopOne)

	out := make([]hopOneNode, 0, len(entries))
	for i, rec := range recs {
		if rec == nil {
			continue
		}
		id := rec.ID()
		if id == root.ID {
			logging.Ctx(ctx).Debug().Str("artist", rec.Name).Msg("Skipping self-similar entry")
			continue
		}
		if s.present[id] {
			continue
		}
		node := ProjectNode(rec, false, models.HopOne)
		s.addNode(node)
		s.addEdge(root.Name, node.Name, entries[i].Score, models.EdgeSimilar)
		out = append(out, hopOneNode{id: id, name: node.Name, score: entries[i].Score})
	}
	return out
}

// hopTwo expands up to HopTwoSources hop-1 nodes by one more hop.
func (b *Builder) hopTwo(ctx context.Context, s *state, root models.GraphNode, hopOne []hopOneNode, rootSim map[string]float64) {
	sources := hopOne[:min(b.opts.HopTwoSources, len(hopOne))]
	if len(sources) == 0 {
		return
	}

	// Lists are fetched concurrently; selection below runs in source order so
	// the result does not depend on which fetch finished first.
	lists := make([][]models.SimilarityEntry, len(sources))
	var failed atomic.Int32
	var eg errgroup.Group
	for i, src := range sources {
		eg.Go(func() error {
			list, err := b.src.GetSimilarArtists(ctx, src.name, b.opts.HopTwoFanOut)
			if err != nil {
				failed.Add(1)
				logLookupFailure(ctx, src.name, models.HopTwo, err)
				return nil
			}
			lists[i] = list
			return nil
		})
	}
	_ = eg.Wait()
	s.failed += int(failed.Load())

	selected := make(map[string]bool)
	var candidates []candidate
	for i, src := range sources {
		taken := 0
		for _, e := range lists[i] {
			if taken == b.opts.HopTwoPerSource {
				break
			}
			id := models.ArtistID(e.TargetName)
			if id == "" || id == src.id || s.present[id] || selected[id] {
				continue
			}
			selected[id] = true
			candidates = append(candidates, candidate{name: e.TargetName, source: src, score: e.Score})
			taken++
		}
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	recs := b.resolveAll(ctx, s, names, models.HopTwo)

	for i, rec := range recs {
		if rec == nil {
			continue
		}
		// Autocorrection can resolve a candidate onto an artist already present.
		if s.present[rec.ID()] {
			continue
		}
		c := candidates[i]
		node := ProjectNode(rec, false, models.HopTwo)
		s.addNode(node)
		s.addEdge(c.source.name, node.Name, c.score, models.EdgeSimilar)

		sim := RootRelativeSimilarity(rootSim, c.name, c.source.score, c.score, b.opts.IndirectCap)
		if sim > b.opts.MaterialityThreshold {
			s.addEdge(root.Name, node.Name, sim, models.EdgeRootRelative)
		}
	}
}

// resolveAll fetches records for names concurrently. The result is index
// aligned with names; failed lookups are nil and counted on s.
func (b *Builder) resolveAll(ctx context.Context, s *state, names []string, hop int) []*models.ArtistRecord {
	recs := make([]*models.ArtistRecord, len(names))
	var eg errgroup.Group
	for i, name := range names {
		eg.Go(func() error {
			rec, err := b.src.GetArtistInfo(ctx, name)
			if err != nil {
				logLookupFailure(ctx, name, hop, err)
				return nil
			}
			recs[i] = rec
			return nil
		})
	}
	_ = eg.Wait()

	for _, rec := range recs {
		if rec == nil {
			s.failed++
		}
	}
	return recs
}

// Expand returns the hop-1 neighbourhood of artistName for merging into a
// graph the client already holds.
func (b *Builder) Expand(ctx context.Context, artistName string, limit int) (*models.Expansion, error) {
	if limit < 1 || limit > b.opts.MaxLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidRequest, b.opts.MaxLimit, limit)
	}

	rec, err := b.src.GetArtistInfo(ctx, artistName)
	if err != nil {
		return nil, fmt.Errorf("resolve artist %q: %w", artistName, err)
	}
	similar, err := b.src.GetSimilarArtists(ctx, rec.Name, limit)
	if err != nil {
		return nil, fmt.Errorf("similar artists for %q: %w", rec.Name, err)
	}

	center := ProjectNode(rec, false, models.HopRoot)
	s := &state{
		graph:   &models.Graph{Nodes: []models.GraphNode{}, Edges: []models.GraphEdge{}},
		present: map[string]bool{center.ID: true},
	}
	b.hopOne(ctx, s, center, similar[:min(limit, len(similar))])

	logging.Ctx(ctx).Info().
		Str("artist", rec.Name).
		Int("nodes", len(s.graph.Nodes)).
		Int("failed_lookups", s.failed).
		Msg("Graph node expanded")

	return &models.Expansion{
		Artist: rec.Name,
		Nodes:  s.graph.Nodes,
		Edges:  s.graph.Edges,
	}, nil
}

func logLookupFailure(ctx context.Context, name string, hop int, err error) {
	metrics.RecordLookupFailure(hop)
	logging.Ctx(ctx).Warn().Err(err).Str("artist", name).Int("hop", hop).Msg("Skipping artist after failed lookup")
}

func buildOutcome(err error) string {
	switch {
	case errors.Is(err, lastfm.ErrNotFound):
		return "not_found"
	case errors.Is(err, lastfm.ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}
