// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sonograph/internal/config"
	"github.com/tomtom215/sonograph/internal/graph"
	"github.com/tomtom215/sonograph/internal/lastfm"
	"github.com/tomtom215/sonograph/internal/logging"
	"github.com/tomtom215/sonograph/internal/models"
	"github.com/tomtom215/sonograph/internal/playlist"
)

type buildCall struct {
	root         string
	depth, limit int
	ctxCancels   bool
	ctxArtist    string
}

type fakeBuilder struct {
	mu      sync.Mutex
	calls   []buildCall
	expands []string
	err     error
}

func (f *fakeBuilder) Build(ctx context.Context, root string, depth, limit int) (*models.Graph, error) {
	f.mu.Lock()
	f.calls = append(f.calls, buildCall{root, depth, limit, ctx.Done() != nil, logging.ArtistFromContext(ctx)})
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &models.Graph{
		RootArtist: root,
		Depth:      depth,
		Limit:      limit,
		Nodes: []models.GraphNode{
			{ID: strings.ToLower(root), Name: root, IsRoot: true, Tags: []string{}, Listeners: 1000},
			{ID: "a", Name: "A", HopLevel: 1, Tags: []string{"rock"}, Listeners: 10},
		},
		Edges: []models.GraphEdge{{ID: root + "->A", Source: root, Target: "A", Similarity: 0.9, Kind: models.EdgeSimilar}},
		Stats: models.GraphStats{TotalNodes: 2, TotalEdges: 1, RootArtist: root},
	}, nil
}

func (f *fakeBuilder) Expand(ctx context.Context, artistName string, limit int) (*models.Expansion, error) {
	f.mu.Lock()
	f.expands = append(f.expands, fmt.Sprintf("%s/%d", artistName, limit))
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &models.Expansion{Artist: artistName, Nodes: []models.GraphNode{}, Edges: []models.GraphEdge{}}, nil
}

type fakeSink struct {
	token string
	req   playlist.Request
	err   error
}

func (f *fakeSink) CreatePlaylist(_ context.Context, token string, req playlist.Request) (*playlist.Result, error) {
	f.token, f.req = token, req
	if f.err != nil {
		return nil, f.err
	}
	return &playlist.Result{ID: "pl1", URL: "https://open.spotify.com/playlist/pl1", TracksAdded: len(req.TrackIDs)}, nil
}

type fakeGate struct{ running bool }

func (g fakeGate) Running() bool { return g.running }
func (g fakeGate) Len() int      { return 3 }

type fakeUpstream string

func (u fakeUpstream) BreakerState() string { return string(u) }

type testServer struct {
	handler http.Handler
	builder *fakeBuilder
	sink    *fakeSink
}

func newTestServer(t *testing.T, mutate func(*config.Config, *Dependencies)) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.Security.RateLimitDisabled = true

	b := &fakeBuilder{}
	s := &fakeSink{}
	deps := Dependencies{Builder: b, Playlists: s, Upstream: fakeUpstream("closed"), Gate: fakeGate{running: true}}
	if mutate != nil {
		mutate(cfg, &deps)
	}
	h := NewHandler(cfg, deps)
	router := NewRouter(h, NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security)))
	return &testServer{handler: router.SetupChi(), builder: b, sink: s}
}

func (ts *testServer) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not a JSON envelope: %v\n%s", err, rec.Body.String())
	}
	return resp
}

func TestBuildGraphAppliesDefaults(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/api/v1/graph", `{"input":"Radiohead"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != "success" || resp.Metadata.RequestID == "" {
		t.Errorf("envelope = %+v", resp)
	}
	data := resp.Data.(map[string]interface{})
	if data["rootArtist"] != "Radiohead" || len(data["nodes"].([]interface{})) != 2 {
		t.Errorf("data = %v", data)
	}

	call := ts.builder.calls[0]
	if call.root != "Radiohead" || call.depth != 1 || call.limit != 25 {
		t.Errorf("build call = %+v, want Radiohead/1/25", call)
	}
	if call.ctxCancels {
		t.Error("build context should be detached from the request's cancellation")
	}
	if call.ctxArtist != "Radiohead" {
		t.Errorf("artist missing from logging context: %q", call.ctxArtist)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestBuildGraphParsesProfileURL(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/api/v1/graph", `{"input":"https://www.last.fm/music/Sigur+R%C3%B3s/+similar","depth":2,"limit":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if call := ts.builder.calls[0]; call.root != "Sigur Rós" || call.depth != 2 || call.limit != 10 {
		t.Errorf("build call = %+v", call)
	}
}

func TestBuildGraphQuery(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/api/v1/graph?artist=Massive+Attack&depth=2&limit=30", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if call := ts.builder.calls[0]; call.root != "Massive Attack" || call.depth != 2 || call.limit != 30 {
		t.Errorf("build call = %+v", call)
	}
}

func TestBuildGraphRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode string
	}{
		{"malformed json", http.MethodPost, "/api/v1/graph", `{"input":`, CodeInvalidInput},
		{"empty body", http.MethodPost, "/api/v1/graph", "", CodeInvalidInput},
		{"missing input", http.MethodPost, "/api/v1/graph", `{"depth":1}`, CodeValidationError},
		{"blank input", http.MethodPost, "/api/v1/graph", `{"input":"   "}`, CodeValidationError},
		{"depth three", http.MethodPost, "/api/v1/graph", `{"input":"Low","depth":3}`, CodeValidationError},
		{"depth zero", http.MethodPost, "/api/v1/graph", `{"input":"Low","depth":0}`, CodeValidationError},
		{"foreign url", http.MethodPost, "/api/v1/graph", `{"input":"https://example.com/x"}`, CodeInvalidInput},
		{"non-numeric depth", http.MethodGet, "/api/v1/graph?artist=Low&depth=two", "", CodeInvalidInput},
		{"missing artist", http.MethodGet, "/api/v1/graph", "", CodeValidationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			rec := ts.do(tt.method, tt.target, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if resp := decodeEnvelope(t, rec); resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
			if len(ts.builder.calls) != 0 {
				t.Error("builder should not run for invalid input")
			}
		})
	}
}

func TestBuildGraphErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", fmt.Errorf("resolve root: %w", &lastfm.Error{Kind: lastfm.ErrNotFound, Code: 6}), http.StatusNotFound, CodeArtistNotFound},
		{"rate limited", fmt.Errorf("resolve root: %w", &lastfm.Error{Kind: lastfm.ErrRateLimited, Code: 29}), http.StatusTooManyRequests, CodeRateLimited},
		{"upstream", fmt.Errorf("resolve root: %w", lastfm.ErrUpstream), http.StatusInternalServerError, CodeUpstreamError},
		{"limit out of range", fmt.Errorf("%w: limit must be between 5 and 50, got 60", graph.ErrInvalidRequest), http.StatusBadRequest, CodeInvalidInput},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			ts.builder.err = tt.err

			rec := ts.do(http.MethodPost, "/api/v1/graph", `{"input":"Radiohead"}`)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Status != "error" || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", resp.Error, tt.wantCode)
			}
			if strings.Contains(rec.Body.String(), "boom") {
				t.Error("internal error text leaked to the caller")
			}
			if tt.wantStatus == http.StatusTooManyRequests && rec.Header().Get("Retry-After") != "2" {
				t.Errorf("Retry-After = %q, want gate cooldown 2", rec.Header().Get("Retry-After"))
			}
		})
	}
}

func TestExpandNode(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/api/v1/graph/expand", `{"artistName":"Portishead"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ts.builder.expands[0] != "Portishead/10" {
		t.Errorf("expand call = %q, want default limit 10", ts.builder.expands[0])
	}
	data := decodeEnvelope(t, rec).Data.(map[string]interface{})
	if data["artist"] != "Portishead" {
		t.Errorf("data = %v", data)
	}

	rec = ts.do(http.MethodPost, "/api/v1/graph/expand", `{"limit":5}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing artistName: status = %d", rec.Code)
	}

	ts.builder.err = &lastfm.Error{Kind: lastfm.ErrNotFound}
	if rec = ts.do(http.MethodPost, "/api/v1/graph/expand", `{"artistName":"Nobody"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown artist: status = %d", rec.Code)
	}
}

func TestExportCSVBuildsGraph(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/api/v1/export/csv?root=Radiohead&limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="radiohead-similar-artists.csv"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "Artist,Hop,") || !strings.HasPrefix(lines[1], "Radiohead,Root,") {
		t.Errorf("csv body = %q", rec.Body.String())
	}
	if call := ts.builder.calls[0]; call.depth != 1 || call.limit != 5 {
		t.Errorf("build call = %+v", call)
	}
}

func TestExportGraphCSV(t *testing.T) {
	ts := newTestServer(t, nil)

	body := `{"nodes":[{"id":"björk","name":"Björk","isRoot":true,"hopLevel":0,"listeners":10,"x":12.5,"vx":0.1}],"edges":[]}`
	rec := ts.do(http.MethodPost, "/api/v1/export/csv", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "filename*=utf-8''") {
		t.Errorf("non-ASCII filename not RFC 2231 encoded: %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "100.0%") {
		t.Errorf("root row missing: %s", rec.Body.String())
	}

	rec = ts.do(http.MethodPost, "/api/v1/export/csv", `{"nodes":[{"id":"a","name":"A","hopLevel":1}],"edges":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("no root: status = %d", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Error.Code != CodeNoRootArtist {
		t.Errorf("no root: code = %s", resp.Error.Code)
	}
}

func TestCreatePlaylist(t *testing.T) {
	body := `{"name":"Like Low","public":true,"trackIds":["4uLU6hMCjMI75M1A2tKUQC","spotify:track:abc"]}`

	t.Run("forwards bearer token", func(t *testing.T) {
		ts := newTestServer(t, nil)
		rec := ts.do(http.MethodPost, "/api/v1/playlists", body, "Authorization", "Bearer user-token")
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if ts.sink.token != "user-token" || ts.sink.req.Name != "Like Low" || len(ts.sink.req.TrackIDs) != 2 {
			t.Errorf("sink got token=%q req=%+v", ts.sink.token, ts.sink.req)
		}
		data := decodeEnvelope(t, rec).Data.(map[string]interface{})
		if data["id"] != "pl1" || data["tracksAdded"] != float64(2) {
			t.Errorf("data = %v", data)
		}
	})

	tests := []struct {
		name       string
		auth       string
		sinkErr    error
		disabled   bool
		wantStatus int
		wantCode   string
	}{
		{"missing token", "", nil, false, http.StatusUnauthorized, CodeUnauthorized},
		{"wrong scheme", "Basic abc", nil, false, http.StatusUnauthorized, CodeUnauthorized},
		{"rejected token", "Bearer x", fmt.Errorf("create: %w", playlist.ErrUnauthorized), false, http.StatusUnauthorized, CodeUnauthorized},
		{"throttled", "Bearer x", playlist.ErrRateLimited, false, http.StatusTooManyRequests, CodeRateLimited},
		{"bad track", "Bearer x", fmt.Errorf("%w: %q", playlist.ErrInvalidTrack, "nope"), false, http.StatusBadRequest, CodeInvalidTrack},
		{"service down", "Bearer x", playlist.ErrUpstream, false, http.StatusInternalServerError, CodeUpstreamError},
		{"disabled", "Bearer x", nil, true, http.StatusServiceUnavailable, CodePlaylistsDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, func(_ *config.Config, d *Dependencies) {
				if tt.disabled {
					d.Playlists = nil
				}
			})
			ts.sink.err = tt.sinkErr
			rec := ts.do(http.MethodPost, "/api/v1/playlists", body, "Authorization", tt.auth)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if resp := decodeEnvelope(t, rec); resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", resp.Error, tt.wantCode)
			}
		})
	}

	t.Run("blank name", func(t *testing.T) {
		ts := newTestServer(t, nil)
		rec := ts.do(http.MethodPost, "/api/v1/playlists", `{"name":"  "}`, "Authorization", "Bearer x")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		gate       GateStatus
		upstream   UpstreamStatus
		wantStatus int
	}{
		{"ready", fakeGate{running: true}, fakeUpstream("closed"), http.StatusOK},
		{"half-open is ready", fakeGate{running: true}, fakeUpstream("half-open"), http.StatusOK},
		{"gate stopped", fakeGate{running: false}, fakeUpstream("closed"), http.StatusServiceUnavailable},
		{"circuit open", fakeGate{running: true}, fakeUpstream("open"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, func(_ *config.Config, d *Dependencies) {
				d.Gate, d.Upstream = tt.gate, tt.upstream
			})
			rec := ts.do(http.MethodGet, "/api/v1/health/ready", "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	ts := newTestServer(t, nil)
	if rec := ts.do(http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}
}

func TestInboundRateLimit(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config, _ *Dependencies) {
		cfg.Security.RateLimitDisabled = false
		cfg.Security.RateLimitReqs = 2
	})

	for i := 0; i < 2; i++ {
		if rec := ts.do(http.MethodGet, "/api/v1/graph?artist=Low", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	rec := ts.do(http.MethodGet, "/api/v1/graph?artist=Low", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Error.Code != CodeTooManyRequests {
		t.Errorf("code = %s", resp.Error.Code)
	}

	// Health probes are exempt.
	if rec := ts.do(http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestRouterFallbacks(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound || decodeEnvelope(t, rec).Error.Code != CodeNotFound {
		t.Errorf("unknown route: %d %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(http.MethodDelete, "/api/v1/graph", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method: %d", rec.Code)
	}

	if rec = ts.do(http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("metrics endpoint: %d", rec.Code)
	}

	rec = ts.do(http.MethodOptions, "/api/v1/graph", "", "Origin", "https://app.example", "Access-Control-Request-Method", "POST")
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Errorf("CORS preflight not answered: %v", rec.Header())
	}
}

func TestContentDisposition(t *testing.T) {
	if got := contentDisposition("low-similar-artists.csv"); got != `attachment; filename="low-similar-artists.csv"` {
		t.Errorf("ascii = %q", got)
	}
	if got := contentDisposition("sigur-rós-similar-artists.csv"); !strings.HasPrefix(got, "attachment; filename*=utf-8''sigur-r%C3%B3s") {
		t.Errorf("utf-8 = %q", got)
	}
}
