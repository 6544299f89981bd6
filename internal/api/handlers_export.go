// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package api

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/tomtom215/sonograph/internal/export"
	"github.com/tomtom215/sonograph/internal/logging"
	"github.com/tomtom215/sonograph/internal/models"
)

// ExportRequest carries a graph the client already built.
type ExportRequest struct {
	Nodes []models.GraphNode `json:"nodes"`
	Edges []models.GraphEdge `json:"edges"`
}

// ExportCSV builds a graph and returns it as CSV.
//
// @Summary Export a fresh graph as CSV
// @Tags Export
// @Produce text/csv
// @Param root query string true "Artist name or profile URL"
// @Param depth query int false "Hop depth (1 or 2)" default(1)
// @Param limit query int false "Hop-1 fan-out (5-50)" default(25)
// @Success 200 {file} file "CSV attachment"
// @Failure 400 {object} models.APIResponse "Invalid input"
// @Failure 404 {object} models.APIResponse "Artist not found"
// @Failure 429 {object} models.APIResponse "Upstream rate limited"
// @Failure 500 {object} models.APIResponse "Upstream or internal error"
// @Router /export/csv [get]
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	req, err := h.graphRequestFromQuery(r, "root")
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	g, ok := h.build(w, r, req)
	if !ok {
		return
	}
	h.writeCSV(w, r, g.Nodes, g.Edges)
}

// ExportGraphCSV converts a client-held graph to CSV.
//
// @Summary Export a posted graph as CSV
// @Tags Export
// @Accept json
// @Produce text/csv
// @Param request body ExportRequest true "Graph nodes and edges"
// @Success 200 {file} file "CSV attachment"
// @Failure 400 {object} models.APIResponse "Malformed body or no root artist"
// @Router /export/csv [post]
func (h *Handler) ExportGraphCSV(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	h.writeCSV(w, r, req.Nodes, req.Edges)
}

func (h *Handler) writeCSV(w http.ResponseWriter, r *http.Request, nodes []models.GraphNode, edges []models.GraphEdge) {
	data, err := export.FormatCSV(nodes, edges)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	filename := export.Filename(models.FindRoot(nodes).Name)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", contentDisposition(filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write CSV response")
	}
}

// contentDisposition quotes ASCII filenames directly and falls back to the
// RFC 2231 form for anything else.
func contentDisposition(filename string) string {
	for i := 0; i < len(filename); i++ {
		if filename[i] >= 0x80 {
			return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
		}
	}
	return `attachment; filename="` + filename + `"`
}
