// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// Package api serves the Sonograph HTTP API on a chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/sonograph/internal/middleware"
)

// Router wires handlers and middleware.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to all routes, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflights are answered
	r.Use(chimiddleware.Compress(5, "application/json", "text/csv"))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Health probes skip the rate limiter.
		r.Route("/health", func(r chi.Router) {
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(middleware.PrometheusMetrics)

			r.Route("/graph", func(r chi.Router) {
				r.Post("/", router.handler.BuildGraph)
				r.Get("/", router.handler.BuildGraphQuery)
				r.Post("/expand", router.handler.ExpandNode)
			})

			r.Route("/export", func(r chi.Router) {
				r.Get("/csv", router.handler.ExportCSV)
				r.Post("/csv", router.handler.ExportGraphCSV)
			})

			r.Post("/playlists", router.handler.CreatePlaylist)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}
