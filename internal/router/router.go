// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires the gateway's HTTP routes and middleware chain.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"njora/internal/config"
	"njora/internal/handlers"
	"njora/internal/metrics"
	"njora/internal/middleware"
)

// New creates the chi router. m may be nil, in which case requests are
// not measured and /metrics is not served.
func New(cfg *config.Config, gw *handlers.Gateway, m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if m != nil {
		r.Use(m.Middleware)
	}
	r.Use(middleware.CORS(cfg.CORSMode, cfg.CORSOrigins))

	r.Get("/health", healthHandler)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", gw.Categories)
		r.Post("/create-category", gw.CreateCategory)
		r.Post("/upload", gw.Upload)
		r.Get("/images", gw.Images)
		r.Post("/delete-image", gw.DeleteImage)
	})

	r.Get("/", gw.Root)

	// Frontend files, when the gateway also hosts the site.
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
