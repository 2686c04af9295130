// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the Njora media gateway.
// Each handler validates its input, makes one call to the media service
// and reshapes the answer into the client JSON contract. Failures are
// converted to a JSON error body where they happen.
package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/render"

	"njora/internal/metadata"
	"njora/internal/metrics"
	"njora/internal/storage"
)

// Banner is the plain-text body served at "/".
const Banner = "Njora backend is running!"

// Media is the remote media service as seen by the gateway.
type Media interface {
	SubFolders(ctx context.Context, folder string) ([]storage.Folder, error)
	CreateFolder(ctx context.Context, folder string) error
	Upload(ctx context.Context, body io.Reader, size int64, p storage.UploadParams) (*storage.UploadResult, error)
	Assets(ctx context.Context, p storage.AssetsParams) (*storage.AssetsResult, error)
	Destroy(ctx context.Context, publicID string) (*storage.DestroyResult, error)
}

// Gateway groups the API handlers and their dependencies.
type Gateway struct {
	media   Media
	hook    metadata.Store
	metrics *metrics.Metrics
	root    string
}

// New creates a Gateway serving the folders under root. hook defaults to
// a LogStore and m may be nil.
func New(media Media, hook metadata.Store, m *metrics.Metrics, root string) *Gateway {
	if hook == nil {
		hook = metadata.NewLogStore(nil)
	}
	return &Gateway{
		media:   media,
		hook:    hook,
		metrics: m,
		root:    root,
	}
}

// Root serves the landing banner.
func (g *Gateway) Root(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, Banner)
}

// folder returns the media folder for a category, or the root itself.
func (g *Gateway) folder(category string) string {
	if category == "" {
		return g.root
	}
	return g.root + "/" + category
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// writeError writes {"error": msg} with the given status.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// replyOnce lets a handler with several completion paths answer exactly
// once. Later replies are dropped and logged.
type replyOnce struct {
	w    http.ResponseWriter
	r    *http.Request
	once sync.Once
}

func newReplyOnce(w http.ResponseWriter, r *http.Request) *replyOnce {
	return &replyOnce{w: w, r: r}
}

func (ro *replyOnce) json(status int, v any) {
	sent := false
	ro.once.Do(func() {
		writeJSON(ro.w, ro.r, status, v)
		sent = true
	})
	if !sent {
		slog.Warn("duplicate response suppressed", "path", ro.r.URL.Path, "status", status)
	}
}

func (ro *replyOnce) error(status int, msg string) {
	ro.json(status, map[string]string{"error": msg})
}
