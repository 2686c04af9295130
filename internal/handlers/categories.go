// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
)

type createCategoryRequest struct {
	Category string `json:"category" form:"category"`
}

// Categories lists the direct sub-folders of the root namespace.
func (g *Gateway) Categories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	folders, err := g.media.SubFolders(r.Context(), g.root)
	g.metrics.ObserveRemote("sub_folders", start, err)
	if err != nil {
		slog.Error("failed to list categories", "folder", g.root, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to load categories")
		return
	}

	categories := make([]string, 0, len(folders))
	for _, f := range folders {
		categories = append(categories, f.Name)
	}
	writeJSON(w, r, http.StatusOK, map[string][]string{"categories": categories})
}

// CreateCategory creates the folder for a new category. JSON and
// form-encoded bodies are accepted.
func (g *Gateway) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := render.Decode(r, &req); err != nil {
		slog.Debug("create category: undecodable body", "error", err)
		req = createCategoryRequest{}
	}

	name := strings.TrimSpace(req.Category)
	if msg := validateCategory(name, "Category name required"); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	folder := g.folder(name)
	start := time.Now()
	err := g.media.CreateFolder(r.Context(), folder)
	g.metrics.ObserveRemote("create_folder", start, err)
	if err != nil {
		slog.Error("failed to create folder", "folder", folder, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to create folder")
		return
	}

	slog.Info("category created", "folder", folder)
	writeJSON(w, r, http.StatusOK, map[string]string{"message": "Category created"})
}
