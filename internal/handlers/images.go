// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"njora/internal/imaging"
	"njora/internal/metadata"
	"njora/internal/models"
	"njora/internal/storage"
)

const (
	maxUploadSize = 50 << 20 // 50 MB
	maxMemory     = 10 << 20 // multipart parts above this spill to disk
	probeSize     = 1 << 20  // bytes read for header detection
	maxListResult = 500
)

type deleteImageRequest struct {
	PublicID string `json:"public_id" form:"public_id"`
}

type uploadResponse struct {
	Message  string `json:"message"`
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type imagesResponse struct {
	Resources  []models.Image `json:"resources"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Upload stores one image in its category folder with its name and
// description attached as context. Exactly one response is written even
// if the media call fails or panics.
func (g *Gateway) Upload(w http.ResponseWriter, r *http.Request) {
	reply := newReplyOnce(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			reply.error(http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		slog.Debug("upload: unreadable form", "error", err)
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		reply.error(http.StatusBadRequest, "File missing")
		return
	}
	defer file.Close()

	category := strings.TrimSpace(r.FormValue("category"))
	if msg := validateCategory(category, "Category missing"); msg != "" {
		reply.error(http.StatusBadRequest, msg)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		reply.error(http.StatusBadRequest, "Picture Name missing")
		return
	}
	meta := models.Context{
		Name:        name,
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if msg := validateContext(meta); msg != "" {
		reply.error(http.StatusBadRequest, msg)
		return
	}

	head, err := io.ReadAll(io.LimitReader(file, probeSize))
	if err != nil {
		slog.Error("upload: read file", "error", err)
		reply.error(http.StatusBadRequest, "File missing")
		return
	}
	info, err := imaging.Inspect(head, header.Filename)
	if err != nil {
		slog.Warn("upload rejected", "filename", header.Filename, "error", err)
		reply.error(http.StatusBadRequest, "Image dimensions too large")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		slog.Error("upload: rewind file", "error", err)
		reply.error(http.StatusInternalServerError, "Upload failed")
		return
	}

	folder := g.folder(category)
	params := storage.UploadParams{
		Folder:      folder,
		Context:     meta.Pack(),
		ContentType: info.ContentType,
		Format:      info.Format,
		Width:       info.Width,
		Height:      info.Height,
	}

	start := time.Now()
	res, err := g.callUpload(r, file, header.Size, params)
	g.metrics.ObserveRemote("upload", start, err)
	if err != nil {
		slog.Error("upload failed", "folder", folder, "error", err)
		reply.error(http.StatusInternalServerError, "Upload failed")
		return
	}

	rec := metadata.Record{
		PublicID:    res.PublicID,
		SecureURL:   res.SecureURL,
		Category:    category,
		Name:        meta.Name,
		Description: meta.Description,
		Format:      res.Format,
		Width:       res.Width,
		Height:      res.Height,
		Bytes:       res.Bytes,
		CreatedAt:   res.CreatedAt,
	}
	if err := g.hook.Save(r.Context(), rec); err != nil {
		slog.Warn("metadata save failed", "public_id", res.PublicID, "error", err)
	}

	slog.Info("image uploaded", "public_id", res.PublicID, "bytes", res.Bytes)
	reply.json(http.StatusOK, uploadResponse{
		Message:  "Uploaded successfully",
		URL:      res.SecureURL,
		PublicID: res.PublicID,
	})
}

// callUpload runs the media upload and converts a panic inside the
// client into an error.
func (g *Gateway) callUpload(r *http.Request, body io.Reader, size int64, p storage.UploadParams) (res *storage.UploadResult, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("media upload panicked: %v", v)
		}
	}()
	res, err = g.media.Upload(r.Context(), body, size, p)
	if err == nil && res == nil {
		err = errors.New("media upload returned no result")
	}
	return res, err
}

// Images lists the assets of one category, or of every category when no
// category is given.
func (g *Gateway) Images(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	folder := g.folder(category)

	start := time.Now()
	res, err := g.media.Assets(r.Context(), storage.AssetsParams{
		Prefix:     folder + "/",
		MaxResults: maxListResult,
		NextCursor: r.URL.Query().Get("next_cursor"),
	})
	g.metrics.ObserveRemote("resources", start, err)
	if err != nil {
		slog.Error("failed to list images", "folder", folder, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to load images")
		return
	}

	resp := imagesResponse{
		Resources:  make([]models.Image, 0, len(res.Assets)),
		NextCursor: res.NextCursor,
	}
	for _, a := range res.Assets {
		meta := models.ParseContext(a.Context)
		img := models.Image{
			PublicID:    a.PublicID,
			SecureURL:   a.SecureURL,
			Name:        meta.Name,
			Description: meta.Description,
			Category:    models.ResolveCategory(a.Folder, category),
			CreatedAt:   a.CreatedAt,
			Format:      a.Format,
			Width:       a.Width,
			Height:      a.Height,
			Bytes:       a.Bytes,
		}
		img.ApplyDefaults()
		resp.Resources = append(resp.Resources, img)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// DeleteImage destroys one asset. Any result other than "ok" from the
// media service is reported as a failure.
func (g *Gateway) DeleteImage(w http.ResponseWriter, r *http.Request) {
	var req deleteImageRequest
	if err := render.Decode(r, &req); err != nil {
		slog.Debug("delete image: undecodable body", "error", err)
		req = deleteImageRequest{}
	}

	publicID := strings.TrimSpace(req.PublicID)
	if publicID == "" {
		writeError(w, r, http.StatusBadRequest, "public_id is required")
		return
	}

	start := time.Now()
	res, err := g.media.Destroy(r.Context(), publicID)
	g.metrics.ObserveRemote("destroy", start, err)
	if err != nil {
		slog.Error("failed to delete image", "public_id", publicID, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Deletion failed")
		return
	}
	if res == nil || res.Result != storage.ResultOK {
		result := "no result"
		if res != nil {
			result = res.Result
		}
		slog.Warn("delete not confirmed", "public_id", publicID, "result", result)
		writeError(w, r, http.StatusInternalServerError, "Deletion failed: "+result)
		return
	}

	if err := g.hook.Delete(r.Context(), publicID); err != nil {
		slog.Warn("metadata delete failed", "public_id", publicID, "error", err)
	}

	slog.Info("image deleted", "public_id", publicID)
	writeJSON(w, r, http.StatusOK, map[string]string{"message": "Deleted successfully"})
}
