// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging inspects uploaded files before they are handed to the
// media service. It reads only the image header, so probing stays cheap
// even for large photos.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// maxImagePixels caps the declared pixel count to reject decompression bombs.
const maxImagePixels = 100_000_000

var (
	// ErrNotImage is returned when the payload is not a decodable image.
	ErrNotImage = errors.New("imaging: not a supported image")

	// ErrTooLarge is returned when the declared pixel count exceeds maxImagePixels.
	ErrTooLarge = errors.New("imaging: image dimensions too large")
)

// Info describes a probed image.
type Info struct {
	ContentType string // e.g. "image/jpeg"
	Format      string // decoder name, e.g. "jpeg", "webp"
	Width       int
	Height      int
}

// Probe sniffs the content type and decodes the image header.
func Probe(data []byte) (*Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty dimensions", ErrNotImage)
	}
	if cfg.Width*cfg.Height > maxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	return &Info{
		ContentType: contentType(data, format),
		Format:      format,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

// Inspect describes any uploaded file. Decodable images get their format and
// dimensions; other files (SVG, AVIF, HEIC, ...) get only a content type,
// taken from the filename extension when sniffing finds nothing specific.
// Only ErrTooLarge is returned as an error.
func Inspect(data []byte, filename string) (*Info, error) {
	info, err := Probe(data)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, ErrNotImage) {
		return nil, err
	}

	ct := http.DetectContentType(data)
	if generic(ct) {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
			ct = byExt
		}
	}
	return &Info{ContentType: ct}, nil
}

// generic reports whether a sniffed type says nothing about the file.
func generic(ct string) bool {
	return ct == "application/octet-stream" ||
		strings.HasPrefix(ct, "text/plain") ||
		strings.HasPrefix(ct, "text/xml")
}

// contentType prefers the sniffed type and falls back to the decoder name
// for formats net/http does not recognise (TIFF).
func contentType(data []byte, format string) string {
	sniffed := http.DetectContentType(data)
	if len(sniffed) > 6 && sniffed[:6] == "image/" {
		return sniffed
	}
	return "image/" + format
}
