// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the client-facing records returned by the gateway.
package models

import (
	"strings"
	"time"
)

// Defaults applied when an asset carries no metadata.
const (
	DefaultName        = "Untitled Photo"
	DefaultDescription = "No description provided."
	RootCategory       = "Root"
)

// Image is an image asset as returned by GET /api/images.
type Image struct {
	PublicID    string    `json:"public_id"`
	SecureURL   string    `json:"secure_url"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	Format      string    `json:"format,omitempty"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	Bytes       int64     `json:"bytes,omitempty"`
}

// ApplyDefaults fills in the placeholder name and description for assets
// uploaded without them.
func (img *Image) ApplyDefaults() {
	if img.Name == "" {
		img.Name = DefaultName
	}
	if img.Description == "" {
		img.Description = DefaultDescription
	}
}

// ResolveCategory derives an asset's category. The containing folder wins,
// then the category that was queried, then RootCategory.
func ResolveCategory(folder, queried string) string {
	if folder = strings.TrimRight(folder, "/"); folder != "" {
		return folder[strings.LastIndex(folder, "/")+1:]
	}
	if queried != "" {
		return queried
	}
	return RootCategory
}
