// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metadata is the persistence hook for image metadata. The media
// service stays the system of record; a Store receives a copy of each
// uploaded asset's metadata and is told when an asset is deleted, so a
// database can be plugged in without touching the gateway.
package metadata

import (
	"context"
	"log/slog"
	"time"
)

// Record is the metadata saved for one uploaded asset.
type Record struct {
	PublicID    string
	SecureURL   string
	Category    string
	Name        string
	Description string
	Format      string
	Width       int
	Height      int
	Bytes       int64
	CreatedAt   time.Time
}

// Store receives metadata writes from the gateway.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context, publicID string) error
}

// LogStore only logs the writes it receives. It is the default hook when
// no database is configured.
type LogStore struct {
	logger *slog.Logger
}

// NewLogStore returns a LogStore writing to logger, or to the default
// logger when nil.
func NewLogStore(logger *slog.Logger) *LogStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogStore{logger: logger}
}

// Save logs the record.
func (s *LogStore) Save(ctx context.Context, rec Record) error {
	s.logger.InfoContext(ctx, "metadata save",
		"public_id", rec.PublicID,
		"category", rec.Category,
		"name", rec.Name,
	)
	return nil
}

// Delete logs the deletion.
func (s *LogStore) Delete(ctx context.Context, publicID string) error {
	s.logger.InfoContext(ctx, "metadata delete", "public_id", publicID)
	return nil
}

var (
	_ Store = (*LogStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
