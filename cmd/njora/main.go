// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Njora media gateway.
// It loads configuration, connects to the media service and the optional
// metadata backend, sets up routing, and starts the HTTP server with
// graceful shutdown support.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"njora/internal/cache"
	"njora/internal/config"
	"njora/internal/database"
	"njora/internal/handlers"
	"njora/internal/metadata"
	"njora/internal/metrics"
	"njora/internal/router"
	"njora/internal/storage"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON otherwise.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"media_root", cfg.MediaRoot,
		"cors_mode", cfg.CORSMode,
		"metadata_store", cfg.MetadataStore,
	)

	// Connect to the media service.
	if !cfg.HasMediaCredentials() {
		slog.Error("media service not configured: set CLOUD_NAME, API_KEY and API_SECRET")
		os.Exit(1)
	}
	media, err := storage.New(cfg.MediaEndpoint, cfg.MediaRegion, cfg.CloudName, cfg.APIKey, cfg.APISecret, cfg.MediaPublicURL)
	if err != nil {
		slog.Error("failed to initialize media client", "error", err)
		os.Exit(1)
	}
	slog.Info("media service configured", "endpoint", cfg.MediaEndpoint, "bucket", media.Bucket())

	// Metadata hook: log-only unless a backend is selected.
	hook, closeHook, err := openMetadataStore(cfg)
	if err != nil {
		slog.Error("failed to initialize metadata store", "store", cfg.MetadataStore, "error", err)
		os.Exit(1)
	}
	defer closeHook.Close()

	m := metrics.New()
	gw := handlers.New(media, hook, m, cfg.MediaRoot)

	// Set up the Chi router with all middleware and routes.
	r := router.New(cfg, gw, m)

	// Uploads of up to 50 MB need generous body read and write windows.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openMetadataStore builds the configured metadata hook and returns the
// connection that backs it.
func openMetadataStore(cfg *config.Config) (metadata.Store, io.Closer, error) {
	switch cfg.MetadataStore {
	case config.MetadataRedis:
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return nil, nil, err
		}
		return metadata.NewRedisStore(client), client, nil

	case config.MetadataPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return metadata.NewPostgresStore(db), db, nil

	default:
		return metadata.NewLogStore(slog.Default()), nopCloser{}, nil
	}
}
