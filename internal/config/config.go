// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct that is built once at
// startup and passed to the components that need it.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Cross-origin policy modes.
const (
	CORSRestricted = "restricted"
	CORSOpen       = "open"
)

// Metadata hook backends.
const (
	MetadataLog      = "log"
	MetadataRedis    = "redis"
	MetadataPostgres = "postgres"
)

// DefaultCORSOrigin is the hosted frontend allowed in restricted mode.
const DefaultCORSOrigin = "https://njora-opp.github.io"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string

	// Remote media service account
	CloudName string // account identifier; names the bucket on S3-compatible backends
	APIKey    string
	APISecret string

	MediaEndpoint  string
	MediaRegion    string
	MediaPublicURL string
	MediaRoot      string

	// Cross-origin policy and optional static hosting
	CORSMode    string
	CORSOrigins []string
	StaticDir   string

	// Metadata hook
	MetadataStore string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if values are invalid
// or critical values are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("PORT", "5000"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: os.Getenv("LOG_LEVEL"),

		CloudName: os.Getenv("CLOUD_NAME"),
		APIKey:    os.Getenv("API_KEY"),
		APISecret: os.Getenv("API_SECRET"),

		MediaEndpoint:  os.Getenv("MEDIA_ENDPOINT"),
		MediaRegion:    envOrDefault("MEDIA_REGION", "auto"),
		MediaPublicURL: os.Getenv("MEDIA_PUBLIC_URL"),
		MediaRoot:      strings.Trim(envOrDefault("MEDIA_ROOT", "njora-photos"), "/"),

		CORSMode:    strings.ToLower(envOrDefault("CORS_MODE", CORSRestricted)),
		CORSOrigins: splitList(envOrDefault("CORS_ORIGINS", DefaultCORSOrigin)),
		StaticDir:   os.Getenv("STATIC_DIR"),

		MetadataStore: strings.ToLower(envOrDefault("METADATA_STORE", MetadataLog)),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "njora"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "njora"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
	}

	switch cfg.CORSMode {
	case CORSRestricted, CORSOpen:
	default:
		return nil, fmt.Errorf("CORS_MODE must be %q or %q, got %q", CORSRestricted, CORSOpen, cfg.CORSMode)
	}

	switch cfg.MetadataStore {
	case MetadataLog, MetadataRedis, MetadataPostgres:
	default:
		return nil, fmt.Errorf("METADATA_STORE must be one of log, redis, postgres, got %q", cfg.MetadataStore)
	}

	if cfg.MediaRoot == "" {
		return nil, fmt.Errorf("MEDIA_ROOT must not be empty")
	}

	if cfg.Env == "production" {
		if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
			return nil, fmt.Errorf("CLOUD_NAME, API_KEY and API_SECRET must be set in production")
		}
		if cfg.MetadataStore == MetadataPostgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasMediaCredentials reports whether the remote media account is configured.
func (c *Config) HasMediaCredentials() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// SlogLevel resolves LOG_LEVEL, falling back to debug in development and
// info everywhere else.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if c.LogLevel != "" {
		if err := level.UnmarshalText([]byte(c.LogLevel)); err == nil {
			return level
		}
	}
	if c.IsDev() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
