// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"njora/internal/config"
)

// CORSOptions builds the cross-origin policy for a mode. Restricted mode
// admits only the listed frontend origins with GET/POST and Content-Type;
// open mode admits any origin.
func CORSOptions(mode string, origins []string) cors.Options {
	if mode == config.CORSOpen {
		return cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "X-Requested-With"},
			MaxAge:         300,
		}
	}

	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}
}

// CORS returns the cross-origin middleware for a mode.
func CORS(mode string, origins []string) func(http.Handler) http.Handler {
	return cors.Handler(CORSOptions(mode, origins))
}
