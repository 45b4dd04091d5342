// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/davidmoreno/marketrank/cliparse"
	"github.com/davidmoreno/marketrank/middleware"
)

// authedFunc wraps a handler with token auth the way the router does
func authedFunc(cfg cliparse.Config, h http.HandlerFunc) http.HandlerFunc {
	return middleware.RequireAuth(cfg.JWTSecret, h)
}

// adminFunc wraps a handler with the admin check
func adminFunc(cfg cliparse.Config, h http.HandlerFunc) http.HandlerFunc {
	return middleware.RequireAdmin(cfg.JWTSecret, h)
}
