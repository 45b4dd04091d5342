// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the MarketRank API server.

MarketRank is an invitation-gated community ranking service: members
register with a one-time invitation code, give each other a bounded
number of likes (5 per member), and are ranked by likes received using
standard competition ranking.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... JWT_SECRET=... go run main.go

Or with flags:

	go run main.go -p 8000 -d "postgres://..." -jwt-secret "..."

# Configuration

Required settings:

  - DATABASE_URL (-d): Database connection string
  - JWT_SECRET (-jwt-secret): Secret for signing access tokens

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)

A .env file in the working directory is loaded if present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - ranking: Like ledger, stats aggregation, rank assignment (the core)
  - handlers: HTTP request handlers (auth, likes, marketers, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, bearer-token auth
  - models: Request/response types
  - auth: Password hashing, JWT tokens, invitation codes
  - metrics: Prometheus counters
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
