// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment variables.

# Precedence

CLI flags take precedence over environment variables:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Settings

  - Port (-p / PORT): Server port, default 8000
  - DatabaseURL (-d / DATABASE_URL): Required connection string
  - DatabaseType (-t / DATABASE_TYPE): "sqlite" (default) or "postgres"
  - JWTSecret (-jwt-secret / JWT_SECRET): Required token signing secret

Secrets should be provided via environment variables in production;
the CLI flags exist for local development convenience.
*/
package cliparse
