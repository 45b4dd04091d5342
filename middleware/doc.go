// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Middleware

  - WithLogging: request start/completion logging with duration
  - RequireAuth: bearer-token validation, claims stored in context
  - RequireAdmin: RequireAuth plus is_admin enforcement
  - CORS: cross-origin headers and preflight handling

# Helpers

  - JSONResponse: write any value as JSON with a status code
  - ErrorResponse: error body keyed by HTTP status text
  - KindResponse: error body with a stable machine-checkable kind
  - ParseJSONBody: decode a request body
  - ClaimsFromContext: retrieve the authenticated user's claims
  - GetClientIP: client IP behind proxies

Handlers retrieve the caller identity with ClaimsFromContext; outside
a RequireAuth chain it returns nil.
*/
package middleware
