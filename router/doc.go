// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the MarketRank API.

# Route Registration

NewRouter creates a configured handler with all endpoints, wrapped in
CORS middleware:

	handler := router.NewRouter(db, cfg)

# Endpoints

Health and observability:

	GET /health
	GET /metrics

Authentication (public):

	POST /auth/register            - Register with an invitation code
	POST /auth/login               - Log in with email and password
	GET  /auth/validate-invitation - Check a code without consuming it

Members (requires bearer token):

	GET   /marketers      - List members with counters
	GET   /marketers/{id} - One member with like edges
	GET   /user/stats     - Caller's detailed stats
	GET   /profile        - Caller's own profile
	PATCH /profile        - Update name/bio (partial)
	GET   /search         - Search members (?q=, min 2 chars)

Likes (requires bearer token):

	POST   /likes/toggle   - Add or remove a like
	DELETE /likes/{id}     - Remove an owned like by ID
	GET    /likes/my-likes - List outgoing likes

Ranking (requires bearer token):

	GET  /ranking         - Leaderboard (?limit=, default 50)
	POST /rankings/update - Force a full rank recompute

Activity (requires bearer token):

	GET /activity - Recent like activity feeds

Admin (requires admin token):

	POST /admin/invitations      - Create one invitation
	GET  /admin/invitations      - List all invitations
	POST /admin/invitations/bulk - Create up to 100 invitations
	GET  /admin/stats            - Platform totals and top lists
	POST /admin/likes/reset      - Delete all likes (confirm: true)

# Handler Initialization

The router creates the ranking ledger and handler instances with
dependency injection:

	ledger := ranking.NewLedger(db, cfg.DatabaseType)
	likeHandler := handlers.NewLikeHandler(db, cfg, ledger)

All handlers receive the database connection and configuration; the
handlers that mutate likes also receive the ledger.
*/
package router
