// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the MarketRank API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: Registration, login, and invitation validation
  - LikeHandler: Toggling and removing likes
  - UserHandler: Member listing, profiles, and search
  - RankingHandler: Leaderboard retrieval and rank recompute
  - ActivityHandler: Recent like activity feeds
  - AdminHandler: Invitations, platform stats, and the reset operation

Handlers that mutate likes also receive the ranking ledger:

	likeHandler := handlers.NewLikeHandler(db, cfg, ledger)

# Registration Flow

Registration is invitation-gated. In a single transaction the handler
validates the code (exists, unused, unexpired, email binding), creates
the user with an eager stats row, and consumes the invitation:

	POST /auth/register → 201 with a JWT and the user profile

# Like Semantics

All like mutations go through the ranking ledger, which enforces the
quota, self-like, and duplicate rules and keeps stats and ranks
consistent. Handlers only translate ledger sentinel errors into
structured JSON error responses (see writeLedgerError).

# Admin Operations

Admin endpoints require a token with is_admin set. The reset operation
additionally demands confirm: true in the request body.
*/
package handlers
