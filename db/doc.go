// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema

Four tables:

  - users: registered members (email login, bcrypt password hash)
  - invitations: one-time registration codes with optional email binding
  - likes: directed like edges with a UNIQUE (giver_id, target_id) constraint
  - user_stats: denormalized per-user counters and rank, derived from likes

The UNIQUE constraint on likes is load-bearing: concurrent duplicate
like attempts are resolved by the constraint rather than application
pre-checks alone. user_stats is a read-through cache owned by the
ranking package; nothing else writes it.

# Portability

All SQL uses $N placeholders and a type vocabulary accepted by both
PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite). Timestamps are
always written from Go rather than relying on engine defaults.
*/
package db
