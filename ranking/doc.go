// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ranking implements the like ledger, stats aggregation, and
rank assignment - the core of the service.

# Like Ledger

The Ledger owns the likes table. Nothing else writes it. Each member
may give at most Quota (5) likes, never to themselves, and at most one
per target:

	ledger := ranking.NewLedger(db, cfg.DatabaseType)
	like, err := ledger.CreateLike(giverID, targetID)
	err = ledger.DeleteLike(giverID, targetID)
	action, err := ledger.ToggleLike(giverID, targetID) // "added" / "removed"

Validation failures surface as sentinel errors (ErrSelfLike,
ErrQuotaExceeded, ErrDuplicateLike, ErrLikeNotFound, ErrUserNotFound)
that the HTTP layer translates to 400/404 responses.

# Atomicity

The create path runs the quota count, uniqueness check, and insert in
one transaction. In postgres mode the transaction first takes
pg_advisory_xact_lock keyed on the giver, so two concurrent creates
from the same giver cannot both observe "4 of 5 used". SQLite
serializes writers at the engine level. The UNIQUE (giver_id,
target_id) constraint backstops the duplicate pre-check either way,
and a constraint violation is reported as ErrDuplicateLike rather
than a raw database error.

# Stats Aggregation

user_stats is a read-through cache of the likes table. Both parties'
rows are refreshed inside the same transaction as every mutation, so
the counters are never observably stale. RefreshStats is also exposed
directly as a repair operation.

# Rank Assignment

RecomputeAllRanks assigns standard competition ranks over the whole
population after every mutation. Received counts of 5,5,3,0 produce
ranks 1,1,3,NULL. The recompute runs in its own transaction after the
mutation commits; a recompute racing another mutation may briefly
publish a stale rank, which the mutation's own recompute then
corrects. Recomputing the entire population on every write is O(n)
per like - fine at community scale, the first thing to revisit if the
population grows.
*/
package ranking
