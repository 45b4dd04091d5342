// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Type Categories

  - Request types: JSON bodies parsed from incoming requests
  - Response types: JSON bodies written back to clients
  - Domain types: User, Like, UserStats, Invitation rows
  - Projection types: read-shaped views (profiles, ranking entries)

# Error Kinds

ErrorResponse.Error carries a stable machine-checkable kind
(e.g. "quota_exceeded", "self_like") while Message carries the
human-readable explanation. Clients should branch on the kind, never
on the message text.

# Rank Semantics

UserStats.Rank and UserProfile.Rank are pointers: nil means unranked,
which is the state of every user with zero likes received.
*/
package models
