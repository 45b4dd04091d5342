// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus counters for the like/ranking core.

Counters live on a private registry served at GET /metrics:

  - marketrank_likes_added_total
  - marketrank_likes_removed_total
  - marketrank_likes_rejected_total{reason}
  - marketrank_rank_recomputes_total

The rejected counter's reason label takes the values "self_like",
"quota_exceeded", and "duplicate_like", matching the API error kinds.
*/
package metrics
