// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	// LikesAdded counts successful like creations
	LikesAdded = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "marketrank",
		Name:      "likes_added_total",
		Help:      "Number of likes created.",
	})

	// LikesRemoved counts successful like deletions
	LikesRemoved = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "marketrank",
		Name:      "likes_removed_total",
		Help:      "Number of likes removed.",
	})

	// LikesRejected counts like attempts rejected by ledger validation
	LikesRejected = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketrank",
		Name:      "likes_rejected_total",
		Help:      "Number of like attempts rejected, by reason.",
	}, []string{"reason"})

	// RankRecomputes counts full ranking recomputations
	RankRecomputes = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "marketrank",
		Name:      "rank_recomputes_total",
		Help:      "Number of full rank recomputations.",
	})
)

// Handler serves the metrics registry in Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
