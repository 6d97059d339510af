// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skillswap_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// SearchResults observes how many users a search returned.
	SearchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "skillswap_search_results",
		Help:    "Number of users returned per search",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	})

	// SwapRequestsCreated counts swap requests created.
	SwapRequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_swap_requests_created_total",
		Help: "Total number of swap requests created",
	})

	// SwapTransitions counts applied swap status transitions.
	SwapTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_swap_transitions_total",
		Help: "Total number of swap request status transitions",
	}, []string{"from", "to"})

	// ReviewsCreated counts reviews by rating.
	ReviewsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_reviews_created_total",
		Help: "Total number of reviews submitted",
	}, []string{"rating"})

	// ModerationActions counts admin moderation actions by target kind and action.
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_moderation_actions_total",
		Help: "Total number of moderation actions",
	}, []string{"target", "action"})

	// CacheLookups counts cache-aside lookups by cache name and result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"cache", "result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
