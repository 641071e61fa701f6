// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabhub_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "collabhub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// SessionsIssued counts sessions created at login.
	SessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collabhub_sessions_issued_total",
		Help: "Total number of login sessions issued",
	})

	// SessionsExpiredLazily counts expired sessions removed on access.
	SessionsExpiredLazily = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collabhub_sessions_expired_lazy_total",
		Help: "Total number of expired sessions removed lazily on access",
	})

	// CollabVotes counts upvote attempts by outcome (applied or duplicate).
	CollabVotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabhub_collab_votes_total",
		Help: "Total number of upvote requests by outcome",
	}, []string{"outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
