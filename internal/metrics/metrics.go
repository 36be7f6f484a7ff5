package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Assistant pipeline metrics

var (
	// ChatRequests counts assistant chat requests by outcome (ok|bad_request|error)
	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pepuhub_chat_requests_total",
		Help: "Total assistant chat requests by outcome",
	}, []string{"outcome"})

	// ResolverOutcomes counts token resolutions by tier
	// (address|known_table|dynamic_pool_scan|not_found)
	ResolverOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pepuhub_resolver_outcomes_total",
		Help: "Token resolver outcomes by resolution tier",
	}, []string{"tier"})

	// ReconcilerSource counts which source won reconciliation
	ReconcilerSource = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pepuhub_reconciler_source_total",
		Help: "Winning data source per reconciliation",
	}, []string{"source"})

	// CompletionFallbacks counts how often the deterministic fallback answered
	CompletionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pepuhub_completion_fallbacks_total",
		Help: "Chat responses served by the deterministic fallback",
	})

	// UpstreamRequestDuration observes market-data API latency per endpoint
	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pepuhub_upstream_request_duration_seconds",
		Help:    "Market-data API request duration by endpoint and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	// VotesCast counts accepted token votes
	VotesCast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pepuhub_votes_cast_total",
		Help: "Accepted token votes",
	})
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
