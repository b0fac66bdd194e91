// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "match_requests_total",
			Help: "Total number of matching requests served",
		},
	)

	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "match_request_duration_seconds",
			Help: "Duration of matching request processing in seconds",
		},
	)

	RerankOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rerank_outcomes_total",
			Help: "Rerank outcomes by path (cache_hit, fallback, reranked)",
		},
		[]string{"outcome"},
	)

	RerankCallFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rerank_call_failures_total",
			Help: "External ranking call failures by error code",
		},
		[]string{"error_code"},
	)

	QuotaRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rerank_quota_rejections_total",
			Help: "Ranking calls rejected by the quota guard",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rerank_cache_lookups_total",
			Help: "Rerank cache lookups by result (hit, miss, expired, error)",
		},
		[]string{"result"},
	)

	CacheSweepRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rerank_cache_sweep_removed_total",
			Help: "Expired rerank cache entries removed by the sweeper",
		},
	)
)
