package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "toyfactory"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	// ProjectMutations counts successful catalog writes by op (create|update|delete).
	ProjectMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "project_mutations_total", Help: "Number of successful project mutations by operation."},
		[]string{"op"},
	)

	AssetsStored = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "assets_stored_total", Help: "Number of uploaded assets persisted by sink."},
		[]string{"sink"},
	)
	AssetWriteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "asset_write_failures_total", Help: "Number of failed asset writes by sink."},
		[]string{"sink"},
	)
	AssetBytes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "asset_bytes_total", Help: "Total bytes of persisted assets."},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "project_cache_hits_total", Help: "Project lookups served from the LRU cache."},
	)
	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "project_cache_misses_total", Help: "Project lookups that went to the backing store."},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency by route and status.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(
		RateLimitAllowed,
		RateLimitRejected,
		ProjectMutations,
		AssetsStored,
		AssetWriteFailures,
		AssetBytes,
		CacheHits,
		CacheMisses,
		RequestDuration,
	)
}
