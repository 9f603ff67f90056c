// Package metrics provides centralized Prometheus metrics for the fetch proxy.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch metrics track the outcome and latency of proxied fetches.
var (
	// FetchRequestsTotal counts fetch requests by outcome
	// (success, input, policy, upstream, transport, unexpected).
	FetchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_requests_total",
			Help: "Total number of fetch proxy requests by outcome",
		},
		[]string{"outcome"},
	)

	// FetchValidationRejectionsTotal counts URLs rejected before any network I/O
	// to the target, by rejection reason.
	FetchValidationRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_validation_rejections_total",
			Help: "Total number of URLs rejected by validation, by reason",
		},
		[]string{"reason"},
	)

	// FetchUpstreamDuration measures the upstream GET, including body read.
	FetchUpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fetch_upstream_duration_seconds",
			Help:    "Time taken by the upstream HTTP GET in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// FetchUpstreamStatusTotal counts upstream responses by status class (2xx, 3xx, 4xx, 5xx).
	FetchUpstreamStatusTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_upstream_status_total",
			Help: "Total number of upstream responses by status class",
		},
		[]string{"class"},
	)

	// FetchContentBytes measures the size of reduced content returned to callers.
	FetchContentBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fetch_content_bytes",
			Help:    "Size of reduced content in bytes",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
	)
)

// Search metrics track the pass-through search endpoint.
var (
	// SearchRequestsTotal counts search requests by result (ok, upstream_error, rejected, unavailable).
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of search pass-through requests by result",
		},
		[]string{"result"},
	)
)
