// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the domain metrics of the fetch proxy:
//   - Fetch outcomes (success and each failure kind)
//   - Validation rejections by reason (scheme, port, private_network, ...)
//   - Upstream latency and status class
//   - Reduced content size
//   - Search pass-through results
//
// HTTP transport metrics live with the HTTP middleware. All collectors are
// registered with the Prometheus default registry and exposed via /metrics.
//
// Example usage:
//
//	rec := metrics.NewPrometheusFetchMetrics()
//	svc := fetch.NewService(validator, fetcher, reducer, fetch.WithMetrics(rec))
package metrics
