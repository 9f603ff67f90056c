// Package observability groups the logging, metrics and tracing support of
// the fetch proxy.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus recorders for fetch and search outcomes
//   - tracing: OpenTelemetry tracer setup and HTTP server spans
//
// Example usage:
//
//	import (
//	    "safefetch/internal/observability/logging"
//	    "safefetch/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger(os.Stdout)
//	    logger.Info("application started")
//
//	    metrics.RecordSearch("success")
//	}
package observability
