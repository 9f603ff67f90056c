package metrics

import (
	"strconv"
	"time"
)

// PrometheusFetchMetrics records fetch proxy metrics to the default Prometheus registry.
// The zero value is ready to use.
type PrometheusFetchMetrics struct{}

// NewPrometheusFetchMetrics returns a recorder backed by the package-level collectors.
func NewPrometheusFetchMetrics() *PrometheusFetchMetrics {
	return &PrometheusFetchMetrics{}
}

// RecordOutcome increments the request counter for the given outcome.
func (PrometheusFetchMetrics) RecordOutcome(outcome string) {
	FetchRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordRejection increments the validation rejection counter for reason.
func (PrometheusFetchMetrics) RecordRejection(reason string) {
	FetchValidationRejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordUpstream records the duration and status class of an upstream response.
// A zero status means no response was received.
func (PrometheusFetchMetrics) RecordUpstream(status int, duration time.Duration) {
	FetchUpstreamDuration.Observe(duration.Seconds())
	FetchUpstreamStatusTotal.WithLabelValues(StatusClass(status)).Inc()
}

// RecordContentSize records the size of the reduced content.
func (PrometheusFetchMetrics) RecordContentSize(size int) {
	FetchContentBytes.Observe(float64(size))
}

// RecordSearch increments the search counter for result.
func RecordSearch(result string) {
	SearchRequestsTotal.WithLabelValues(result).Inc()
}

// StatusClass maps an HTTP status code to "1xx".."5xx", or "none" when no
// response was received.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "none"
	}
	return strconv.Itoa(status/100) + "xx"
}
