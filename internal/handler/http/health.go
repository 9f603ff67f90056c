// Package http is the HTTP edge of the fetch proxy: middleware, health and
// metrics endpoints. The fetch and search handlers live in subpackages.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"safefetch/pkg/security/netpolicy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // RFC 3339
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"` // "healthy", "degraded" or "unhealthy"
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// SearchStatus is the view of the search client the health check needs.
type SearchStatus interface {
	Configured() bool
	BreakerState() string
}

// RateLimiterStatus is the view of the API rate limiter the health check needs.
type RateLimiterStatus interface {
	Enabled() bool
	ActiveClients() int
}

// HealthHandler reports the network policy, search client and rate limiter.
// Only a missing network policy makes the service unhealthy: search is an
// optional feature and its degradation is informational.
type HealthHandler struct {
	Version     string
	Policy      *netpolicy.Policy
	Search      SearchStatus
	RateLimiter RateLimiterStatus
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := map[string]CheckStatus{
		"network_policy": h.checkPolicy(),
		"search":         h.checkSearch(),
	}
	if h.RateLimiter != nil {
		checks["rate_limiter"] = CheckStatus{
			Status: "healthy",
			Details: map[string]any{
				"enabled":        h.RateLimiter.Enabled(),
				"active_clients": h.RateLimiter.ActiveClients(),
			},
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	for _, c := range checks {
		if c.Status == "unhealthy" {
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

func (h *HealthHandler) checkPolicy() CheckStatus {
	if h.Policy == nil {
		return CheckStatus{Status: "unhealthy", Message: "not configured"}
	}
	return CheckStatus{
		Status: "healthy",
		Details: map[string]any{
			"blocked_ports":    len(h.Policy.BlockedPorts()),
			"blocked_networks": len(h.Policy.BlockedNetworks()),
		},
	}
}

func (h *HealthHandler) checkSearch() CheckStatus {
	if h.Search == nil || !h.Search.Configured() {
		return CheckStatus{Status: "degraded", Message: "not configured"}
	}
	state := h.Search.BreakerState()
	check := CheckStatus{
		Status:  "healthy",
		Details: map[string]any{"circuit_breaker": state},
	}
	if state != "closed" {
		check.Status = "degraded"
		check.Message = "circuit breaker " + state
	}
	return check
}

// ReadyHandler handles readiness probes. The proxy is ready once its network
// policy is loaded.
type ReadyHandler struct {
	Policy *netpolicy.Policy
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Policy == nil {
		http.Error(w, "network policy not loaded", http.StatusServiceUnavailable)
		return
	}
	writeText(r.Context(), w, "ready")
}

// LiveHandler handles liveness probes.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeText(r.Context(), w, "alive")
}

func writeText(ctx context.Context, w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Default().DebugContext(ctx, "probe: failed to write response", slog.Any("error", err))
	}
}
