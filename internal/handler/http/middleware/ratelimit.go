package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"safefetch/internal/handler/http/respond"

	"golang.org/x/time/rate"
)

// IPRateLimiterConfig holds configuration for the per-client-IP limiter.
type IPRateLimiterConfig struct {
	// RPS is the sustained rate per client. A non-positive value disables limiting.
	RPS float64
	// Burst is the bucket size per client.
	Burst int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter is a token bucket per client IP in front of /api/*.
type IPRateLimiter struct {
	config      IPRateLimiterConfig
	ipExtractor IPExtractor

	// OnReject, when set, is called for every rejected request.
	OnReject func(ip string)

	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time
}

// NewIPRateLimiter creates a limiter that identifies clients with ipExtractor.
func NewIPRateLimiter(config IPRateLimiterConfig, ipExtractor IPExtractor) *IPRateLimiter {
	if config.Burst < 1 {
		config.Burst = 1
	}
	if ipExtractor == nil {
		ipExtractor = &RemoteAddrExtractor{}
	}
	return &IPRateLimiter{
		config:      config,
		ipExtractor: ipExtractor,
		clients:     make(map[string]*client),
		now:         time.Now,
	}
}

// Enabled reports whether requests are limited at all.
func (l *IPRateLimiter) Enabled() bool {
	return l.config.RPS > 0
}

// Middleware rejects requests over the client's budget with 429 and a
// Retry-After header. Requests whose client IP cannot be determined pass.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	if !l.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := l.ipExtractor.ExtractIP(r)
		if err != nil {
			slog.Warn("rate limit: cannot determine client IP",
				slog.String("remote_addr", r.RemoteAddr),
				slog.Any("error", err))
			next.ServeHTTP(w, r)
			return
		}

		reservation := l.limiterFor(ip).ReserveN(l.now(), 1)
		if delay := reservation.DelayFrom(l.now()); delay > 0 {
			reservation.CancelAt(l.now())
			if l.OnReject != nil {
				l.OnReject(ip)
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
			respond.Message(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.config.RPS), l.config.Burst)}
		l.clients[ip] = c
	}
	c.lastSeen = l.now()
	return c.limiter
}

// ActiveClients returns the number of tracked client IPs.
func (l *IPRateLimiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// CleanupIdle forgets clients not seen for idle and returns how many were removed.
func (l *IPRateLimiter) CleanupIdle(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for ip, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
			removed++
		}
	}
	return removed
}

// StartCleanup runs CleanupIdle every interval until ctx is canceled.
func (l *IPRateLimiter) StartCleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped")
			return
		case <-ticker.C:
			if removed := l.CleanupIdle(idle); removed > 0 {
				slog.Debug("rate limit cleanup completed",
					slog.Int("removed", removed),
					slog.Int("active", l.ActiveClients()))
			}
		}
	}
}
