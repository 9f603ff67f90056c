package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(rps float64, burst int) (*IPRateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewIPRateLimiter(IPRateLimiterConfig{RPS: rps, Burst: burst}, &RemoteAddrExtractor{})
	l.now = clock.Now
	return l, clock
}

func serve(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/fetch?url=https://example.com", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestIPRateLimiter_BurstThenReject(t *testing.T) {
	l, _ := newTestLimiter(1, 3)
	var rejected []string
	l.OnReject = func(ip string) { rejected = append(rejected, ip) }
	h := l.Middleware(okHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(h, "198.51.100.1:1000").Code, "request %d", i)
	}

	rec := serve(h, "198.51.100.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded", body["error"])
	assert.Equal(t, []string{"198.51.100.1"}, rejected)
}

func TestIPRateLimiter_PerClientBuckets(t *testing.T) {
	l, _ := newTestLimiter(1, 1)
	h := l.Middleware(okHandler)

	assert.Equal(t, http.StatusOK, serve(h, "198.51.100.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, "198.51.100.1:1001").Code)
	assert.Equal(t, http.StatusOK, serve(h, "198.51.100.2:1000").Code)
	assert.Equal(t, 2, l.ActiveClients())
}

func TestIPRateLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(2, 1)
	h := l.Middleware(okHandler)

	assert.Equal(t, http.StatusOK, serve(h, "198.51.100.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, "198.51.100.1:1000").Code)

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, http.StatusOK, serve(h, "198.51.100.1:1000").Code)
}

func TestIPRateLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(0, 1)
	assert.False(t, l.Enabled())
	h := l.Middleware(okHandler)

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, serve(h, "198.51.100.1:1000").Code)
	}
	assert.Equal(t, 0, l.ActiveClients())
}

func TestIPRateLimiter_UnknownClientPasses(t *testing.T) {
	l, _ := newTestLimiter(1, 1)
	h := l.Middleware(okHandler)

	assert.Equal(t, http.StatusOK, serve(h, "garbage").Code)
	assert.Equal(t, http.StatusOK, serve(h, "garbage").Code)
}

func TestIPRateLimiter_CleanupIdle(t *testing.T) {
	l, clock := newTestLimiter(1, 1)
	h := l.Middleware(okHandler)

	serve(h, "198.51.100.1:1000")
	clock.Advance(10 * time.Minute)
	serve(h, "198.51.100.2:1000")

	assert.Equal(t, 1, l.CleanupIdle(5*time.Minute))
	assert.Equal(t, 1, l.ActiveClients())
}
