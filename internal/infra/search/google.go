// Package search implements the pass-through client for the upstream web
// search API (Google Programmable Search / Custom Search JSON API).
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"safefetch/internal/resilience/circuitbreaker"
	searchuc "safefetch/internal/usecase/search"

	"github.com/sony/gobreaker"
)

// DefaultBaseURL is the Custom Search JSON API endpoint.
const DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// errServerStatus marks upstream 5xx responses as breaker failures. The
// response itself is still passed through.
var errServerStatus = errors.New("upstream server error")

// Config holds the search client settings.
type Config struct {
	BaseURL  string
	APIKey   string
	EngineID string
	Timeout  time.Duration
	// RPS and Burst bound outbound queries. RPS <= 0 disables limiting.
	RPS   float64
	Burst int
}

// Client forwards queries to the search API and returns its JSON verbatim.
//
// Thread safety: Client is safe for concurrent use.
type Client struct {
	cfg            Config
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	limiter        *RateLimiter
}

// NewClient creates a search client. An empty BaseURL selects DefaultBaseURL.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:            cfg,
		client:         httpClient,
		circuitBreaker: circuitbreaker.New(circuitbreaker.SearchAPIConfig()),
		limiter:        NewRateLimiter(cfg.RPS, cfg.Burst),
	}
}

// Configured reports whether both the API key and the engine id are set.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.EngineID != ""
}

// BreakerState returns the circuit breaker state (closed, half-open or open).
func (c *Client) BreakerState() string {
	return c.circuitBreaker.State().String()
}

// Search runs query against the upstream API. Any HTTP response, including
// 4xx and 5xx, is returned as a Result; only transport failures are errors.
func (c *Client) Search(ctx context.Context, query string) (*searchuc.Result, error) {
	if err := c.limiter.Allow(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	out, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doSearch(ctx, query)
	})
	if errors.Is(err, errServerStatus) {
		return out.(*searchuc.Result), nil
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.Warn("search circuit breaker open, request rejected",
				slog.String("service", "search-api"),
				slog.String("state", c.circuitBreaker.State().String()))
			return nil, fmt.Errorf("%w: %v", searchuc.ErrUnavailable, err)
		}
		return nil, err
	}
	return out.(*searchuc.Result), nil
}

func (c *Client) doSearch(ctx context.Context, query string) (*searchuc.Result, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search base url: %w", err)
	}
	q := endpoint.Query()
	q.Set("key", c.cfg.APIKey)
	q.Set("cx", c.cfg.EngineID)
	q.Set("q", query)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			// url.Error repeats the request URL, which carries the API key.
			err = urlErr.Err
		}
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	result := &searchuc.Result{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return result, errServerStatus
	}
	return result, nil
}
