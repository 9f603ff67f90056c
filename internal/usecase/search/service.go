// Package search implements the search pass-through use case: check the
// query and configuration, then forward to the upstream search API.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"safefetch/internal/observability/logging"
)

// Sentinel errors for search operations.
var (
	// ErrQueryRequired indicates a blank query. Reported as 400.
	ErrQueryRequired = errors.New("search query is required")

	// ErrNotConfigured indicates the API key or engine id is missing. Reported as 500.
	ErrNotConfigured = errors.New("search API key or engine id is not configured")

	// ErrUnavailable indicates the upstream is temporarily refused by the
	// circuit breaker. Reported as 503.
	ErrUnavailable = errors.New("search service unavailable")
)

// Result is the upstream response, passed through verbatim.
type Result struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Searcher forwards a query to the upstream search API.
type Searcher interface {
	Configured() bool
	Search(ctx context.Context, query string) (*Result, error)
}

// ResultRecorder receives the result label of each search.
type ResultRecorder func(result string)

// Service provides the search pass-through use case.
type Service struct {
	Searcher Searcher
	Record   ResultRecorder
}

// NewService creates a search Service. record may be nil.
func NewService(searcher Searcher, record ResultRecorder) *Service {
	return &Service{Searcher: searcher, Record: record}
}

// Search validates query and forwards it. The upstream status and body are
// returned as-is, including upstream errors.
func (s *Service) Search(ctx context.Context, query string) (*Result, error) {
	logger := logging.FromContext(ctx)

	if strings.TrimSpace(query) == "" {
		s.record("rejected")
		return nil, ErrQueryRequired
	}
	if s.Searcher == nil || !s.Searcher.Configured() {
		s.record("unconfigured")
		logger.Error("search requested but API key or engine id is missing")
		return nil, ErrNotConfigured
	}

	res, err := s.Searcher.Search(ctx, query)
	if err != nil {
		s.record("unavailable")
		logger.Warn("search failed", slog.Any("error", err))
		return nil, err
	}

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		s.record("ok")
	} else {
		s.record("upstream_error")
		logger.Warn("search upstream returned error status", slog.Int("status", res.StatusCode))
	}
	return res, nil
}

func (s *Service) record(result string) {
	if s.Record != nil {
		s.Record(result)
	}
}
