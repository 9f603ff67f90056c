package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"safefetch/internal/domain/entity"
	"safefetch/internal/observability/logging"
	"safefetch/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultTimeout bounds a single upstream fetch when Service.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// MetricsRecorder receives fetch outcomes. Implementations must be safe for
// concurrent use.
type MetricsRecorder interface {
	RecordOutcome(outcome string)
	RecordRejection(reason string)
	RecordUpstream(status int, duration time.Duration)
	RecordContentSize(size int)
}

type noopMetrics struct{}

func (noopMetrics) RecordOutcome(string)              {}
func (noopMetrics) RecordRejection(string)            {}
func (noopMetrics) RecordUpstream(int, time.Duration) {}
func (noopMetrics) RecordContentSize(int)             {}

// Request is a single fetch request.
type Request struct {
	URL                string
	TextOnly           bool
	ExtractMainContent bool
	Markdown           bool
}

// Service composes validation, fetching and reduction.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	Validator URLValidator
	Fetcher   ContentFetcher
	Reducer   Reducer
	Timeout   time.Duration
	Metrics   MetricsRecorder
}

// NewService creates a fetch Service. A zero timeout selects DefaultTimeout and
// a nil metrics recorder disables metrics.
//
// Example:
//
//	validator := fetcher.NewURLValidator(netpolicy.Default(), nil, 5*time.Second)
//	svc := fetch.NewService(validator, fetcher.NewHTTPFetcher(cfg), reducer.New(), 10*time.Second, nil)
//	result, err := svc.HandleFetch(ctx, fetch.Request{URL: "https://example.com"})
func NewService(
	validator URLValidator,
	contentFetcher ContentFetcher,
	reducer Reducer,
	timeout time.Duration,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		Validator: validator,
		Fetcher:   contentFetcher,
		Reducer:   reducer,
		Timeout:   timeout,
		Metrics:   metrics,
	}
}

// HandleFetch validates req.URL, fetches it and reduces the body.
//
// On failure the returned error is always a *Failure:
//   - 400 for validation failures, before any network I/O to the target
//   - the upstream status for non-2xx responses
//   - 500 "Failed to fetch content: ..." for timeouts and transport errors
//   - 500 "An error occurred: ..." for anything else, including panics
func (s *Service) HandleFetch(ctx context.Context, req Request) (result *entity.FetchResult, err error) {
	ctx, span := tracing.GetTracer().Start(ctx, "fetch.HandleFetch")
	defer span.End()

	logger := logging.FromContext(ctx)
	metrics := s.metrics()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("fetch panicked", slog.Any("panic", r))
			result = nil
			err = unexpected(fmt.Errorf("%v", r))
		}
		if err != nil {
			f, _ := AsFailure(err)
			span.SetStatus(codes.Error, f.Message)
			span.SetAttributes(attribute.Int("fetch.status_code", f.StatusCode))
			metrics.RecordOutcome(string(f.Kind))
			return
		}
		metrics.RecordOutcome("success")
		logger.Info("fetch completed",
			slog.String("url", result.URL),
			slog.String("content_type", result.ContentType),
			slog.Int("content_length", len(result.Content)),
			slog.Duration("duration", time.Since(start)))
	}()

	validation := s.Validator.Validate(ctx, req.URL)
	if !validation.Valid {
		metrics.RecordRejection(string(validation.Reason))
		logger.Warn("fetch rejected",
			slog.String("reason", string(validation.Reason)),
			slog.String("message", validation.ErrorMessage))
		return nil, rejected(validation)
	}
	target := validation.URL.String()
	span.SetAttributes(attribute.String("fetch.url", target))

	fetchStart := time.Now()
	resp, err := s.Fetcher.Fetch(ctx, validation, s.timeout())
	if err != nil {
		var statusErr *UpstreamStatusError
		if errors.As(err, &statusErr) {
			metrics.RecordUpstream(statusErr.StatusCode, time.Since(fetchStart))
			logger.Warn("upstream returned error status",
				slog.String("url", target),
				slog.Int("status", statusErr.StatusCode))
			return nil, &Failure{
				Kind:       KindUpstream,
				StatusCode: statusErr.StatusCode,
				Message:    statusErr.Error(),
				Err:        err,
			}
		}
		metrics.RecordUpstream(0, time.Since(fetchStart))
		if errors.Is(err, ErrTimeout) || errors.Is(err, ErrTransport) {
			logger.Warn("upstream fetch failed", slog.String("url", target), slog.Any("error", err))
			return nil, &Failure{
				Kind:       KindTransport,
				StatusCode: http.StatusInternalServerError,
				Message:    "Failed to fetch content: " + err.Error(),
				Err:        err,
			}
		}
		logger.Error("fetch failed unexpectedly", slog.String("url", target), slog.Any("error", err))
		return nil, unexpected(err)
	}
	metrics.RecordUpstream(resp.StatusCode, time.Since(fetchStart))

	reduction, err := s.Reducer.Reduce(resp.Body, resp.ContentType(), ReduceOptions{
		TextOnly:           req.TextOnly,
		ExtractMainContent: req.ExtractMainContent,
		Markdown:           req.Markdown,
		PageURL:            validation.URL,
	})
	if err != nil {
		logger.Error("reduce failed", slog.String("url", target), slog.Any("error", err))
		return nil, unexpected(err)
	}
	metrics.RecordContentSize(len(reduction.Content))

	keywords := reduction.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return &entity.FetchResult{
		URL:         target,
		StatusCode:  http.StatusOK,
		ContentType: resp.ContentType(),
		Title:       reduction.Title,
		Description: reduction.Description,
		Keywords:    keywords,
		Content:     reduction.Content,
		MainContent: reduction.MainContent,
	}, nil
}

func (s *Service) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}

func (s *Service) metrics() MetricsRecorder {
	if s.Metrics == nil {
		return noopMetrics{}
	}
	return s.Metrics
}

func rejected(v entity.URLValidation) *Failure {
	kind := KindPolicy
	if v.Reason.IsInputError() {
		kind = KindInput
	}
	return &Failure{
		Kind:       kind,
		StatusCode: http.StatusBadRequest,
		Message:    v.ErrorMessage,
	}
}

func unexpected(err error) *Failure {
	return &Failure{
		Kind:       KindUnexpected,
		StatusCode: http.StatusInternalServerError,
		Message:    "An error occurred: " + err.Error(),
		Err:        err,
	}
}
