package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"safefetch/internal/domain/entity"
)

// URLValidator decides whether a caller-supplied URL may be fetched.
// Implementations resolve the host and return the resolved addresses with the
// validation so the fetcher can connect to exactly those addresses.
type URLValidator interface {
	Validate(ctx context.Context, rawURL string) entity.URLValidation
}

// ContentFetcher performs the single outbound GET for a validated URL.
//
// Implementations must:
//   - refuse targets whose validation is not Valid (ErrNotValidated)
//   - not follow redirects; a 3xx is returned as an UpstreamStatusError
//   - enforce the given timeout over connect, headers and body read
//   - return the full body only for 2xx responses
//
// Errors:
//   - ErrTimeout: the deadline elapsed before the body was read
//   - ErrTransport: DNS, connect, TLS or read failure
//   - *UpstreamStatusError: the target answered with a non-2xx status
type ContentFetcher interface {
	Fetch(ctx context.Context, target entity.URLValidation, timeout time.Duration) (*Response, error)
}

// Response is a successful upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ContentType returns the upstream Content-Type header verbatim.
func (r *Response) ContentType() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get("Content-Type")
}

// ReduceOptions controls what the Reducer produces.
type ReduceOptions struct {
	// TextOnly returns visible text instead of cleaned HTML.
	TextOnly bool
	// ExtractMainContent fills Reduction.MainContent.
	ExtractMainContent bool
	// Markdown renders the cleaned HTML as Markdown. Ignored when TextOnly is set.
	Markdown bool
	// PageURL is the fetched URL, used to resolve relative links.
	PageURL *url.URL
}

// Reduction is the outcome of reducing an HTML document.
type Reduction struct {
	Content     string
	Title       string
	Description string
	Keywords    []string
	MainContent string
}

// Reducer turns raw HTML into cleaned content and metadata.
type Reducer interface {
	Reduce(body []byte, contentType string, opts ReduceOptions) (*Reduction, error)
}

// Sentinel errors for content fetching operations.
var (
	// ErrTimeout indicates the upstream request did not complete within the
	// fetch timeout. It is reported as a 500 with "Failed to fetch content:".
	ErrTimeout = errors.New("request timed out")

	// ErrTransport indicates a network failure talking to the upstream host:
	// DNS failure at dial time, connection refused, TLS handshake failure or
	// a truncated body.
	ErrTransport = errors.New("transport error")

	// ErrNotValidated indicates Fetch was called with a target that did not
	// pass validation. Callers must validate before fetching.
	ErrNotValidated = errors.New("target URL has not been validated")
)

// UpstreamStatusError reports a non-2xx upstream response. The proxy mirrors
// StatusCode back to its own caller.
type UpstreamStatusError struct {
	StatusCode int
	StatusText string
}

func (e *UpstreamStatusError) Error() string {
	return "Failed to fetch content: " + e.StatusText
}

// NewUpstreamStatusError builds an UpstreamStatusError with the canonical
// status text for code.
func NewUpstreamStatusError(code int) *UpstreamStatusError {
	return &UpstreamStatusError{StatusCode: code, StatusText: StatusText(code)}
}

// StatusText returns the HTTP reason phrase for code with spaces removed,
// e.g. 404 -> "NotFound". Unknown codes render as the decimal number.
func StatusText(code int) string {
	text := strings.ReplaceAll(http.StatusText(code), " ", "")
	if text == "" {
		return strconv.Itoa(code)
	}
	return text
}
