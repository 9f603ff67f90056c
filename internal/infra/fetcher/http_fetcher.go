package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"
	"time"

	"safefetch/internal/domain/entity"
	"safefetch/internal/usecase/fetch"
)

type pinnedAddrsKey struct{}

// withPinnedAddrs attaches the addresses the transport may dial for this request.
func withPinnedAddrs(ctx context.Context, addrs []netip.Addr) context.Context {
	return context.WithValue(ctx, pinnedAddrsKey{}, addrs)
}

func pinnedAddrsFrom(ctx context.Context) []netip.Addr {
	addrs, _ := ctx.Value(pinnedAddrsKey{}).([]netip.Addr)
	return addrs
}

// HTTPFetcher implements fetch.ContentFetcher with a single GET per call.
//
// Features:
//   - Redirects are returned as-is, never followed
//   - Connections go to the addresses resolved during validation (when pinning is on)
//   - No proxy from the environment, no pooled connections
//   - Timeout covers connect, headers and body
//
// Thread safety: HTTPFetcher is safe for concurrent use.
type HTTPFetcher struct {
	client *http.Client
	config ContentFetchConfig
}

// NewHTTPFetcher creates a fetcher with the given configuration.
//
// Example:
//
//	config := DefaultConfig()
//	f := NewHTTPFetcher(config)
//	resp, err := f.Fetch(ctx, validation, config.Timeout)
func NewHTTPFetcher(config ContentFetchConfig) *HTTPFetcher {
	dialer := &net.Dialer{
		Timeout:   config.Timeout,
		KeepAlive: -1,
	}

	transport := &http.Transport{
		Proxy:               nil,
		DisableKeepAlives:   true,
		TLSHandshakeTimeout: config.Timeout,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		DialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
			addrs := pinnedAddrsFrom(ctx)
			if len(addrs) == 0 {
				return dialer.DialContext(ctx, network, address)
			}
			return dialPinned(ctx, dialer, network, address, addrs)
		},
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		config: config,
	}
}

// dialPinned connects to the first reachable pinned address on the port of address.
func dialPinned(ctx context.Context, dialer *net.Dialer, network, address string, addrs []netip.Addr) (net.Conn, error) {
	_, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	var firstErr error
	for _, addr := range addrs {
		conn, err := dialer.DialContext(ctx, network, netip.AddrPortFrom(addr, uint16(port)).String())
		if err == nil {
			return conn, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil, firstErr
}

// Fetch performs one GET of target.URL. It implements fetch.ContentFetcher.
//
// Returns:
//   - *fetch.Response: status, headers and full body of a 2xx response
//   - error: fetch.ErrNotValidated, fetch.ErrTimeout, fetch.ErrTransport or
//     *fetch.UpstreamStatusError
func (f *HTTPFetcher) Fetch(ctx context.Context, target entity.URLValidation, timeout time.Duration) (*fetch.Response, error) {
	if !target.Valid || target.URL == nil {
		return nil, fetch.ErrNotValidated
	}
	if timeout <= 0 {
		timeout = f.config.Timeout
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if f.config.PinResolvedAddress {
		reqCtx = withPinnedAddrs(reqCtx, target.Addresses)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target.URL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fetch.ErrTransport, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", f.config.Accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(reqCtx, err, timeout)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("upstream returned non-2xx",
			slog.String("url", target.URL.String()),
			slog.Int("status", resp.StatusCode),
			slog.String("location", resp.Header.Get("Location")))
		return nil, fetch.NewUpstreamStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(reqCtx, err, timeout)
	}

	return &fetch.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// classify maps a client or body-read error to ErrTimeout or ErrTransport.
func classify(ctx context.Context, err error, timeout time.Duration) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: request exceeded %v", fetch.ErrTimeout, timeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", fetch.ErrTimeout, netErr)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	return fmt.Errorf("%w: %v", fetch.ErrTransport, err)
}
