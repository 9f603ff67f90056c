// Package fetcher provides the SSRF-guarded outbound HTTP path of the proxy:
// URL validation against the network policy and the content fetch itself.
package fetcher

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"time"

	"safefetch/internal/domain/entity"
	"safefetch/pkg/security/netpolicy"
)

// Resolver resolves a host name to IP addresses. *net.Resolver satisfies it.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// URLValidator checks a caller-supplied URL against the network policy before
// any request is made to it.
//
// Thread safety: URLValidator is safe for concurrent use.
type URLValidator struct {
	policy     *netpolicy.Policy
	resolver   Resolver
	dnsTimeout time.Duration
}

// NewURLValidator creates a validator. A nil resolver selects net.DefaultResolver;
// a non-positive dnsTimeout leaves the lookup bounded only by the caller's context.
func NewURLValidator(policy *netpolicy.Policy, resolver Resolver, dnsTimeout time.Duration) *URLValidator {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &URLValidator{
		policy:     policy,
		resolver:   resolver,
		dnsTimeout: dnsTimeout,
	}
}

// Validate validates a URL for security before making an HTTP request.
// This function prevents Server-Side Request Forgery (SSRF) attacks by:
//   - Requiring an absolute http/https URL
//   - Rejecting ports used by remote-administration and datastore services
//   - Resolving DNS and rejecting hosts with any private, loopback or link-local address
//
// Every gate short-circuits; the first failure is returned. The DNS lookup is
// the only blocking step and honours ctx.
//
// Example:
//
//	res := validator.Validate(ctx, "https://example.com/article")
//	if !res.Valid {
//	    // res.ErrorMessage explains the rejection
//	}
func (v *URLValidator) Validate(ctx context.Context, rawURL string) entity.URLValidation {
	if strings.TrimSpace(rawURL) == "" {
		return entity.Invalid(entity.RejectMissing, "URL is required.")
	}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return entity.Invalid(entity.RejectMalformed, "Invalid URL: "+parseDetail(err))
	}
	if !u.IsAbs() {
		return entity.Invalid(entity.RejectMalformed, "Invalid URL: URL must be absolute")
	}

	if !v.policy.IsSchemeAllowed(u.Scheme) {
		return entity.Invalid(entity.RejectScheme,
			fmt.Sprintf("URL scheme '%s' is not allowed. Only http and https are permitted.", u.Scheme))
	}

	host := u.Hostname()
	if host == "" {
		return entity.Invalid(entity.RejectMalformed, "Invalid URL: missing host")
	}

	port, err := effectivePort(u)
	if err != nil {
		return entity.Invalid(entity.RejectMalformed, "Invalid URL: "+err.Error())
	}
	if v.policy.IsPortBlocked(port) {
		return entity.Invalid(entity.RejectPort, fmt.Sprintf("Access to port %d is not allowed.", port))
	}

	addrs, err := v.resolve(ctx, host)
	if err != nil || len(addrs) == 0 {
		return entity.Invalid(entity.RejectUnresolvable, "Unable to resolve hostname: "+host)
	}

	// Any blocked address rejects the host, not only the first one.
	for _, addr := range addrs {
		if v.policy.IsAddressBlocked(addr) {
			return entity.Invalid(entity.RejectPrivateNetwork,
				"Access to private/internal networks is not allowed.")
		}
	}

	return entity.Validated(u, addrs)
}

// resolve looks up host through the configured resolver. IP literals take the
// same path; the standard resolver answers them without a network query.
func (v *URLValidator) resolve(ctx context.Context, host string) ([]netip.Addr, error) {
	if v.dnsTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.dnsTimeout)
		defer cancel()
	}

	ipAddrs, err := v.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}

	addrs := make([]netip.Addr, 0, len(ipAddrs))
	for _, ia := range ipAddrs {
		addr, ok := netip.AddrFromSlice(ia.IP)
		if !ok {
			return nil, fmt.Errorf("resolver returned malformed address %v", ia.IP)
		}
		addrs = append(addrs, addr.Unmap())
	}
	return addrs, nil
}

// effectivePort returns the explicit port of u or the scheme default.
func effectivePort(u *url.URL) (int, error) {
	p := u.Port()
	if p == "" {
		if strings.EqualFold(u.Scheme, "https") {
			return 443, nil
		}
		return 80, nil
	}
	port, err := strconv.Atoi(p)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %q out of range", p)
	}
	return port, nil
}

// parseDetail strips the url.Error wrapper, which repeats the raw input.
func parseDetail(err error) string {
	if ue, ok := err.(*url.Error); ok && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}
