package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPExtractor extracts the client IP address from an HTTP request.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor uses the TCP peer address. It cannot be spoofed by the
// client and is the default when no proxies are trusted.
type RemoteAddrExtractor struct{}

// ExtractIP strips the port from r.RemoteAddr.
//
// Examples:
//   - "192.168.1.1:54321" → "192.168.1.1"
//   - "[2001:db8::1]:8080" → "2001:db8::1"
//   - "127.0.0.1" → "127.0.0.1"
func (e *RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	return extractIPFromAddr(r.RemoteAddr)
}

// ParseTrustedProxies parses IPs or CIDRs. A bare IP becomes a /32 or /128
// prefix. Any invalid entry fails the whole list.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			addr, ipErr := netip.ParseAddr(entry)
			if ipErr != nil {
				return nil, fmt.Errorf("invalid IP or CIDR format '%s': must be valid IP address or CIDR notation (e.g., '192.168.1.1' or '10.0.0.0/8')", entry)
			}
			prefix = netip.PrefixFrom(addr, addr.BitLen())
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return prefixes, nil
}

// TrustedProxyExtractor honors X-Forwarded-For and X-Real-IP only when the
// peer is one of the trusted proxies. Otherwise the headers are ignored so a
// client cannot rotate its apparent address to dodge the rate limit.
type TrustedProxyExtractor struct {
	trusted []netip.Prefix
}

// NewTrustedProxyExtractor returns an extractor trusting the given prefixes.
func NewTrustedProxyExtractor(trusted []netip.Prefix) *TrustedProxyExtractor {
	return &TrustedProxyExtractor{trusted: trusted}
}

// NewIPExtractor returns a RemoteAddrExtractor when nothing is trusted.
func NewIPExtractor(trusted []netip.Prefix) IPExtractor {
	if len(trusted) == 0 {
		return &RemoteAddrExtractor{}
	}
	return NewTrustedProxyExtractor(trusted)
}

// ExtractIP checks, in order, X-Forwarded-For (first entry), X-Real-IP and
// RemoteAddr. Headers are consulted only for trusted peers.
func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	if !e.isTrusted(r.RemoteAddr) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			slog.Warn("untrusted proxy attempting to set X-Forwarded-For",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff),
			)
		}
		return extractIPFromAddr(r.RemoteAddr)
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip, nil
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if addr, err := netip.ParseAddr(strings.TrimSpace(xri)); err == nil {
			return addr.String(), nil
		}
	}

	return extractIPFromAddr(r.RemoteAddr)
}

func (e *TrustedProxyExtractor) isTrusted(remoteAddr string) bool {
	ip, err := extractIPFromAddr(remoteAddr)
	if err != nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range e.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// extractIPFromAddr accepts "host:port" or a bare IP.
func extractIPFromAddr(addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		if ip, parseErr := netip.ParseAddr(addr); parseErr == nil {
			return ip.String(), nil
		}
		return "", fmt.Errorf("invalid address format: %s", addr)
	}
	return host, nil
}

// parseFirstIP returns the first entry of "client, proxy1, proxy2" when it is
// a valid IP.
func parseFirstIP(s string) string {
	first, _, _ := strings.Cut(s, ",")
	addr, err := netip.ParseAddr(strings.TrimSpace(first))
	if err != nil {
		return ""
	}
	return addr.String()
}
