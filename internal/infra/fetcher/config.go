package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultUserAgent is a mainstream desktop browser identity. Some origins
	// serve degraded or non-HTML responses to clients that look automated.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// DefaultAccept prefers HTML and XHTML with a generic fallback.
	DefaultAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// ContentFetchConfig holds the configuration for outbound content fetching.
//
// Security settings:
//   - PinResolvedAddress: Dial the addresses checked during validation instead of re-resolving
//   - DNSTimeout: Bounds the validation-time DNS lookup
//
// Behavior settings:
//   - Timeout: Bounds a single upstream GET, headers and body included
//   - UserAgent / Accept: Fixed request identity
type ContentFetchConfig struct {
	// Timeout is the maximum duration for a single HTTP request.
	// Default: 10s
	Timeout time.Duration

	// DNSTimeout is the maximum duration for resolving the target host during validation.
	// Default: 5s
	DNSTimeout time.Duration

	// UserAgent is sent on every upstream request.
	// Default: DefaultUserAgent
	UserAgent string

	// Accept is sent on every upstream request.
	// Default: DefaultAccept
	Accept string

	// PinResolvedAddress makes the transport connect to the addresses resolved
	// during validation rather than resolving the host a second time. This
	// closes the DNS-rebinding window between check and use.
	// Default: true
	PinResolvedAddress bool
}

// DefaultConfig returns the default configuration for content fetching.
//
// Example:
//
//	config := DefaultConfig()
//	config.Timeout = 5 * time.Second
//	f := NewHTTPFetcher(config)
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Timeout:            10 * time.Second,
		DNSTimeout:         5 * time.Second,
		UserAgent:          DefaultUserAgent,
		Accept:             DefaultAccept,
		PinResolvedAddress: true,
	}
}

// Validate checks if the configuration values are valid and safe.
//
// Validation rules:
//   - Timeout: 1s-120s
//   - DNSTimeout: > 0 and not longer than Timeout
//   - UserAgent, Accept: non-empty
func (c *ContentFetchConfig) Validate() error {
	if c.Timeout < time.Second || c.Timeout > 120*time.Second {
		return fmt.Errorf("timeout must be between 1s and 120s, got %v", c.Timeout)
	}

	if c.DNSTimeout <= 0 {
		return fmt.Errorf("dns timeout must be positive, got %v", c.DNSTimeout)
	}

	if c.DNSTimeout > c.Timeout {
		return fmt.Errorf("dns timeout %v must not exceed request timeout %v", c.DNSTimeout, c.Timeout)
	}

	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("user agent must not be empty")
	}

	if strings.TrimSpace(c.Accept) == "" {
		return fmt.Errorf("accept header must not be empty")
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// If a variable is not set, the default value is used.
// After loading, the configuration is validated.
//
// Environment variables:
//   - FETCH_TIMEOUT: duration string, e.g., "10s" (default: 10s)
//   - DNS_TIMEOUT: duration string (default: 5s)
//   - FETCH_USER_AGENT: string (default: DefaultUserAgent)
//   - FETCH_PIN_RESOLVED_ADDRESS: "true" or "false" (default: true)
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("DNS_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid DNS_TIMEOUT: %v (expected format: '5s')", err)
		}
		cfg.DNSTimeout = parsed
	}

	if val := os.Getenv("FETCH_USER_AGENT"); val != "" {
		cfg.UserAgent = val
	}

	if val := os.Getenv("FETCH_PIN_RESOLVED_ADDRESS"); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_PIN_RESOLVED_ADDRESS: %v", err)
		}
		cfg.PinResolvedAddress = parsed
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
