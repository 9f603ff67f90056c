// Package config assembles the proxy server configuration from environment
// variables and an optional YAML policy file.
package config

import (
	"fmt"
	"time"

	envconfig "safefetch/pkg/config"
)

// Config holds server-level settings. Fetch transport settings are loaded by
// the fetcher package itself (see fetcher.LoadConfigFromEnv).
type Config struct {
	// HTTPAddr is the listen address. Default: ":8080"
	HTTPAddr string

	// ReadabilityFallback fills mainContent with the readability article when
	// no main-content selector matches. Default: false
	ReadabilityFallback bool

	// PolicyFile is an optional YAML file extending the network policy.
	PolicyFile string

	RateLimit RateLimitConfig
	Search    SearchConfig
}

// RateLimitConfig controls the per-client-IP limit on /api/*.
type RateLimitConfig struct {
	// RPS is the sustained request rate per client. 0 disables limiting. Default: 5
	RPS float64
	// Burst is the bucket size per client. Default: 10
	Burst int
	// TrustedProxies lists CIDRs whose X-Forwarded-For header is honored.
	TrustedProxies []string
}

// SearchConfig holds the upstream search API settings.
type SearchConfig struct {
	APIKey   string
	EngineID string
	BaseURL  string
	// Timeout bounds one upstream search call. Default: 10s
	Timeout time.Duration
	// RPS and Burst bound outbound search calls. Default: 1 req/s, burst 5
	RPS   float64
	Burst int
}

// Load reads the configuration from the environment and, when POLICY_FILE
// is set, merges the search settings of that file underneath the environment.
//
// Environment variables:
//   - HTTP_ADDR, READABILITY_FALLBACK, POLICY_FILE
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_TRUSTED_PROXIES
//   - SEARCH_API_KEY, SEARCH_ENGINE_ID, SEARCH_BASE_URL, SEARCH_TIMEOUT,
//     SEARCH_RPS, SEARCH_BURST
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:            envconfig.GetEnvString("HTTP_ADDR", ":8080"),
		ReadabilityFallback: envconfig.GetEnvBool("READABILITY_FALLBACK", false),
		PolicyFile:          envconfig.GetEnvString("POLICY_FILE", ""),
		RateLimit: RateLimitConfig{
			RPS:            envconfig.GetEnvFloat("RATE_LIMIT_RPS", 5),
			Burst:          envconfig.GetEnvInt("RATE_LIMIT_BURST", 10),
			TrustedProxies: envconfig.GetEnvStringList("RATE_LIMIT_TRUSTED_PROXIES", nil),
		},
	}

	var fileSearch PolicyFileSearch
	if cfg.PolicyFile != "" {
		pf, err := LoadPolicyFile(cfg.PolicyFile)
		if err != nil {
			return nil, err
		}
		fileSearch = pf.Search
	}

	cfg.Search = SearchConfig{
		APIKey:   envconfig.GetEnvString("SEARCH_API_KEY", ""),
		EngineID: envconfig.GetEnvString("SEARCH_ENGINE_ID", fileSearch.EngineID),
		BaseURL:  envconfig.GetEnvString("SEARCH_BASE_URL", fileSearch.BaseURL),
		Timeout:  envconfig.GetEnvDuration("SEARCH_TIMEOUT", 10*time.Second),
		RPS:      envconfig.GetEnvFloat("SEARCH_RPS", 1),
		Burst:    envconfig.GetEnvInt("SEARCH_BURST", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness. A missing search key or engine
// id is not an error: the search endpoint reports it per request.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR cannot be empty")
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}
	if err := envconfig.ValidateDurationRange(c.Search.Timeout, time.Second, 2*time.Minute); err != nil {
		return fmt.Errorf("SEARCH_TIMEOUT: %w", err)
	}
	if c.Search.RPS < 0 {
		return fmt.Errorf("SEARCH_RPS must not be negative")
	}
	return nil
}
