// Package app assembles the proxy's services from configuration. The API
// server, the fetchctl CLI and the MCP server all start from Build.
package app

import (
	"fmt"
	"log/slog"

	"safefetch/internal/config"
	"safefetch/internal/infra/fetcher"
	"safefetch/internal/infra/reducer"
	"safefetch/internal/infra/search"
	"safefetch/internal/observability/metrics"
	fetchuc "safefetch/internal/usecase/fetch"
	searchuc "safefetch/internal/usecase/search"
	"safefetch/pkg/security/netpolicy"

	"github.com/joho/godotenv"
)

// Options selects optional wiring.
type Options struct {
	// Metrics records fetch and search outcomes in the Prometheus registry.
	Metrics bool
}

// Components holds the assembled services.
type Components struct {
	Config      *config.Config
	FetchConfig fetcher.ContentFetchConfig
	Policy      *netpolicy.Policy

	Validator *fetcher.URLValidator
	Fetch     *fetchuc.Service

	SearchClient *search.Client
	Search       *searchuc.Service
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadDotEnv(logger *slog.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using process environment")
	}
}

// Build loads configuration from the environment and wires every service.
func Build(opts Options) (*Components, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	policy, err := config.BuildNetworkPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("load network policy: %w", err)
	}

	var fetchMetrics fetchuc.MetricsRecorder
	var recordSearch searchuc.ResultRecorder
	if opts.Metrics {
		fetchMetrics = metrics.NewPrometheusFetchMetrics()
		recordSearch = metrics.RecordSearch
	}

	validator := fetcher.NewURLValidator(policy, nil, fetchCfg.DNSTimeout)
	fetchSvc := fetchuc.NewService(
		validator,
		fetcher.NewHTTPFetcher(fetchCfg),
		reducer.New(reducer.WithReadabilityFallback(cfg.ReadabilityFallback)),
		fetchCfg.Timeout,
		fetchMetrics,
	)

	searchClient := search.NewClient(search.Config{
		BaseURL:  cfg.Search.BaseURL,
		APIKey:   cfg.Search.APIKey,
		EngineID: cfg.Search.EngineID,
		Timeout:  cfg.Search.Timeout,
		RPS:      cfg.Search.RPS,
		Burst:    cfg.Search.Burst,
	}, nil)

	return &Components{
		Config:       cfg,
		FetchConfig:  fetchCfg,
		Policy:       policy,
		Validator:    validator,
		Fetch:        fetchSvc,
		SearchClient: searchClient,
		Search:       searchuc.NewService(searchClient, recordSearch),
	}, nil
}
