package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "safefetch/docs" // swagger docs
	"safefetch/internal/app"
	hhttp "safefetch/internal/handler/http"
	hfetch "safefetch/internal/handler/http/fetch"
	"safefetch/internal/handler/http/middleware"
	"safefetch/internal/handler/http/requestid"
	hsearch "safefetch/internal/handler/http/search"
	"safefetch/internal/observability/logging"
	"safefetch/internal/observability/tracing"
)

// @title           SafeFetch API
// @version         1.0
// @description     Outbound content-fetch proxy. Validates target URLs against a
// @description     network policy, fetches them once and returns reduced HTML,
// @description     visible text or Markdown with page metadata.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

const (
	// requestTimeout bounds a whole request, above the per-fetch timeout.
	requestTimeout = 30 * time.Second

	rateLimitCleanupInterval = time.Minute
	rateLimitIdleTTL         = 10 * time.Minute
)

func main() {
	logger := initLogger()
	app.LoadDotEnv(logger)

	components, err := app.Build(app.Options{Metrics: true})
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := tracing.Init()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	version := getVersion()
	limiter, err := newRateLimiter(logger, components)
	if err != nil {
		logger.Error("failed to configure rate limiting", slog.Any("error", err))
		os.Exit(1)
	}

	handler := applyMiddleware(logger, setupRoutes(components, limiter, version))
	runServer(logger, components.Config.HTTPAddr, handler, limiter, version)
}

// initLogger initializes the structured logger from LOG_LEVEL and LOG_FORMAT.
func initLogger() *slog.Logger {
	logger := logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// newRateLimiter builds the per-client limiter for /api/*.
func newRateLimiter(logger *slog.Logger, c *app.Components) (*middleware.IPRateLimiter, error) {
	trusted, err := middleware.ParseTrustedProxies(c.Config.RateLimit.TrustedProxies)
	if err != nil {
		return nil, err
	}
	if len(trusted) > 0 {
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(trusted)))
	} else {
		logger.Info("rate limiting: using RemoteAddr (proxy headers ignored)")
	}

	limiter := middleware.NewIPRateLimiter(middleware.IPRateLimiterConfig{
		RPS:   c.Config.RateLimit.RPS,
		Burst: c.Config.RateLimit.Burst,
	}, middleware.NewIPExtractor(trusted))
	limiter.OnReject = hhttp.RecordRateLimited

	if limiter.Enabled() {
		logger.Info("rate limiting initialized",
			slog.Float64("rps", c.Config.RateLimit.RPS),
			slog.Int("burst", c.Config.RateLimit.Burst))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}
	return limiter, nil
}

// setupRoutes registers the API and operational endpoints.
func setupRoutes(c *app.Components, limiter *middleware.IPRateLimiter, version string) *http.ServeMux {
	mux := http.NewServeMux()

	hfetch.Register(mux, c.Fetch, limiter.Middleware)
	hsearch.Register(mux, c.Search, limiter.Middleware)

	mux.Handle("GET /health", &hhttp.HealthHandler{
		Version:     version,
		Policy:      c.Policy,
		Search:      c.SearchClient,
		RateLimiter: limiter,
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Policy: c.Policy})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID → Tracing → Recovery → Logging → Input Validation → Metrics → Timeout
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	return hhttp.Chain(handler,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.InputValidation(),
		hhttp.MetricsMiddleware,
		hhttp.Timeout(requestTimeout),
	)
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, addr string, handler http.Handler, limiter *middleware.IPRateLimiter, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if limiter.Enabled() {
		go limiter.StartCleanup(ctx, rateLimitCleanupInterval, rateLimitIdleTTL)
		logger.Info("rate limit cleanup started",
			slog.Duration("interval", rateLimitCleanupInterval),
			slog.Duration("idle_ttl", rateLimitIdleTTL))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
