// Command mcp-fetch serves the fetch pipeline as MCP tools over stdio.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"safefetch/internal/app"
	mcphandlers "safefetch/internal/interface/mcp"
	"safefetch/internal/observability/logging"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "safefetch"
	serverVersion = "v1.0.0"
)

func main() {
	// stdout carries the MCP protocol; logs go to stderr only.
	logger := logging.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	app.LoadDotEnv(logger)
	components, err := app.Build(app.Options{})
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, &mcp.ServerOptions{
		Instructions: "Use web_fetch to read public web pages as Markdown. Use validate_url to check whether a URL is allowed before fetching.",
	})
	mcphandlers.NewHandlers(components.Fetch, components.Validator, logger).Register(server)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("server ready, waiting for requests", slog.String("name", serverName))
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}
