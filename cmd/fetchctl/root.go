package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"safefetch/internal/app"
	"safefetch/internal/observability/logging"
	fetchuc "safefetch/internal/usecase/fetch"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// errFailures is returned after the output is written when at least one URL
// was rejected or failed, so the exit status reflects it.
var errFailures = errors.New("one or more URLs failed")

// runtime is what the commands need from the wired application.
type runtime struct {
	validator fetchuc.URLValidator
	fetch interface {
		FetchAll(ctx context.Context, reqs []fetchuc.Request, concurrency int) []fetchuc.BatchItem
	}
}

type runtimeLoader func(logger *slog.Logger) (*runtime, error)

// setupFunc prepares a command run: a context carrying the logger and the
// loaded runtime.
type setupFunc func(cmd *cobra.Command) (context.Context, *runtime, error)

func loadRuntime(logger *slog.Logger) (*runtime, error) {
	app.LoadDotEnv(logger)
	c, err := app.Build(app.Options{})
	if err != nil {
		return nil, err
	}
	return &runtime{validator: c.Validator, fetch: c.Fetch}, nil
}

// newLogger renders slog records on w through the charmbracelet console handler.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	}))
}

func newRootCmd(load runtimeLoader) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "fetchctl",
		Version:       version,
		Short:         "Validate and fetch URLs through the safefetch network policy",
		Long:          "Runs the same URL validation and fetch pipeline as the safefetch API server from the command line. Output is JSON on stdout; logs go to stderr.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	var setup setupFunc = func(cmd *cobra.Command) (context.Context, *runtime, error) {
		logger := newLogger(cmd.ErrOrStderr(), verbose)
		rt, err := load(logger)
		if err != nil {
			return nil, nil, err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return logging.WithLogger(ctx, logger), rt, nil
	}

	rootCmd.AddCommand(newValidateCmd(setup), newFetchCmd(setup))
	return rootCmd
}
