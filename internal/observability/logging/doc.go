// Package logging builds the service's log/slog loggers and carries a
// request-scoped logger through context.
//
// Example usage:
//
//	logger := logging.NewLogger(os.Stdout)
//	slog.SetDefault(logger)
//
//	func (s *Service) HandleFetch(ctx context.Context, req Request) {
//	    logging.FromContext(ctx).Info("fetch started")
//	}
package logging
