// Package logging provides structured logging for the stats admin server.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON, text and console output
//   - Context-aware records carrying request and trace identifiers
//   - A log level that can be changed while the server runs
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "stats rendered", "stats", 42)  // includes request_id
//
// Components that log through slog.Default pick up the context fields as
// long as they use the *Context variants.
package logging
