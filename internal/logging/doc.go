// Package logging provides structured logging for the repokit CLI using slog.
//
// Text output is rendered by [Handler], a TTY-aware handler that colorizes
// levels when the writer is a terminal and redacts values that look like
// secrets (tokens, API keys, backup passwords). JSON output uses the
// standard library handler and is also used for --log-file.
//
// Commands receive their logger through the context:
//
//	ctx = logging.NewContext(ctx, logger)
//	...
//	logging.FromContext(ctx).Info("backup created", "path", archive)
//
// For tests, use [ForTest] to route log output through t.Log.
package logging
