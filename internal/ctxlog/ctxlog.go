// Package ctxlog carries a slog.Logger through context.Context so that
// library code logs against the host's configured logger rather than the
// process-wide default.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// loggerKey is the key for the slog.Logger in a context.Context.
var loggerKey = key{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the slog.Logger from a context. Code paths that run
// before the host logger is configured (and tests) fall back to the default
// logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// With returns a context whose embedded logger carries the given attributes
// in addition to those already present.
func With(ctx context.Context, args ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(args...))
}
