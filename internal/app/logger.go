package app

import (
	"io"
	"log/slog"

	"github.com/vk/pluginhost/internal/config"
)

// newLogger builds the host logger from the merged configuration. It never
// touches the process default logger, so App instances stay isolated.
func newLogger(model *config.Model, outW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch model.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if model.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
