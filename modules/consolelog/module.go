// Package consolelog is the host's built-in console logger extension. It
// routes test-run events to the configured slog logger.
package consolelog

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/pluginhost/internal/ctxlog"
	"github.com/vk/pluginhost/internal/extension"
)

// ID is the extension identity of the console logger.
const ID = "io.vk.logger.console"

// Module implements extension.Builtin and extension.LogSink.
type Module struct{}

// New creates the console logger extension.
func New() *Module {
	return &Module{}
}

// Describe implements extension.Builtin.
func (m *Module) Describe() extension.Metadata {
	return extension.Metadata{
		Kind:        extension.KindLogger,
		ID:          ID,
		Description: "Writes host and test-run events to the console logger.",
		Source:      "builtin:consolelog",
		WellKnown:   true,
		Settings: map[string]cty.Value{
			"min_level": cty.StringVal("info"),
		},
	}
}

// Emit implements extension.LogSink.
func (m *Module) Emit(ctx context.Context, e extension.Event) error {
	logger := ctxlog.FromContext(ctx).With("source", ID)

	args := make([]any, 0, 2*len(e.Fields))
	for k, v := range e.Fields {
		args = append(args, k, v)
	}

	switch e.Level {
	case "debug":
		logger.Debug(e.Message, args...)
	case "warn":
		logger.Warn(e.Message, args...)
	case "error":
		logger.Error(e.Message, args...)
	default:
		logger.Info(e.Message, args...)
	}
	return nil
}
