package app

import (
	"context"
	"fmt"

	"github.com/vk/pluginhost/internal/ctxlog"
	"github.com/vk/pluginhost/internal/extension"
)

// Run executes one discovery cycle based on the provided configuration and
// renders the discovered extensions to the output writer.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.model.StatusPort > 0 {
		go a.startStatusServer(a.model.StatusPort)
	}

	var (
		reg *extension.Registry
		err error
	)
	if appConfig.ModulePath != "" {
		a.logger.Info("Discovering extensions for a single module.", "module", appConfig.ModulePath)
		reg, err = a.cache.DiscoverForModule(ctx, appConfig.ModulePath)
	} else {
		a.logger.Info("Discovering all extensions.")
		reg, err = a.cache.DiscoverAll(ctx)
	}
	if err != nil {
		// The cache already logged the failure with context; the original
		// error reaches the CLI unmodified.
		return err
	}

	a.renderRegistry(reg)
	a.logger.Debug("App.Run method finished.")
	return nil
}

// renderRegistry prints the discovered extensions grouped by kind.
func (a *App) renderRegistry(reg *extension.Registry) {
	fmt.Fprintf(a.outW, "Discovered %d extension(s)\n", reg.Count())
	for _, kind := range extension.Kinds() {
		entries := reg.ByKind(kind)
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(a.outW, "\n%s:\n", kind)
		for _, m := range entries {
			marker := ""
			if m.WellKnown {
				marker = " [well-known]"
			}
			fmt.Fprintf(a.outW, "  %s%s\n", m.ID, marker)
			fmt.Fprintf(a.outW, "      source: %s\n", m.Source)
			if m.Description != "" {
				fmt.Fprintf(a.outW, "      %s\n", m.Description)
			}
		}
	}
}
