package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/pluginhost/internal/cache"
	"github.com/vk/pluginhost/internal/config"
	"github.com/vk/pluginhost/internal/ctxlog"
	"github.com/vk/pluginhost/internal/discovery"
	"github.com/vk/pluginhost/internal/extension"
	"github.com/vk/pluginhost/internal/fsutil"
	"github.com/vk/pluginhost/internal/modload"
)

// App encapsulates the host's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cache  *cache.Cache
	model  *config.Model
}

// NewApp is the constructor for the host application. It returns a fully
// initialized App with its own isolated logger and a seeded plugin cache.
// Built-in modules default to coreBuiltins when none are supplied.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, builtins ...extension.Builtin) *App {
	// The host configuration decides the logger settings, so it loads first.
	// The loader logs against the process default logger until then.
	model, err := loader.Load(context.Background(), appConfig.ConfigPath)
	if err != nil {
		// A failure to load the host configuration is a fatal startup error.
		panic(fmt.Errorf("failed to load host configuration: %w", err))
	}
	mergeOverrides(model, appConfig)

	logger := newLogger(model, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Host configuration loaded, logger configured.")

	c := cache.New(
		discovery.NewManifestDiscoverer(),
		modload.NewFileLoader(),
		modload.ProcessHook(),
		fsutil.NewOSFilesystem(),
		model.ExtensionsDir,
	)

	if len(builtins) == 0 {
		builtins = coreBuiltins
	}
	seed := extension.NewRegistry()
	for _, b := range builtins {
		seed.Add(b.Describe())
	}
	c.Seed(seed)
	logger.Debug("Built-in extensions seeded.", "count", seed.Count())

	if len(model.AdditionalPaths) > 0 || model.WellKnownOnly {
		c.RegisterAdditionalSearchPaths(ctx, model.AdditionalPaths, model.WellKnownOnly)
	}

	return &App{
		outW:   outW,
		logger: logger,
		cache:  c,
		model:  model,
	}
}

// Cache returns the application's plugin cache. This is primarily for testing.
func (a *App) Cache() *cache.Cache {
	return a.cache
}

// mergeOverrides applies CLI-level settings on top of the loaded model.
// Flags win over the configuration file.
func mergeOverrides(model *config.Model, appConfig *Config) {
	if len(appConfig.AdditionalPaths) > 0 {
		// CLI paths take search precedence over configured ones.
		model.AdditionalPaths = append(append([]string{}, appConfig.AdditionalPaths...), model.AdditionalPaths...)
	}
	if appConfig.WellKnownOnly {
		model.WellKnownOnly = true
	}
	if appConfig.LogFormat != "" {
		model.LogFormat = appConfig.LogFormat
	}
	if appConfig.LogLevel != "" {
		model.LogLevel = appConfig.LogLevel
	}
	if appConfig.StatusPort > 0 {
		model.StatusPort = appConfig.StatusPort
	}
}
