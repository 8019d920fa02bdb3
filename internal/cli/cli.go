package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/pluginhost/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pluginhost", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
PluginHost - An extension discovery and module resolution host.

Usage:
  pluginhost [options] [MODULE_PATH]

Arguments:
  MODULE_PATH
    Path to a single extension module. When given, only extensions
    declared by that module are discovered and printed.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the host configuration file.")
	moduleFlag := flagSet.String("module", "", "Path to a single extension module to discover.")
	pathsFlag := flagSet.String("paths", "", "Comma-separated list of additional extension module paths.")
	wellKnownFlag := flagSet.Bool("well-known-only", false, "Restrict discovery to well-known extensions.")
	statusPortFlag := flagSet.Int("status-port", 0, "Port for the HTTP status server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	modulePath := *moduleFlag
	if modulePath == "" && flagSet.NArg() > 0 {
		modulePath = flagSet.Arg(0)
	}
	slog.Debug("Module path determined.", "path", modulePath)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "" && logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPath:      *configFlag,
		ModulePath:      modulePath,
		AdditionalPaths: splitPaths(*pathsFlag),
		WellKnownOnly:   *wellKnownFlag,
		StatusPort:      *statusPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// splitPaths breaks a comma-separated flag value into individual paths,
// dropping empty segments.
func splitPaths(value string) []string {
	if value == "" {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(value, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
