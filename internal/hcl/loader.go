package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/pluginhost/internal/config"
	"github.com/vk/pluginhost/internal/ctxlog"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates the HCL host-configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// hostSchema mirrors the attributes of the host configuration file.
type hostSchema struct {
	ExtensionsDir   string   `hcl:"extensions_dir,optional"`
	AdditionalPaths []string `hcl:"additional_paths,optional"`
	WellKnownOnly   bool     `hcl:"well_known_only,optional"`
	LogFormat       string   `hcl:"log_format,optional"`
	LogLevel        string   `hcl:"log_level,optional"`
	StatusPort      int      `hcl:"status_port,optional"`
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	if path == "" {
		logger.Debug("No host configuration file given, using defaults.")
		return config.Default(), nil
	}
	logger.Debug("Loading host configuration.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse host configuration %s: %w", path, diags)
	}

	schema := &hostSchema{}
	if diags := gohcl.DecodeBody(file.Body, nil, schema); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode host configuration %s: %w", path, diags)
	}

	model := config.Default()
	model.ExtensionsDir = schema.ExtensionsDir
	model.AdditionalPaths = schema.AdditionalPaths
	model.WellKnownOnly = schema.WellKnownOnly
	model.StatusPort = schema.StatusPort
	if schema.LogFormat != "" {
		model.LogFormat = schema.LogFormat
	}
	if schema.LogLevel != "" {
		model.LogLevel = schema.LogLevel
	}

	logger.Debug("Host configuration loaded.", "additional_paths", len(model.AdditionalPaths), "well_known_only", model.WellKnownOnly)
	return model, nil
}
