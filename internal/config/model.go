package config

import "github.com/zclconf/go-cty/cty"

// Model is the unified representation of the host configuration file.
type Model struct {
	// ExtensionsDir overrides the well-known extensions folder. Empty means
	// the "extensions" folder next to the host executable.
	ExtensionsDir string
	// AdditionalPaths are extension module files registered at startup, in
	// declaration order.
	AdditionalPaths []string
	// WellKnownOnly restricts discovery to the trusted extension set.
	WellKnownOnly bool
	// LogFormat is "text" or "json".
	LogFormat string
	// LogLevel is "debug", "info", "warn" or "error".
	LogLevel string
	// StatusPort enables the HTTP status endpoint when positive.
	StatusPort int
}

// Default returns the model used when no configuration file is given.
func Default() *Model {
	return &Model{
		LogFormat: "text",
		LogLevel:  "info",
	}
}

// Manifest is the format-agnostic representation of one module's extension
// manifest: the sidecar file describing what a binary module contributes.
type Manifest struct {
	// Module is the manifest's declared module name.
	Module string
	// Extensions are the declared extension entries in file order.
	Extensions []*ExtensionDefinition
}

// ExtensionDefinition is one `extension` block of a manifest.
type ExtensionDefinition struct {
	// Kind is the declared extension kind label.
	Kind string
	// ID is the declared extension identity label.
	ID string
	// Description is an optional human-readable summary.
	Description string
	// WellKnown marks the entry as part of the trusted set.
	WellKnown bool
	// Settings holds declared default settings as evaluated cty values.
	Settings map[string]cty.Value
}
