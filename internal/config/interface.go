package config

import "context"

// Loader is the interface for a format-specific host configuration loader.
type Loader interface {
	// Load reads the host configuration file at path and translates it into
	// the format-agnostic model. An empty path yields the default model.
	Load(ctx context.Context, path string) (*Model, error)
}
