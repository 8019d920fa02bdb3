package app

// Config holds the CLI-level inputs for one App instance. Values set here
// override the host configuration file.
type Config struct {
	// ConfigPath is the optional host configuration file (HCL).
	ConfigPath string
	// ModulePath, when set, scopes discovery to a single module file.
	ModulePath string
	// AdditionalPaths are extra module files to register before discovery.
	AdditionalPaths []string
	// WellKnownOnly restricts discovery to the trusted extension set.
	WellKnownOnly bool

	LogFormat  string
	LogLevel   string
	StatusPort int
}

// NewConfig validates the CLI-level configuration.
func NewConfig(cfg Config) (*Config, error) {
	// All fields are optional: a bare invocation discovers the default
	// extension folder. Validation of log settings happens in the CLI layer.
	return &cfg, nil
}
