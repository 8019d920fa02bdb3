package extension

import (
	"context"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Kind identifies the category of functionality an extension contributes.
type Kind string

const (
	// KindDiscoverer enumerates tests inside a container format.
	KindDiscoverer Kind = "discoverer"
	// KindExecutor runs discovered tests and produces results.
	KindExecutor Kind = "executor"
	// KindSettingsProvider contributes named run-settings sections.
	KindSettingsProvider Kind = "settings_provider"
	// KindLogger receives host and test-run events.
	KindLogger Kind = "logger"
)

// Kinds returns all recognized extension kinds in stable order.
func Kinds() []Kind {
	return []Kind{KindDiscoverer, KindExecutor, KindSettingsProvider, KindLogger}
}

// Valid reports whether k names a recognized extension kind.
func (k Kind) Valid() bool {
	switch k {
	case KindDiscoverer, KindExecutor, KindSettingsProvider, KindLogger:
		return true
	}
	return false
}

// Metadata describes a single discovered extension. Identity is the (Kind, ID)
// pair; the registry never holds two entries with the same pair.
type Metadata struct {
	// Kind is the extension category.
	Kind Kind
	// ID is the extension identity, unique per kind (e.g. "io.vk.executor.default").
	ID string
	// Description is an optional human-readable summary from the manifest.
	Description string
	// Source is the module path the extension was discovered from. Built-in
	// extensions use a "builtin:" prefix instead of a file path.
	Source string
	// WellKnown marks extensions from the trusted, host-shipped set.
	WellKnown bool
	// Settings holds manifest-declared default settings as cty values.
	Settings map[string]cty.Value
}

// Builtin is implemented by extension modules compiled into the host. They
// pre-seed the registry ahead of on-disk discovery, so first-wins merging
// guarantees they cannot be shadowed by a module file claiming the same
// identity.
type Builtin interface {
	Describe() Metadata
}

// Event is a single host or test-run event routed to logger extensions.
type Event struct {
	Time    time.Time
	Level   string
	Message string
	Fields  map[string]string
}

// LogSink is the behavioral contract of a logger extension.
type LogSink interface {
	Emit(ctx context.Context, e Event) error
}

// RunRequest asks an executor extension to process one batch of tests.
type RunRequest struct {
	Module  string
	TestIDs []string
}

// RunResult summarizes an executor extension's pass over a RunRequest.
type RunResult struct {
	Passed  int
	Failed  int
	Skipped int
}

// Executor is the behavioral contract of an executor extension.
type Executor interface {
	Run(ctx context.Context, req RunRequest) (RunResult, error)
}
