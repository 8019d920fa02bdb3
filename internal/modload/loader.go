package modload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// SuffixLibrary marks a shared-library extension module.
	SuffixLibrary = ".so"
	// SuffixExecutable marks an out-of-process executable extension module.
	SuffixExecutable = ".exe"
)

// RecognizedSuffixes returns the module-file suffixes the host scans for, in
// search order.
func RecognizedSuffixes() []string {
	return []string{SuffixLibrary, SuffixExecutable}
}

// IsModuleFile reports whether path carries a recognized module-file suffix.
// Suffix comparison is case-insensitive, matching the host's path semantics.
func IsModuleFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, SuffixLibrary) || strings.HasSuffix(lower, SuffixExecutable)
}

// ModuleKind distinguishes the two loadable module forms.
type ModuleKind string

const (
	// KindLibrary is a shared-library module.
	KindLibrary ModuleKind = "library"
	// KindExecutable is an out-of-process executable module.
	KindExecutable ModuleKind = "executable"
)

// Handle represents a successfully located and validated module. Handles are
// only meaningful while the resolver session that produced them is active.
type Handle struct {
	// Path is the absolute path of the module file.
	Path string
	// Kind is the module form derived from the file suffix.
	Kind ModuleKind
}

// Loader locates and validates a module file, returning a Handle on success.
type Loader interface {
	Load(path string) (*Handle, error)
}

// FileLoader is the production Loader. It validates that the candidate exists
// as a regular file with a recognized suffix and normalizes its path.
type FileLoader struct{}

// NewFileLoader creates the OS-backed module loader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load implements Loader.
func (l *FileLoader) Load(path string) (*Handle, error) {
	if !IsModuleFile(path) {
		return nil, fmt.Errorf("not a recognized module file: %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving module path %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("loading module %s: %w", abs, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("loading module %s: is a directory", abs)
	}

	kind := KindLibrary
	if strings.HasSuffix(strings.ToLower(abs), SuffixExecutable) {
		kind = KindExecutable
	}

	return &Handle{Path: abs, Kind: kind}, nil
}
