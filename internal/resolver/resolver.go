package resolver

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/vk/pluginhost/internal/modload"
)

type outcomeState int

const (
	statePending outcomeState = iota
	stateResolved
	stateFailed
)

// outcome is the memoized result of one dependency-name lookup. An outcome
// transitions pending -> resolved or pending -> failed exactly once per
// discovery pass.
type outcome struct {
	state  outcomeState
	handle *modload.Handle
}

// Resolver holds the additional search directories for one plugin cache and
// the per-pass outcome cache. It is created lazily on first discovery and
// persists across passes; only the outcome cache is cleared between them.
type Resolver struct {
	loader modload.Loader

	mu       sync.Mutex
	dirs     []string
	outcomes map[string]*outcome
}

// New creates a Resolver that validates candidates through the given loader.
func New(loader modload.Loader) *Resolver {
	if loader == nil {
		panic("resolver: nil loader")
	}
	return &Resolver{
		loader:   loader,
		outcomes: make(map[string]*outcome),
	}
}

// AddSearchDirectories unions new directories into the live directory list,
// preserving registration order and dropping case-insensitive duplicates.
// Safe to call while a resolution session is active.
func (r *Resolver) AddSearchDirectories(dirs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(r.dirs))
	for _, d := range r.dirs {
		seen[strings.ToLower(d)] = struct{}{}
	}
	for _, d := range dirs {
		if d == "" {
			continue
		}
		key := strings.ToLower(d)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		r.dirs = append(r.dirs, d)
	}
}

// SearchDirectories returns a copy of the current directory list in
// registration order.
func (r *Resolver) SearchDirectories() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.dirs))
	copy(out, r.dirs)
	return out
}

// Resolve is the fallback lookup invoked by the host loader. It returns the
// first candidate file that exists and loads successfully, searching
// directories in registration order. Outcomes are memoized for the duration
// of the session: a second request for a name that is still pending (loader
// re-entry) or already failed answers "unresolved" immediately.
func (r *Resolver) Resolve(name string) (*modload.Handle, bool) {
	r.mu.Lock()
	if out, ok := r.outcomes[name]; ok {
		defer r.mu.Unlock()
		if out.state == stateResolved {
			return out.handle, true
		}
		// Pending is reported as unresolved rather than recursing further;
		// this is what bounds loader re-entry.
		return nil, false
	}

	out := &outcome{state: statePending}
	r.outcomes[name] = out
	dirs := make([]string, len(r.dirs))
	copy(dirs, r.dirs)
	r.mu.Unlock()

	// The loader runs outside the mutex. A sync.Mutex is not re-enterable,
	// and the loader may call Resolve again on this same goroutine; the
	// pending entry recorded above answers that inner call.
	handle := r.search(dirs, name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if handle != nil {
		out.state = stateResolved
		out.handle = handle
		return handle, true
	}
	out.state = stateFailed
	return nil, false
}

// search tries every candidate file for name under each directory in order.
func (r *Resolver) search(dirs []string, name string) *modload.Handle {
	for _, dir := range dirs {
		for _, candidate := range candidateFiles(dir, name) {
			if h, err := r.loader.Load(candidate); err == nil {
				return h
			}
		}
	}
	return nil
}

// candidateFiles maps a dependency name to the file paths to try in dir. A
// name that already carries a module suffix is used as-is; otherwise each
// recognized suffix is appended in search order.
func candidateFiles(dir, name string) []string {
	if modload.IsModuleFile(name) {
		return []string{filepath.Join(dir, name)}
	}
	suffixes := modload.RecognizedSuffixes()
	out := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		out = append(out, filepath.Join(dir, name+s))
	}
	return out
}

// clearOutcomes drops all memoized outcomes. Called on session teardown:
// cached handles are only meaningful while the hook that produced them is
// installed.
func (r *Resolver) clearOutcomes() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = make(map[string]*outcome)
}
