package cache

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vk/pluginhost/internal/ctxlog"
	"github.com/vk/pluginhost/internal/extension"
	"github.com/vk/pluginhost/internal/fsutil"
	"github.com/vk/pluginhost/internal/modload"
	"github.com/vk/pluginhost/internal/resolver"
)

// Discoverer is the external collaborator that introspects module files and
// returns the extensions they contribute. Implementations own no caching;
// a partial registry may accompany a non-nil error and is retained.
type Discoverer interface {
	Discover(ctx context.Context, modulePaths []string, wellKnownOnly bool) (*extension.Registry, error)
}

// Cache is the discovery cache for one test-run host. It is constructed once,
// lives for the duration of the run, and is safe for concurrent use.
type Cache struct {
	discoverer Discoverer
	loader     modload.Loader
	hook       modload.HookPoint
	fs         fsutil.Filesystem

	// extensionsDir overrides the well-known extensions folder; empty means
	// the "extensions" folder next to the host executable.
	extensionsDir string

	// mu guards everything below and serializes discovery passes: the
	// fallback hook is a single slot, so only one pass may hold a session.
	mu            sync.Mutex
	registry      *extension.Registry
	additional    []string
	wellKnownOnly bool
	completed     bool
	scanned       map[string]struct{}

	defaultsOnce sync.Once
	defaults     []string

	// res is created lazily on the first discovery pass and persists across
	// passes; only its outcome cache is cleared between them.
	res *resolver.Resolver
}

// New creates a Cache wired to the given collaborators. extensionsDir may be
// empty to use the host executable's extensions folder.
func New(discoverer Discoverer, loader modload.Loader, hook modload.HookPoint, fs fsutil.Filesystem, extensionsDir string) *Cache {
	if discoverer == nil || loader == nil || hook == nil || fs == nil {
		panic("cache: nil collaborator")
	}
	return &Cache{
		discoverer:    discoverer,
		loader:        loader,
		hook:          hook,
		fs:            fs,
		extensionsDir: extensionsDir,
		registry:      extension.NewRegistry(),
		scanned:       make(map[string]struct{}),
	}
}

// Seed merges pre-known entries (the host's built-in extensions) into the
// registry ahead of any discovery pass. First-wins merging then guarantees a
// module file cannot shadow a seeded identity.
func (c *Cache) Seed(reg *extension.Registry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry.Merge(reg)
}

// DiscoverAll returns every extension reachable through the default search
// paths plus the registered additional paths. The full scan runs at most once
// per search scope; subsequent calls answer from the cache until
// RegisterAdditionalSearchPaths changes the scope.
func (c *Cache) DiscoverAll(ctx context.Context) (*extension.Registry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return c.registry.Clone(), nil
	}

	paths := unionPaths(c.additional, c.defaultModulePaths(ctx))
	if err := c.discoverLocked(ctx, paths, c.wellKnownOnly); err != nil {
		return c.registry.Clone(), err
	}

	c.completed = true
	return c.registry.Clone(), nil
}

// DiscoverForModule returns the extensions contributed by a single module
// file. A module that was already scanned, whether by an earlier scoped call
// or by a full pass, is answered from the cache without invoking the
// discoverer.
func (c *Cache) DiscoverForModule(ctx context.Context, modulePath string) (*extension.Registry, error) {
	abs, err := filepath.Abs(modulePath)
	if err == nil {
		modulePath = abs
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, done := c.scanned[pathKey(modulePath)]; done {
		return c.registry.ForModule(modulePath), nil
	}

	if err := c.discoverLocked(ctx, []string{modulePath}, false); err != nil {
		return c.registry.ForModule(modulePath), err
	}
	return c.registry.ForModule(modulePath), nil
}

// RegisterAdditionalSearchPaths widens the discovery scope with extra module
// files. Paths are normalized to absolute form and deduplicated
// case-insensitively; a set identical to the current one (in any order, with
// the same well-known flag) is a no-op. Otherwise the new paths are unioned
// in ahead of previously registered ones, so newly supplied paths take search
// precedence, and completion state resets so the next DiscoverAll rescans.
//
// The whole decide-and-update sequence runs under one critical section so
// concurrent callers never interleave the "is this new?" check with another
// caller's update.
func (c *Cache) RegisterAdditionalSearchPaths(ctx context.Context, paths []string, wellKnownOnly bool) {
	logger := ctxlog.FromContext(ctx)
	incoming := normalizePaths(paths)

	c.mu.Lock()
	defer c.mu.Unlock()

	if wellKnownOnly == c.wellKnownOnly && samePathSet(incoming, c.additional) {
		logger.Debug("Additional search paths unchanged, keeping cached discovery state.")
		return
	}

	c.additional = unionPaths(incoming, c.additional)
	c.wellKnownOnly = wellKnownOnly
	c.completed = false

	if c.res != nil {
		c.res.AddSearchDirectories(directoriesOf(c.additional)...)
	}

	logger.Debug("Additional search paths registered.", "paths", len(c.additional), "well_known_only", wellKnownOnly)
}

// AdditionalSearchPaths returns the registered additional module paths in
// search-precedence order.
func (c *Cache) AdditionalSearchPaths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.additional))
	copy(out, c.additional)
	return out
}

// WellKnownOnly reports the active well-known-only flag.
func (c *Cache) WellKnownOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wellKnownOnly
}

// Completed reports whether a full discovery pass has finished for the
// current search scope.
func (c *Cache) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

// discoverLocked runs one discovery pass over the given module paths. The
// resolver session is torn down on every exit path; partial merges performed
// before a failure are retained. Callers hold c.mu.
func (c *Cache) discoverLocked(ctx context.Context, paths []string, wellKnownOnly bool) error {
	logger := ctxlog.FromContext(ctx)

	res := c.resolverLocked()
	res.AddSearchDirectories(directoriesOf(paths)...)

	session := res.NewSession(c.hook)
	defer session.Close()

	reg, err := c.discoverer.Discover(ctx, paths, wellKnownOnly)
	if reg != nil {
		c.registry.Merge(reg)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// An externally requested abort is logged and passed through
			// unmodified, never converted into a discovery failure.
			logger.Warn("Extension discovery aborted.", "modules", len(paths))
		} else {
			logger.Error("Extension discovery failed.", "modules", len(paths), "error", err)
		}
		return err
	}

	for _, p := range paths {
		c.scanned[pathKey(p)] = struct{}{}
	}
	logger.Debug("Discovery pass merged into registry.", "modules", len(paths), "total_extensions", c.registry.Count())
	return nil
}

// resolverLocked returns the module resolver, creating it on first use.
// Callers hold c.mu.
func (c *Cache) resolverLocked() *resolver.Resolver {
	if c.res == nil {
		c.res = resolver.New(c.loader)
	}
	return c.res
}

// pathKey is the case-insensitive identity of a path.
func pathKey(p string) string {
	return strings.ToLower(p)
}

// normalizePaths makes each path absolute and drops case-insensitive
// duplicates, preserving first occurrence order.
func normalizePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		key := pathKey(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// unionPaths concatenates the two lists with case-insensitive deduplication.
// Entries of first keep precedence over entries of second.
func unionPaths(first, second []string) []string {
	out := make([]string, 0, len(first)+len(second))
	seen := make(map[string]struct{}, len(first)+len(second))
	for _, list := range [][]string{first, second} {
		for _, p := range list {
			key := pathKey(p)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// samePathSet compares two path lists as case-insensitive sets.
func samePathSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	keys := make(map[string]struct{}, len(a))
	for _, p := range a {
		keys[pathKey(p)] = struct{}{}
	}
	for _, p := range b {
		if _, ok := keys[pathKey(p)]; !ok {
			return false
		}
	}
	return true
}

// directoriesOf maps module file paths to their distinct parent directories,
// preserving order.
func directoriesOf(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		dir := filepath.Dir(p)
		key := pathKey(dir)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, dir)
	}
	return out
}
