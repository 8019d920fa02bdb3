package cache

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vk/pluginhost/internal/ctxlog"
	"github.com/vk/pluginhost/internal/modload"
)

// defaultExtensionsFolder is the well-known extensions sub-folder, resolved
// relative to the host executable when no override is configured.
const defaultExtensionsFolder = "extensions"

// defaultModulePaths computes the default set of module files once, lazily,
// by listing the well-known extensions folder for the recognized module-file
// suffixes. The result is a snapshot for the process's lifetime: later
// filesystem changes are deliberately not reflected. An absent folder yields
// an empty set, not an error. Callers hold c.mu.
func (c *Cache) defaultModulePaths(ctx context.Context) []string {
	c.defaultsOnce.Do(func() {
		logger := ctxlog.FromContext(ctx)

		dir := c.extensionsDir
		if dir == "" {
			exe, err := os.Executable()
			if err != nil {
				logger.Warn("Cannot locate host executable, default search paths empty.", "error", err)
				return
			}
			dir = filepath.Join(filepath.Dir(exe), defaultExtensionsFolder)
		}

		if !c.fs.DirectoryExists(dir) {
			logger.Debug("Well-known extensions folder absent.", "dir", dir)
			return
		}

		var found []string
		for _, suffix := range modload.RecognizedSuffixes() {
			files, err := c.fs.ListFiles(dir, "*"+suffix)
			if err != nil {
				logger.Warn("Listing well-known extensions folder failed.", "dir", dir, "pattern", "*"+suffix, "error", err)
				continue
			}
			found = append(found, files...)
		}

		c.defaults = normalizePaths(found)
		logger.Debug("Default search paths computed.", "dir", dir, "modules", len(c.defaults))
	})
	return c.defaults
}
