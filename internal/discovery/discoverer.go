package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/pluginhost/internal/ctxlog"
	"github.com/vk/pluginhost/internal/extension"
	"github.com/vk/pluginhost/internal/hcl"
)

// ManifestDiscoverer discovers extensions by parsing each module's sidecar
// manifest: for a module file "x.so" or "x.exe" the manifest is "x.hcl" in
// the same directory.
type ManifestDiscoverer struct{}

// NewManifestDiscoverer creates the manifest-backed discoverer.
func NewManifestDiscoverer() *ManifestDiscoverer {
	return &ManifestDiscoverer{}
}

// Discover introspects the given module files and returns the extensions they
// contribute. When wellKnownOnly is set, entries not marked well-known are
// skipped. On failure the registry accumulated so far is returned alongside
// the error, so the caller can keep the partial result.
func (d *ManifestDiscoverer) Discover(ctx context.Context, modulePaths []string, wellKnownOnly bool) (*extension.Registry, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Discovery pass started.", "modules", len(modulePaths), "well_known_only", wellKnownOnly)

	registry := extension.NewRegistry()
	for _, modulePath := range modulePaths {
		// An externally requested abort surfaces between modules, untouched.
		if err := ctx.Err(); err != nil {
			return registry, err
		}

		if err := d.discoverModule(ctx, registry, modulePath, wellKnownOnly); err != nil {
			return registry, &Error{Path: modulePath, Err: err}
		}
	}

	logger.Debug("Discovery pass finished.", "extensions", registry.Count())
	return registry, nil
}

// discoverModule merges one module's manifest entries into registry.
func (d *ManifestDiscoverer) discoverModule(ctx context.Context, registry *extension.Registry, modulePath string, wellKnownOnly bool) error {
	logger := ctxlog.FromContext(ctx)

	manifestPath := manifestPathFor(modulePath)
	if _, err := os.Stat(manifestPath); err != nil {
		// A module without a manifest contributes no extensions.
		logger.Warn("Module has no extension manifest, skipping.", "module", modulePath)
		return nil
	}

	manifest, err := hcl.ParseManifest(ctx, manifestPath)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(manifest.Extensions))
	for _, def := range manifest.Extensions {
		kind := extension.Kind(def.Kind)
		if !kind.Valid() {
			logger.Warn("Manifest declares unknown extension kind, skipping entry.", "module", modulePath, "kind", def.Kind, "id", def.ID)
			continue
		}

		identity := string(kind) + "/" + def.ID
		if _, dup := seen[identity]; dup {
			return fmt.Errorf("manifest %s declares extension %q twice", manifestPath, identity)
		}
		seen[identity] = struct{}{}

		if wellKnownOnly && !def.WellKnown {
			logger.Debug("Skipping non-well-known extension.", "module", modulePath, "id", def.ID)
			continue
		}

		registry.Add(extension.Metadata{
			Kind:        kind,
			ID:          def.ID,
			Description: def.Description,
			Source:      modulePath,
			WellKnown:   def.WellKnown,
			Settings:    def.Settings,
		})
	}

	return nil
}

// manifestPathFor maps a module file path to its sidecar manifest path.
func manifestPathFor(modulePath string) string {
	ext := filepath.Ext(modulePath)
	return strings.TrimSuffix(modulePath, ext) + ".hcl"
}
