package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pluginhost/internal/extension"
)

// writeModule creates a fake module binary plus its manifest and returns the
// module path.
func writeModule(t *testing.T, dir, base, manifest string) string {
	t.Helper()
	modulePath := filepath.Join(dir, base)
	require.NoError(t, os.WriteFile(modulePath, []byte{0}, 0o644))
	manifestPath := filepath.Join(dir, base[:len(base)-len(filepath.Ext(base))]+".hcl")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0o644))
	return modulePath
}

func TestManifestDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	modulePath := writeModule(t, tmpDir, "sample.so", `
module "sample" {
  extension "executor" "io.vk.executor.sample" {
    description = "Sample executor."
    well_known  = true
  }
  extension "logger" "io.vk.logger.trace" {}
}
`)

	reg, err := NewManifestDiscoverer().Discover(context.Background(), []string{modulePath}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Count())

	m, ok := reg.Lookup(extension.KindExecutor, "io.vk.executor.sample")
	require.True(t, ok)
	assert.Equal(t, modulePath, m.Source)
	assert.True(t, m.WellKnown)
}

func TestManifestDiscoverer_WellKnownOnlyFilters(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	modulePath := writeModule(t, tmpDir, "mixed.so", `
module "mixed" {
  extension "executor" "trusted" {
    well_known = true
  }
  extension "executor" "untrusted" {}
}
`)

	reg, err := NewManifestDiscoverer().Discover(context.Background(), []string{modulePath}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Count())
	_, ok := reg.Lookup(extension.KindExecutor, "trusted")
	assert.True(t, ok)
}

func TestManifestDiscoverer_MissingManifestSkipsModule(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	modulePath := filepath.Join(tmpDir, "bare.so")
	require.NoError(t, os.WriteFile(modulePath, []byte{0}, 0o644))

	reg, err := NewManifestDiscoverer().Discover(context.Background(), []string{modulePath}, false)
	require.NoError(t, err)
	assert.Zero(t, reg.Count())
}

func TestManifestDiscoverer_UnknownKindSkipped(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	modulePath := writeModule(t, tmpDir, "odd.so", `
module "odd" {
  extension "telepathy" "x" {}
  extension "logger" "y" {}
}
`)

	reg, err := NewManifestDiscoverer().Discover(context.Background(), []string{modulePath}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Count())
}

func TestManifestDiscoverer_DuplicateIdentityFails(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	modulePath := writeModule(t, tmpDir, "dup.so", `
module "dup" {
  extension "executor" "X" {}
  extension "executor" "X" {}
}
`)

	_, err := NewManifestDiscoverer().Discover(context.Background(), []string{modulePath}, false)
	require.Error(t, err)

	var discErr *Error
	require.ErrorAs(t, err, &discErr)
	assert.Equal(t, modulePath, discErr.Path)
	assert.Contains(t, err.Error(), "twice")
}

func TestManifestDiscoverer_PartialRegistryOnError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The first module is valid, the second has a broken manifest. The
	// partial result from the first must still be returned with the error.
	tmpDir := t.TempDir()
	good := writeModule(t, tmpDir, "good.so", `
module "good" {
  extension "logger" "ok" {}
}
`)
	bad := writeModule(t, tmpDir, "bad.so", `module "bad" {`)

	// --- Act ---
	reg, err := NewManifestDiscoverer().Discover(context.Background(), []string{good, bad}, false)

	// --- Assert ---
	require.Error(t, err)
	require.NotNil(t, reg)
	_, ok := reg.Lookup(extension.KindLogger, "ok")
	assert.True(t, ok, "entries discovered before the failure must be retained")
}

func TestManifestDiscoverer_CanceledContextPropagates(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewManifestDiscoverer().Discover(ctx, []string{"/nowhere/x.so"}, false)
	require.ErrorIs(t, err, context.Canceled)
}
