package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/pluginhost/internal/config"
	"github.com/vk/pluginhost/internal/ctxlog"
)

// manifestRoot expects exactly one 'module' block per manifest file.
type manifestRoot struct {
	Module *moduleBlock `hcl:"module,block"`
}

// moduleBlock represents a 'module' block for decoding purposes.
type moduleBlock struct {
	Name       string            `hcl:"name,label"`
	Extensions []*extensionBlock `hcl:"extension,block"`
}

// extensionBlock represents a single 'extension' block inside a module block.
type extensionBlock struct {
	Kind        string         `hcl:"kind,label"`
	ID          string         `hcl:"id,label"`
	Description string         `hcl:"description,optional"`
	WellKnown   bool           `hcl:"well_known,optional"`
	Settings    hcl.Expression `hcl:"settings,optional"`
}

// ParseManifest decodes a module's extension manifest file into the
// format-agnostic model.
func ParseManifest(ctx context.Context, path string) (*config.Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing extension manifest.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, diags)
	}

	root := &manifestRoot{}
	if diags := gohcl.DecodeBody(file.Body, nil, root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, diags)
	}
	if root.Module == nil {
		return nil, fmt.Errorf("manifest %s contains no module block", path)
	}

	manifest := &config.Manifest{Module: root.Module.Name}
	for _, block := range root.Module.Extensions {
		def := &config.ExtensionDefinition{
			Kind:        block.Kind,
			ID:          block.ID,
			Description: block.Description,
			WellKnown:   block.WellKnown,
		}

		settings, err := evalSettings(block.Settings)
		if err != nil {
			return nil, fmt.Errorf("manifest %s, extension %q: %w", path, block.ID, err)
		}
		def.Settings = settings

		manifest.Extensions = append(manifest.Extensions, def)
	}

	logger.Debug("Extension manifest parsed.", "path", path, "module", manifest.Module, "extensions", len(manifest.Extensions))
	return manifest, nil
}

// evalSettings evaluates the optional 'settings' attribute into a flat map of
// cty values. Manifests are static documents, so evaluation uses no context.
func evalSettings(expr hcl.Expression) (map[string]cty.Value, error) {
	if expr == nil {
		return nil, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating settings: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("settings must be an object, got %s", val.Type().FriendlyName())
	}

	out := make(map[string]cty.Value)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		out[k.AsString()] = v
	}
	return out, nil
}
