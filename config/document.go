package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/vaultvars/varsource"
)

// CustomSection is the top-level key holding host settings.
const CustomSection = "custom"

// Document is a parsed, unresolved configuration document.
type Document struct {
	Format Format
	Name   string

	tree map[string]any  // YAML and JSON
	body *hclsyntax.Body // HCL
}

// Load reads and parses the file at path.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, format, path)
}

// Parse parses data in the given format. name is used in error messages.
func Parse(data []byte, format Format, name string) (*Document, error) {
	doc := &Document{Format: format, Name: name}

	switch format {
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", name, err)
		}
		tree, ok := normalize(v).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotObject, name)
		}
		doc.tree = tree
	case FormatJSON:
		var v any
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", name, err)
		}
		tree, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotObject, name)
		}
		doc.tree = tree
	case FormatHCL:
		body, err := parseHCL(data, name)
		if err != nil {
			return nil, err
		}
		doc.body = body
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return doc, nil
}

// Settings read from the custom section.
const (
	KeyVaultToken   = "vault_token"
	KeyVaultAddress = "vault_address"
)

var customKeys = []string{KeyVaultToken, KeyVaultAddress}

// Custom holds the backend settings read from the custom section.
type Custom struct {
	VaultToken   string
	VaultAddress string
}

// Custom resolves the vault_token and vault_address settings with r.
// The rest of the custom section is left to Render, so it may reference
// sources r does not know. A missing section yields an empty Custom.
func (d *Document) Custom(ctx context.Context, r *varsource.Resolver) (Custom, error) {
	var settings map[string]any
	switch d.Format {
	case FormatHCL:
		var err error
		if settings, err = evalSettings(ctx, d.body, r, CustomSection, customKeys); err != nil {
			return Custom{}, err
		}
	default:
		section, _ := d.tree[CustomSection].(map[string]any)
		settings = make(map[string]any, len(customKeys))
		for _, key := range customKeys {
			v, ok := section[key]
			if !ok {
				continue
			}
			resolved, err := r.ResolveTree(ctx, v)
			if err != nil {
				return Custom{}, fmt.Errorf("config: %s.%s: %w", CustomSection, key, err)
			}
			settings[key] = resolved
		}
	}

	var c Custom
	c.VaultToken, _ = settings[KeyVaultToken].(string)
	c.VaultAddress, _ = settings[KeyVaultAddress].(string)
	return c, nil
}

// Render resolves every reference in the document.
func (d *Document) Render(ctx context.Context, r *varsource.Resolver) (map[string]any, error) {
	tree := d.tree
	if d.Format == FormatHCL {
		evaluated, err := evalHCL(ctx, d.body, r)
		if err != nil {
			return nil, err
		}
		tree = evaluated
	}

	resolved, err := r.ResolveTree(ctx, tree)
	if err != nil {
		return nil, fmt.Errorf("config: render %s: %w", d.Name, err)
	}
	out, _ := resolved.(map[string]any)
	return out, nil
}

// normalize converts YAML mappings with non-string keys to
// map[string]any.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}
