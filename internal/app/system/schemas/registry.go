// Package schemas is the registry of model descriptors and validation
// schemas, keyed by resource identifier (e.g. "identity-providers").
//
// Descriptors live in a YAML file; each names a draft-07 JSON Schema file
// next to it. The default set is embedded in the binary.
package schemas

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"

	"gopkg.in/yaml.v3"
)

// IdentityProviders is the resource identifier for SSO identity-provider settings.
const IdentityProviders = "identity-providers"

// ErrUnknownModel is returned for an identifier the registry does not know.
var ErrUnknownModel = errors.New("unknown model")

//go:embed definitions/*
var definitionsFS embed.FS

// Registry resolves model descriptors and schemas. It is read-only after Load
// and safe for concurrent use.
type Registry struct {
	models  map[string]ModelInfo
	schemas map[string]*Schema
}

// Default loads the embedded definitions.
func Default() (*Registry, error) {
	sub, err := fs.Sub(definitionsFS, "definitions")
	if err != nil {
		return nil, err
	}
	return Load(sub, "models.yaml")
}

// Load reads the descriptor file name from fsys and compiles every schema it
// references. Schema paths are relative to the descriptor file.
func Load(fsys fs.FS, name string) (*Registry, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read models: %w", err)
	}

	var models map[string]ModelInfo
	if err := yaml.Unmarshal(raw, &models); err != nil {
		return nil, fmt.Errorf("parse models %s: %w", name, err)
	}

	reg := &Registry{
		models:  make(map[string]ModelInfo, len(models)),
		schemas: make(map[string]*Schema, len(models)),
	}
	dir := path.Dir(name)
	for id, m := range models {
		for _, sf := range m.SelectFields {
			if sf.Field == "" {
				return nil, fmt.Errorf("model %s: select field with empty name", id)
			}
		}
		reg.models[id] = m
		if m.Schema == "" {
			continue
		}
		doc, err := fs.ReadFile(fsys, path.Join(dir, m.Schema))
		if err != nil {
			return nil, fmt.Errorf("model %s: read schema: %w", id, err)
		}
		s, err := ParseSchema(id, doc)
		if err != nil {
			return nil, err
		}
		reg.schemas[id] = s
	}
	return reg, nil
}

// ModelInfo returns a fresh copy of the descriptor for id.
func (r *Registry) ModelInfo(id string) (ModelInfo, error) {
	m, ok := r.models[id]
	if !ok {
		return ModelInfo{}, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return m.Clone(), nil
}

// Schema returns the compiled schema for id.
func (r *Registry) Schema(id string) (*Schema, error) {
	s, ok := r.schemas[id]
	if !ok {
		return nil, fmt.Errorf("%w: no schema for %q", ErrUnknownModel, id)
	}
	return s, nil
}

// IDs lists the known model identifiers, sorted.
func (r *Registry) IDs() []string {
	return slices.Sorted(maps.Keys(r.models))
}
