package schemas

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// SelectField names a model field whose choices come from the backend
// sub-resource of the same name.
type SelectField struct {
	Field string `yaml:"field"`
}

// SelectOption is one dropdown entry.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ModelInfo describes a resource for the view layer.
type ModelInfo struct {
	Name              string        `yaml:"name"`
	VerboseName       string        `yaml:"verbose_name"`
	VerboseNamePlural string        `yaml:"verbose_name_plural"`
	Schema            string        `yaml:"schema"`
	SelectFields      []SelectField `yaml:"select_fields"`

	// SelectOptions is filled per request, keyed by SelectField.Field.
	SelectOptions map[string][]SelectOption `yaml:"-"`
}

// Clone returns a deep copy so per-request mutation never reaches the registry.
func (m ModelInfo) Clone() ModelInfo {
	out := m
	out.SelectFields = slices.Clone(m.SelectFields)
	if m.SelectOptions != nil {
		out.SelectOptions = make(map[string][]SelectOption, len(m.SelectOptions))
		for k, v := range m.SelectOptions {
			out.SelectOptions[k] = slices.Clone(v)
		}
	}
	return out
}

// IsSelectField reports whether field is declared as a select field.
func (m ModelInfo) IsSelectField(field string) bool {
	return slices.ContainsFunc(m.SelectFields, func(sf SelectField) bool {
		return sf.Field == field
	})
}

// SelectOptionKeys returns the populated option keys, sorted.
func (m ModelInfo) SelectOptionKeys() []string {
	return slices.Sorted(maps.Keys(m.SelectOptions))
}

// OptionsFromJSON turns a backend key/value object into options, one per key,
// in the order the keys appear in the document. The key becomes the value
// and the value becomes the label.
func OptionsFromJSON(data []byte) ([]SelectOption, error) {
	keys, values, err := orderedObject(data)
	if err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	out := make([]SelectOption, 0, len(keys))
	for _, k := range keys {
		out = append(out, SelectOption{Label: labelOf(values[k]), Value: k})
	}
	return out, nil
}

func labelOf(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
