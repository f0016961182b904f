package schemas

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Property is the subset of a JSON Schema property the form layer needs.
type Property struct {
	Name      string
	Type      string // string, boolean, integer, number, array, object
	Nullable  bool
	ItemsType string
	Title     string
	Format    string
	Default   any
	HasDef    bool
	Enum      []any
}

// Schema is a compiled JSON Schema for one model.
type Schema struct {
	ID         string
	Properties []Property
	Required   []string

	byName   map[string]int
	compiled *gojsonschema.Schema
}

type rawProperty struct {
	Type    json.RawMessage `json:"type"`
	Title   string          `json:"title"`
	Format  string          `json:"format"`
	Default json.RawMessage `json:"default"`
	Enum    []any           `json:"enum"`
	Items   *struct {
		Type json.RawMessage `json:"type"`
	} `json:"items"`
}

// ParseSchema compiles raw (draft-07) and extracts its top-level properties
// in document order.
func ParseSchema(id string, raw []byte) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", id, err)
	}

	var top struct {
		Required   []string        `json:"required"`
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", id, err)
	}

	s := &Schema{
		ID:       id,
		Required: top.Required,
		byName:   make(map[string]int),
		compiled: compiled,
	}
	if len(top.Properties) == 0 {
		return s, nil
	}

	names, props, err := orderedObject(top.Properties)
	if err != nil {
		return nil, fmt.Errorf("schema %s properties: %w", id, err)
	}
	for _, name := range names {
		var rp rawProperty
		if err := json.Unmarshal(props[name], &rp); err != nil {
			return nil, fmt.Errorf("schema %s property %q: %w", id, name, err)
		}
		p := Property{
			Name:   name,
			Title:  rp.Title,
			Format: rp.Format,
			Enum:   rp.Enum,
		}
		p.Type, p.Nullable = typeOf(rp.Type)
		if rp.Items != nil {
			p.ItemsType, _ = typeOf(rp.Items.Type)
		}
		if len(rp.Default) > 0 {
			if err := json.Unmarshal(rp.Default, &p.Default); err != nil {
				return nil, fmt.Errorf("schema %s property %q default: %w", id, name, err)
			}
			p.HasDef = true
		}
		s.byName[name] = len(s.Properties)
		s.Properties = append(s.Properties, p)
	}
	return s, nil
}

// typeOf resolves "type" which may be a string or a list like ["string","null"].
func typeOf(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "string", false
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single, single == "null"
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return "string", false
	}
	t, nullable := "", false
	for _, m := range many {
		if m == "null" {
			nullable = true
			continue
		}
		if t == "" {
			t = m
		}
	}
	if t == "" {
		t = "string"
	}
	return t, nullable
}

// Property returns the named property.
func (s *Schema) Property(name string) (Property, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Property{}, false
	}
	return s.Properties[i], true
}

// IsRequired reports whether name is listed in "required".
func (s *Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

// Validate checks data and returns messages keyed by field name. Errors that
// cannot be tied to a field are keyed by the empty string.
func (s *Schema) Validate(data map[string]any) (map[string][]string, error) {
	res, err := s.compiled.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", s.ID, err)
	}
	if res.Valid() {
		return nil, nil
	}

	out := make(map[string][]string)
	for _, re := range res.Errors() {
		field := fieldOf(re)
		msg := strings.TrimSpace(re.Description())
		if msg == "" || slices.Contains(out[field], msg) {
			continue
		}
		out[field] = append(out[field], msg)
	}
	return out, nil
}

func fieldOf(re gojsonschema.ResultError) string {
	field := re.Field()
	if re.Type() == "required" {
		if p, ok := re.Details()["property"].(string); ok {
			if field == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
				return p
			}
			return field + "." + p
		}
	}
	if field == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
		return ""
	}
	// array item errors ("attribute_mapping_email.0") belong to the field
	if head, _, ok := strings.Cut(field, "."); ok {
		return head
	}
	return field
}
