package schemas_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/dalemusser/ssoadmin/internal/app/system/schemas"
	"github.com/google/go-cmp/cmp"
)

func TestDefault_IdentityProviders(t *testing.T) {
	reg, err := schemas.Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	m, err := reg.ModelInfo(schemas.IdentityProviders)
	if err != nil {
		t.Fatalf("ModelInfo error: %v", err)
	}
	if m.VerboseName != "Identity provider" {
		t.Errorf("VerboseName = %q", m.VerboseName)
	}
	want := []schemas.SelectField{{Field: "provider"}, {Field: "signature_algorithm"}, {Field: "digest_algorithm"}}
	if diff := cmp.Diff(want, m.SelectFields); diff != "" {
		t.Errorf("SelectFields mismatch (-want +got):\n%s", diff)
	}

	s, err := reg.Schema(schemas.IdentityProviders)
	if err != nil {
		t.Fatalf("Schema error: %v", err)
	}
	if len(s.Properties) == 0 || s.Properties[0].Name != "is_enabled" {
		t.Errorf("properties not in document order: first = %+v", s.Properties[0])
	}
	p, ok := s.Property("attribute_mapping_email")
	if !ok || p.Type != "array" || p.ItemsType != "string" {
		t.Errorf("attribute_mapping_email = %+v, ok=%v", p, ok)
	}
	if !s.IsRequired("provider") {
		t.Error("provider should be required")
	}
}

func TestModelInfo_ReturnsCopy(t *testing.T) {
	reg, err := schemas.Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	first, _ := reg.ModelInfo(schemas.IdentityProviders)
	first.SelectOptions = map[string][]schemas.SelectOption{"provider": {{Label: "SAML", Value: "saml"}}}
	first.SelectFields[0].Field = "mutated"

	second, _ := reg.ModelInfo(schemas.IdentityProviders)
	if second.SelectOptions != nil {
		t.Error("SelectOptions leaked across calls")
	}
	if second.SelectFields[0].Field != "provider" {
		t.Errorf("SelectFields leaked across calls: %q", second.SelectFields[0].Field)
	}
}

func TestModelInfo_Unknown(t *testing.T) {
	reg, err := schemas.Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if _, err := reg.ModelInfo("nope"); !errors.Is(err, schemas.ErrUnknownModel) {
		t.Errorf("ModelInfo(nope) error = %v, want ErrUnknownModel", err)
	}
	if _, err := reg.Schema("nope"); !errors.Is(err, schemas.ErrUnknownModel) {
		t.Errorf("Schema(nope) error = %v, want ErrUnknownModel", err)
	}
}

func TestLoad_FromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"conf/models.yaml": {Data: []byte(`
widgets:
  name: widget
  verbose_name: Widget
  schema: widget.json
  select_fields:
    - field: color
`)},
		"conf/widget.json": {Data: []byte(`{"type":"object","properties":{"color":{"type":"string"},"size":{"type":["integer","null"]}}}`)},
	}

	reg, err := schemas.Load(fsys, "conf/models.yaml")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff([]string{"widgets"}, reg.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	s, err := reg.Schema("widgets")
	if err != nil {
		t.Fatalf("Schema error: %v", err)
	}
	size, _ := s.Property("size")
	if size.Type != "integer" || !size.Nullable {
		t.Errorf("size = %+v, want nullable integer", size)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"missing file", fstest.MapFS{}},
		{"bad yaml", fstest.MapFS{"models.yaml": {Data: []byte("a: [")}}},
		{"missing schema", fstest.MapFS{"models.yaml": {Data: []byte("m:\n  schema: gone.json\n")}}},
		{"empty select field", fstest.MapFS{"models.yaml": {Data: []byte("m:\n  select_fields:\n    - field: \"\"\n")}}},
		{"bad schema", fstest.MapFS{
			"models.yaml": {Data: []byte("m:\n  schema: s.json\n")},
			"s.json":      {Data: []byte(`{"type": 12}`)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := schemas.Load(tt.fsys, "models.yaml"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOptionsFromJSON_KeepsDocumentOrder(t *testing.T) {
	got, err := schemas.OptionsFromJSON([]byte(`{"saml":"SAML 2.0","oidc":"OpenID Connect","n":3}`))
	if err != nil {
		t.Fatalf("OptionsFromJSON error: %v", err)
	}
	want := []schemas.SelectOption{
		{Label: "SAML 2.0", Value: "saml"},
		{Label: "OpenID Connect", Value: "oidc"},
		{Label: "3", Value: "n"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsFromJSON_NotObject(t *testing.T) {
	if _, err := schemas.OptionsFromJSON([]byte(`["a","b"]`)); err == nil {
		t.Error("expected error for array payload")
	}
}

func TestSchemaValidate_FieldErrors(t *testing.T) {
	reg, err := schemas.Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	s, _ := reg.Schema(schemas.IdentityProviders)

	errs, err := s.Validate(map[string]any{
		"is_enabled":              "yes",
		"attribute_mapping_email": []any{"mail", 7},
	})
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	for _, field := range []string{"provider", "is_enabled", "attribute_mapping_email"} {
		if len(errs[field]) == 0 {
			t.Errorf("expected error on %q, got %v", field, errs)
		}
	}
}
