// Package forms builds validated form state from a JSON Schema.
//
// A Form carries the data the user sees, whether it passed validation, and
// per-field error messages. Forms are created either from stored data (the
// initial page render, usually with error reporting suppressed) or from a
// posted submission.
//
//	form, err := forms.Validate(schema, settings, forms.WithoutErrors())
//	...
//	form, err := forms.Validate(schema, forms.Decode(schema, r.PostForm), forms.Posted())
//	forms.SetError(form, "client_id", "This field is required.")
package forms

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dalemusser/ssoadmin/internal/app/system/schemas"
)

// Form is the validated state of one form.
type Form struct {
	ID     string
	Valid  bool
	Posted bool
	Data   map[string]any
	Errors map[string][]string
}

type options struct {
	errors bool
	posted bool
}

// Option configures Validate.
type Option func(*options)

// WithoutErrors validates but leaves Errors empty. Valid still reflects the
// outcome.
func WithoutErrors() Option {
	return func(o *options) { o.errors = false }
}

// Posted marks the form as coming from a submission.
func Posted() Option {
	return func(o *options) { o.posted = true }
}

// Validate shapes data to the schema's properties (unknown keys dropped,
// missing keys filled from defaults) and validates the result.
func Validate(s *schemas.Schema, data map[string]any, opts ...Option) (*Form, error) {
	o := options{errors: true}
	for _, fn := range opts {
		fn(&o)
	}

	shaped := Shape(s, data)
	fieldErrs, err := s.Validate(shaped)
	if err != nil {
		return nil, err
	}

	f := &Form{
		ID:     s.ID,
		Valid:  len(fieldErrs) == 0,
		Posted: o.posted,
		Data:   shaped,
		Errors: make(map[string][]string),
	}
	if o.errors {
		for field, msgs := range fieldErrs {
			SetError(f, field, msgs...)
		}
	}
	return f, nil
}

// Shape returns a new map holding exactly the schema's properties.
func Shape(s *schemas.Schema, data map[string]any) map[string]any {
	out := make(map[string]any, len(s.Properties))
	for _, p := range s.Properties {
		if v, ok := data[p.Name]; ok {
			out[p.Name] = v
			continue
		}
		out[p.Name] = zeroValue(p)
	}
	return out
}

func zeroValue(p schemas.Property) any {
	if p.HasDef {
		return p.Default
	}
	switch p.Type {
	case "string":
		return ""
	case "boolean":
		return false
	case "array":
		return []any{}
	default:
		return nil
	}
}

// SetError attaches messages to field and marks the form invalid. Messages
// are trimmed and de-duplicated; an empty field name is a form-level error.
func SetError(f *Form, field string, msgs ...string) {
	if f.Errors == nil {
		f.Errors = make(map[string][]string)
	}
	for _, m := range msgs {
		m = strings.TrimSpace(m)
		if m == "" || slices.Contains(f.Errors[field], m) {
			continue
		}
		f.Errors[field] = append(f.Errors[field], m)
		f.Valid = false
	}
}

// ErrorText converts an arbitrary JSON error value into messages: a string
// stays as is, a list yields one message per element, anything else is
// formatted.
func ErrorText(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, ErrorText(e)...)
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}

// FieldErrors returns the messages for field.
func (f *Form) FieldErrors(field string) []string {
	if f == nil {
		return nil
	}
	return f.Errors[field]
}

// FormErrors returns errors not tied to a field.
func (f *Form) FormErrors() []string {
	return f.FieldErrors("")
}

// HasErrors reports whether any error is attached.
func (f *Form) HasErrors() bool {
	return f != nil && len(f.Errors) > 0
}

// String returns the field value formatted for a text input.
func (f *Form) String(field string) string {
	if f == nil {
		return ""
	}
	switch v := f.Data[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, fmt.Sprint(e))
		}
		return strings.Join(parts, "\n")
	default:
		return fmt.Sprint(v)
	}
}

// Checked reports whether a boolean field is true.
func (f *Form) Checked(field string) bool {
	if f == nil {
		return false
	}
	b, _ := f.Data[field].(bool)
	return b
}
