package settings

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/dalemusser/ssoadmin/internal/app/system/forms"
	"github.com/dalemusser/ssoadmin/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ssoadmin/internal/app/system/schemas"
	"github.com/dalemusser/ssoadmin/internal/app/system/viewdata"
)

// Input kinds the template switches on.
const (
	kindCheckbox = "checkbox"
	kindSelect   = "select"
	kindTextarea = "textarea"
	kindPassword = "password"
	kindText     = "text"
)

type optionVM struct {
	Label    string
	Value    string
	Selected bool
}

type fieldVM struct {
	Name        string
	Label       string
	Kind        string
	Value       string
	Placeholder string
	Checked     bool
	Required    bool
	Options     []optionVM
	Errors      []template.HTML
}

type settingsVM struct {
	viewdata.BaseVM
	Model      schemas.ModelInfo
	Form       *forms.Form
	Fields     []fieldVM
	FormErrors []template.HTML
	Failed     bool
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data PageData, failed bool) {
	var flashes []viewdata.FlashVM
	if h.Flash != nil {
		flashes = viewdata.Flashes(h.Flash.Pop(w, r))
	}

	title := "SSO Settings"
	if data.Model.VerboseName != "" {
		title = capitalize(data.Model.VerboseName) + " settings"
	}
	base := viewdata.NewBaseVM(r, title, "/", nil)
	base.Flashes = flashes

	vm := settingsVM{
		BaseVM:     base,
		Model:      data.Model,
		Form:       data.Form,
		FormErrors: sanitize(data.Form.FormErrors()),
		Failed:     failed,
	}
	if s, err := h.Registry.Schema(schemas.IdentityProviders); err == nil {
		vm.Fields = buildFields(s, data.Model, data.Form)
	}

	h.Render(viewdata.WithStatus(w, status), r, "settings_page", vm)
}

func buildFields(s *schemas.Schema, model schemas.ModelInfo, f *forms.Form) []fieldVM {
	out := make([]fieldVM, 0, len(s.Properties))
	for _, p := range s.Properties {
		fv := fieldVM{
			Name:     p.Name,
			Label:    labelFor(p),
			Required: s.IsRequired(p.Name),
			Errors:   sanitize(f.FieldErrors(p.Name)),
		}
		switch {
		case p.Type == "boolean":
			fv.Kind = kindCheckbox
			fv.Checked = f.Checked(p.Name)
		case model.IsSelectField(p.Name) && model.SelectOptions[p.Name] != nil:
			fv.Kind = kindSelect
			fv.Value = f.String(p.Name)
			fv.Options = selectOptions(model.SelectOptions[p.Name], fv.Value)
		case len(p.Enum) > 0:
			fv.Kind = kindSelect
			fv.Value = f.String(p.Name)
			fv.Options = selectOptions(enumOptions(p.Enum), fv.Value)
		case p.Type == "array" || p.Type == "object" || p.Format == "textarea":
			fv.Kind = kindTextarea
			fv.Value = f.String(p.Name)
		case p.Format == "password":
			// Never echoed; a blank submit keeps the stored value.
			fv.Kind = kindPassword
			if f.String(p.Name) != "" {
				fv.Placeholder = "Stored. Leave blank to keep."
			}
		default:
			fv.Kind = kindText
			fv.Value = f.String(p.Name)
		}
		out = append(out, fv)
	}
	return out
}

// selectOptions marks the current value as selected. A stored value the
// backend no longer offers is kept as an extra option so saving the form
// does not silently change it. Labels come from the backend and are shown
// as plain text.
func selectOptions(opts []schemas.SelectOption, current string) []optionVM {
	out := make([]optionVM, 0, len(opts)+1)
	found := false
	for _, o := range opts {
		sel := o.Value == current
		found = found || sel
		out = append(out, optionVM{Label: htmlsanitize.Strip(o.Label), Value: o.Value, Selected: sel})
	}
	if !found && current != "" {
		out = append(out, optionVM{Label: current, Value: current, Selected: true})
	}
	return out
}

func enumOptions(enum []any) []schemas.SelectOption {
	out := make([]schemas.SelectOption, 0, len(enum))
	for _, e := range enum {
		if e == nil {
			continue
		}
		v := fmt.Sprint(e)
		out = append(out, schemas.SelectOption{Label: v, Value: v})
	}
	return out
}

func labelFor(p schemas.Property) string {
	if p.Title != "" {
		return p.Title
	}
	return capitalize(strings.ReplaceAll(p.Name, "_", " "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sanitize(msgs []string) []template.HTML {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]template.HTML, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, htmlsanitize.Message(m))
	}
	return out
}
