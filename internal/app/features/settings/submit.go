package settings

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/dalemusser/ssoadmin/internal/app/system/flash"
	"github.com/dalemusser/ssoadmin/internal/app/system/forms"
	"github.com/dalemusser/ssoadmin/internal/app/system/limits"
	"github.com/dalemusser/ssoadmin/internal/app/system/schemas"
	"github.com/dalemusser/ssoadmin/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ActionResult is the outcome of a submission. Success is explicit; a
// failed result carries the status to respond with and, unless the input
// was missing, the form to re-render.
type ActionResult struct {
	Status  int
	Success bool
	Form    *forms.Form
}

// Submit validates the posted form, forwards its data to the backend with
// PUT, and maps the answer:
//
//   - 2xx: success
//   - {"warning": msg}: warning flash, form returned as is
//   - {"error": msg}: error flash, form returned as is
//   - {field: msg, ...}: messages attached to the fields, 400; keys that
//     name no field are shown as form errors
//
// Blank password fields keep the stored value. Missing form data fails with 400 and a nil form before any backend call.
// Transport failures and non-JSON error bodies are returned as errors.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) (ActionResult, error) {
	values, err := parseForm(w, r)
	if err != nil || len(values) == 0 {
		if err != nil {
			h.Log.Warn("settings form unreadable", zap.Error(err))
		}
		return ActionResult{Status: http.StatusBadRequest}, nil
	}

	schema, err := h.Registry.Schema(schemas.IdentityProviders)
	if err != nil {
		return ActionResult{}, fmt.Errorf("%w: %w", ErrModel, err)
	}
	data := forms.Decode(schema, values)
	if err := h.keepSecrets(r.Context(), schema, data); err != nil {
		return ActionResult{}, err
	}
	form, err := forms.Validate(schema, data, forms.Posted())
	if err != nil {
		return ActionResult{}, fmt.Errorf("%w: %w", ErrModel, err)
	}

	resp, err := h.Backend.PutJSON(r.Context(), settingsPath, form.Data)
	if err != nil {
		return ActionResult{}, fmt.Errorf("submit settings: %w", err)
	}
	if resp.OK() {
		return ActionResult{Status: http.StatusOK, Success: true, Form: form}, nil
	}

	h.Log.Warn("settings update rejected",
		zap.Int("status", resp.StatusCode),
		zap.ByteString("response", resp.Body))

	var body map[string]any
	if err := resp.DecodeJSON(&body); err != nil {
		return ActionResult{}, fmt.Errorf("submit settings: %w", err)
	}

	if msg, ok := message(body, "warning"); ok {
		h.setFlash(w, r, flash.Warning, msg)
		return ActionResult{Status: http.StatusOK, Form: form}, nil
	}
	if msg, ok := message(body, "error"); ok {
		h.setFlash(w, r, flash.Error, msg)
		return ActionResult{Status: http.StatusOK, Form: form}, nil
	}

	for _, key := range slices.Sorted(maps.Keys(body)) {
		if key == "warning" || key == "error" {
			continue
		}
		forms.SetError(form, errorField(schema, key), forms.ErrorText(body[key])...)
	}
	return ActionResult{Status: http.StatusBadRequest, Form: form}, nil
}

// errorField maps a backend error key to the field it belongs to. Item
// paths such as "attribute_mapping_email.0" belong to their field; keys
// that name no field ("non_field_errors", "detail") become form errors.
func errorField(s *schemas.Schema, key string) string {
	if _, ok := s.Property(key); ok {
		return key
	}
	if head, _, ok := strings.Cut(key, "."); ok {
		if _, ok := s.Property(head); ok {
			return head
		}
	}
	return ""
}

// keepSecrets fills password fields left blank with the stored value. The
// page never echoes secrets, so blank means unchanged.
func (h *Handler) keepSecrets(ctx context.Context, s *schemas.Schema, data map[string]any) error {
	var blank []string
	for _, p := range s.Properties {
		if p.Format != "password" {
			continue
		}
		if v, _ := data[p.Name].(string); v == "" {
			blank = append(blank, p.Name)
		}
	}
	if len(blank) == 0 {
		return nil
	}

	resp, err := h.Backend.Get(ctx, settingsObjectPath)
	if err != nil {
		return fmt.Errorf("fetch stored secrets: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("fetch stored secrets: %w: %d %s", ErrBackendStatus, resp.StatusCode, resp.StatusText())
	}
	var stored map[string]any
	if err := resp.DecodeJSON(&stored); err != nil {
		return fmt.Errorf("fetch stored secrets: %w", err)
	}
	for _, name := range blank {
		if v, ok := stored[name].(string); ok && v != "" {
			data[name] = v
		}
	}
	return nil
}

func parseForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSettingsFormSize)
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(limits.MaxSettingsFormSize); err != nil {
			return nil, err
		}
		return r.PostForm, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

// message returns body[key] as display text when it is a non-empty string
// or a list holding strings. Other values (false, null, numbers) do not count.
func message(body map[string]any, key string) (string, bool) {
	var parts []string
	switch v := body[key].(type) {
	case string:
		parts = []string{v}
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
	}
	msg := strings.TrimSpace(strings.Join(parts, " "))
	return msg, msg != ""
}

func (h *Handler) setFlash(w http.ResponseWriter, r *http.Request, level flash.Level, msg string) {
	if err := h.Flash.Set(w, r, flash.Message{Type: level, Text: msg}); err != nil {
		h.Log.Error("set flash failed", zap.String("level", string(level)), zap.Error(err))
	}
}

// HandleSettings processes the settings form submission.
func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Submit())
	defer cancel()
	r = r.WithContext(ctx)

	res, err := h.Submit(w, r)
	if err != nil {
		h.fail(w, r, "submit settings failed", err,
			"The settings service could not process the update.", "/settings")
		return
	}
	if res.Success {
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
		return
	}

	data, err := h.Load(ctx)
	if err != nil {
		h.fail(w, r, "reload settings failed", err,
			"Could not load SSO settings from the settings service.", "/")
		return
	}
	if res.Form != nil {
		data.Form = res.Form
	}
	h.render(w, r, res.Status, data, res.Form.HasErrors())
}
