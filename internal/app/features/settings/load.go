package settings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/ssoadmin/internal/app/system/forms"
	"github.com/dalemusser/ssoadmin/internal/app/system/schemas"
	"github.com/dalemusser/ssoadmin/internal/app/system/timeouts"
	"go.uber.org/zap"
)

var (
	// ErrBackendStatus wraps a non-2xx answer where the page cannot continue.
	ErrBackendStatus = errors.New("settings backend returned an error status")

	// ErrModel wraps local failures: the registry lacks the model or its
	// schema cannot be evaluated. These are not the backend's fault.
	ErrModel = errors.New("settings model unavailable")
)

// PageData is what the settings page renders.
type PageData struct {
	Settings map[string]any
	Form     *forms.Form
	Model    schemas.ModelInfo
}

// Load fetches the current settings and the option lists for every select
// field, and builds the form without reporting validation errors.
//
// Option lists that fail to load are logged and skipped. A failure to load
// the settings object itself is returned.
func (h *Handler) Load(ctx context.Context) (PageData, error) {
	resp, err := h.Backend.Get(ctx, settingsObjectPath)
	if err != nil {
		return PageData{}, fmt.Errorf("fetch settings: %w", err)
	}
	if !resp.OK() {
		return PageData{}, fmt.Errorf("fetch settings: %w: %d %s", ErrBackendStatus, resp.StatusCode, resp.StatusText())
	}
	var settings map[string]any
	if err := resp.DecodeJSON(&settings); err != nil {
		return PageData{}, fmt.Errorf("fetch settings: %w", err)
	}

	model, err := h.loadModel(ctx)
	if err != nil {
		return PageData{}, fmt.Errorf("%w: %w", ErrModel, err)
	}

	schema, err := h.Registry.Schema(schemas.IdentityProviders)
	if err != nil {
		return PageData{}, fmt.Errorf("%w: %w", ErrModel, err)
	}
	form, err := forms.Validate(schema, settings, forms.WithoutErrors())
	if err != nil {
		return PageData{}, fmt.Errorf("%w: %w", ErrModel, err)
	}

	return PageData{Settings: settings, Form: form, Model: model}, nil
}

// loadModel resolves the identity-provider descriptor and attaches the
// options of every select field whose fetch succeeded. Fetches run one at a
// time.
func (h *Handler) loadModel(ctx context.Context) (schemas.ModelInfo, error) {
	model, err := h.Registry.ModelInfo(schemas.IdentityProviders)
	if err != nil {
		return schemas.ModelInfo{}, err
	}

	selectOptions := make(map[string][]schemas.SelectOption)
	for _, sf := range model.SelectFields {
		if opts, ok := h.fetchOptions(ctx, sf.Field); ok {
			selectOptions[sf.Field] = opts
		}
	}
	model.SelectOptions = selectOptions
	return model, nil
}

func (h *Handler) fetchOptions(ctx context.Context, field string) ([]schemas.SelectOption, bool) {
	resp, err := h.Backend.Get(ctx, optionsPath(field))
	if err != nil {
		h.Log.Error("failed to fetch select options",
			zap.String("field", field), zap.Error(err))
		return nil, false
	}
	if !resp.OK() {
		h.Log.Error("failed to fetch select options",
			zap.String("field", field),
			zap.Int("status", resp.StatusCode),
			zap.String("status_text", resp.StatusText()))
		return nil, false
	}
	opts, err := schemas.OptionsFromJSON(resp.Body)
	if err != nil {
		h.Log.Error("failed to decode select options",
			zap.String("field", field), zap.Error(err))
		return nil, false
	}
	return opts, true
}

func optionsPath(field string) string {
	return settingsPath + url.PathEscape(field) + "/"
}

// ServeSettings renders the settings page.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Load())
	defer cancel()

	data, err := h.Load(ctx)
	if err != nil {
		h.fail(w, r, "load settings failed", err,
			"Could not load SSO settings from the settings service.", "/")
		return
	}
	h.render(w, r, http.StatusOK, data, false)
}
