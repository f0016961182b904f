// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ssoadmin.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: backend_base_url, session_name, etc.
//   - Environment variables: SSOADMIN_BACKEND_BASE_URL, SSOADMIN_SESSION_NAME, etc.
//   - Command-line flags: --backend_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	// Settings backend
	{Name: "backend_base_url", Default: "http://localhost:8000/api", Desc: "Base URL of the settings backend API"},
	{Name: "backend_timeout", Default: "10s", Desc: "Per-request timeout for backend calls (e.g., 10s, 500ms)"},
	{Name: "backend_token", Default: "", Desc: "Static bearer token for the backend (blank for none)"},
	{Name: "backend_client_id", Default: "", Desc: "OAuth2 client ID for client-credentials auth to the backend"},
	{Name: "backend_client_secret", Default: "", Desc: "OAuth2 client secret"},
	{Name: "backend_token_url", Default: "", Desc: "OAuth2 token endpoint"},

	// Flash cookie
	{Name: "session_key", Default: "", Desc: "Session signing key (required in production; generated per process in dev)"},
	{Name: "session_name", Default: "ssoadmin-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Models
	{Name: "models_file", Default: "", Desc: "Path to a models.yaml overriding the embedded model registry"},

	// Observability
	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics at /metrics"},

	// Handler deadlines
	{Name: "timeout_ping", Default: "2s", Desc: "Deadline for the /health backend check"},
	{Name: "timeout_load", Default: "15s", Desc: "Deadline for loading the settings page"},
	{Name: "timeout_submit", Default: "30s", Desc: "Deadline for submitting the settings form"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, SSOADMIN_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SSOADMIN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		BackendBaseURL:      strings.TrimSpace(appValues.String("backend_base_url")),
		BackendTimeout:      appValues.Duration("backend_timeout", 10*time.Second),
		BackendToken:        appValues.String("backend_token"),
		BackendClientID:     appValues.String("backend_client_id"),
		BackendClientSecret: appValues.String("backend_client_secret"),
		BackendTokenURL:     appValues.String("backend_token_url"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		ModelsFile:     appValues.String("models_file"),
		MetricsEnabled: appValues.Bool("metrics_enabled"),

		TimeoutPing:   appValues.Duration("timeout_ping", 0),
		TimeoutLoad:   appValues.Duration("timeout_load", 0),
		TimeoutSubmit: appValues.Duration("timeout_submit", 0),
	}

	return coreCfg, appCfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if k := f.Tag.Get("key"); k != "" {
			return k
		}
		return f.Name
	})
	return v
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The backend URL must be an absolute http(s) URL, the client-credential
// settings are all-or-nothing, and production requires a session key.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validate.Struct(appCfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			logger.Error("invalid app config", zap.Strings("problems", msgs))
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == "" {
		return fmt.Errorf("invalid config: session_key is required in production")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "http_url":
		return fmt.Sprintf("%s must be an absolute http(s) URL", fe.Field())
	case "required_with":
		return fmt.Sprintf("%s is required when any of backend_client_id, backend_client_secret, backend_token_url is set", fe.Field())
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with backend_client_id", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must not be negative", fe.Field())
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}
