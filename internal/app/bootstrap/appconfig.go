// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig carries what is specific to the SSO settings console: where
// the settings backend lives and how to authenticate to it, the flash
// cookie, and the model registry override.
//
// The `key` tag names the config key so validation errors point at what
// an operator actually sets.
type AppConfig struct {
	// Settings backend
	BackendBaseURL      string        `key:"backend_base_url" validate:"required,http_url"`
	BackendTimeout      time.Duration `key:"backend_timeout" validate:"gte=0"`
	BackendToken        string        `key:"backend_token" validate:"excluded_with=BackendClientID"`
	BackendClientID     string        `key:"backend_client_id" validate:"required_with=BackendClientSecret BackendTokenURL"`
	BackendClientSecret string        `key:"backend_client_secret" validate:"required_with=BackendClientID BackendTokenURL"`
	BackendTokenURL     string        `key:"backend_token_url" validate:"required_with=BackendClientID BackendClientSecret,omitempty,http_url"`

	// Flash cookie
	SessionKey    string `key:"session_key"`                      // Secret key for signing session cookies (must be strong in production)
	SessionName   string `key:"session_name" validate:"required"` // Cookie name for sessions (default: ssoadmin-session)
	SessionDomain string `key:"session_domain"`                   // Cookie domain (blank means current host)

	// Model registry override; blank uses the embedded definitions
	ModelsFile string `key:"models_file"`

	// Observability
	MetricsEnabled bool `key:"metrics_enabled"`

	// Handler deadlines; zero keeps the defaults
	TimeoutPing   time.Duration `key:"timeout_ping" validate:"gte=0"`
	TimeoutLoad   time.Duration `key:"timeout_load" validate:"gte=0"`
	TimeoutSubmit time.Duration `key:"timeout_submit" validate:"gte=0"`
}
