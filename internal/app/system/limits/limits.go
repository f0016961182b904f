// internal/app/system/limits/limits.go
package limits

// Request body size limits. These help prevent memory exhaustion from
// oversized requests.
const (
	// MaxSettingsFormSize is the maximum size for settings form submissions.
	// PEM certificates are the largest values the form carries.
	MaxSettingsFormSize = 1 << 20 // 1 MB
)
