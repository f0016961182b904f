// Package timeouts provides centralized timeout values for handler operations.
//
// These bound the backend calls an HTTP handler makes with context.WithTimeout.
// The per-call HTTP client timeout still applies; these cap the whole
// sequence a handler runs (a page load issues one call per select field).
//
// Timeouts can be configured at startup using Configure(). If not configured,
// sensible defaults are used.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Load: rendering the settings page (settings object plus option lists)
//   - Submit: forwarding a form and re-rendering on failure
package timeouts

import (
	"sync"
	"time"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultLoad   = 15 * time.Second
	DefaultSubmit = 30 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

var (
	ping   = DefaultPing
	load   = DefaultLoad
	submit = DefaultSubmit
)

// Ping returns the timeout for health checks against the settings backend.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Load returns the timeout for loading the settings page.
func Load() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return load
}

// Submit returns the timeout for a settings submission, including the
// page reload that follows a rejected update.
func Submit() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return submit
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping   time.Duration
	Load   time.Duration
	Submit time.Duration
}

// Configure sets custom timeout values. Zero values in the config are ignored,
// keeping the current (or default) values. This should be called during
// application startup before handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Load > 0 {
		load = cfg.Load
	}
	if cfg.Submit > 0 {
		submit = cfg.Submit
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	load = DefaultLoad
	submit = DefaultSubmit
}

// Current returns the current timeout configuration as a Config struct.
// Useful for logging or debugging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{
		Ping:   ping,
		Load:   load,
		Submit: submit,
	}
}
