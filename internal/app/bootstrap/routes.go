// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/ssoadmin/internal/app/features/errors"
	healthfeature "github.com/dalemusser/ssoadmin/internal/app/features/health"
	settingsfeature "github.com/dalemusser/ssoadmin/internal/app/features/settings"
	"github.com/dalemusser/ssoadmin/internal/app/system/flash"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, back-end setup, schema checks, and
// the Startup hook have completed. It creates the flash store, boots the
// template engine, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	flashStore, err := flash.NewStore(sessionKey(appCfg, logger), appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("flash store init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	return newRouter(appCfg, deps, flashStore, logger), nil
}

// newRouter mounts every route. Split from BuildHandler so tests can build
// the router without booting templates.
func newRouter(appCfg AppConfig, deps DBDeps, flashStore *flash.Store, logger *zap.Logger) chi.Router {
	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Backend, deps.Backend.BaseURL(), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if appCfg.MetricsEnabled && deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
	})

	settingsHandler := settingsfeature.NewHandler(deps.Backend, deps.Schemas, flashStore, errLog, logger)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler))

	return r
}

// sessionKey returns the configured key, or in development a random one so
// the app starts without setup. Flashes do not survive a restart then.
func sessionKey(appCfg AppConfig, logger *zap.Logger) string {
	if appCfg.SessionKey != "" {
		return appCfg.SessionKey
	}
	logger.Warn("session_key not set; using a random per-process key")
	return string(securecookie.GenerateRandomKey(32))
}
