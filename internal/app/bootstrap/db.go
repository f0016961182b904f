// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dalemusser/ssoadmin/internal/app/system/backend"
	"github.com/dalemusser/ssoadmin/internal/app/system/schemas"
	"github.com/dalemusser/waffle/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

// ConnectDB builds the back-end dependencies: the settings API client
// (with metrics and, when configured, OAuth2 client-credentials auth) and
// the model registry.
//
// Nothing is dialed here; the first request (or /health) reaches the
// backend.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []backend.Option{
		backend.WithTimeout(appCfg.BackendTimeout),
		backend.WithMetrics(backend.NewMetrics(reg)),
	}
	switch {
	case appCfg.BackendClientID != "":
		cc := clientcredentials.Config{
			ClientID:     appCfg.BackendClientID,
			ClientSecret: appCfg.BackendClientSecret,
			TokenURL:     appCfg.BackendTokenURL,
		}
		// Token refreshes outlive ctx, which only covers startup.
		opts = append(opts, backend.WithHTTPClient(cc.Client(context.Background())))
		logger.Info("backend auth: oauth2 client credentials",
			zap.String("token_url", appCfg.BackendTokenURL))
	case appCfg.BackendToken != "":
		opts = append(opts, backend.WithToken(appCfg.BackendToken))
		logger.Info("backend auth: static bearer token")
	default:
		logger.Warn("backend auth: none configured")
	}

	client := backend.New(appCfg.BackendBaseURL, logger.Named("backend"), opts...)

	models, err := loadModels(appCfg.ModelsFile)
	if err != nil {
		logger.Error("model registry load failed",
			zap.String("models_file", appCfg.ModelsFile), zap.Error(err))
		return DBDeps{}, err
	}

	logger.Info("settings backend configured",
		zap.String("base_url", client.BaseURL()),
		zap.Duration("timeout", appCfg.BackendTimeout),
		zap.Strings("models", models.IDs()))

	return DBDeps{Backend: client, Schemas: models, Registry: reg}, nil
}

// loadModels returns the embedded registry, or the one described by path.
// Schema files named in an override are resolved relative to it.
func loadModels(path string) (*schemas.Registry, error) {
	if path == "" {
		return schemas.Default()
	}
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	reg, err := schemas.Load(os.DirFS(dir), name)
	if err != nil {
		return nil, fmt.Errorf("load models from %s: %w", path, err)
	}
	return reg, nil
}

// EnsureSchema checks that the registry describes every model the
// handlers serve.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Schemas == nil {
		return fmt.Errorf("model registry not loaded")
	}
	if _, err := deps.Schemas.ModelInfo(schemas.IdentityProviders); err != nil {
		return fmt.Errorf("model registry: %w", err)
	}
	if _, err := deps.Schemas.Schema(schemas.IdentityProviders); err != nil {
		return fmt.Errorf("model registry: %w", err)
	}
	return nil
}
