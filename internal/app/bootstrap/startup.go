// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/ssoadmin/internal/app/resources"
	"github.com/dalemusser/ssoadmin/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the back-end
// dependencies are built, but before the HTTP handler is built. It loads
// the shared layout templates and applies handler deadlines.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Load:   appCfg.TimeoutLoad,
		Submit: appCfg.TimeoutSubmit,
	})
	cur := timeouts.Current()
	logger.Info("handler timeouts",
		zap.Duration("ping", cur.Ping),
		zap.Duration("load", cur.Load),
		zap.Duration("submit", cur.Submit))
	return nil
}
