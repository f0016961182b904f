// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/ssoadmin/internal/app/system/backend"
	"github.com/dalemusser/ssoadmin/internal/app/system/schemas"
	"github.com/prometheus/client_golang/prometheus"
)

// DBDeps holds back-end dependencies for the app. This app has no database
// of its own; the settings backend owns storage.
type DBDeps struct {
	Backend  *backend.Client
	Schemas  *schemas.Registry
	Registry *prometheus.Registry
}
