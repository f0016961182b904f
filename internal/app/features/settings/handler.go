// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/ssoadmin/internal/app/features/errors"
	"github.com/dalemusser/ssoadmin/internal/app/system/backend"
	"github.com/dalemusser/ssoadmin/internal/app/system/flash"
	"github.com/dalemusser/ssoadmin/internal/app/system/schemas"
	"go.uber.org/zap"
)

// Backend endpoints for SSO settings.
const (
	settingsPath       = "/settings/sso/"
	settingsObjectPath = "/settings/sso/object/"
)

// Backend is the subset of the settings API client the handlers use.
type Backend interface {
	Get(ctx context.Context, path string) (*backend.Response, error)
	PutJSON(ctx context.Context, path string, body any) (*backend.Response, error)
}

// FlashStore queues and pops one-time notifications.
type FlashStore interface {
	Set(w http.ResponseWriter, r *http.Request, m flash.Message) error
	Pop(w http.ResponseWriter, r *http.Request) []flash.Message
}

// Handler owns the SSO settings page: load and submit.
type Handler struct {
	Backend  Backend
	Registry *schemas.Registry
	Flash    FlashStore
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Render   uierrors.RenderFunc
}

// NewHandler constructs a Handler bound to the backend client, schema
// registry, flash store, and logger.
func NewHandler(be Backend, reg *schemas.Registry, fl FlashStore, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Backend:  be,
		Registry: reg,
		Flash:    fl,
		Log:      logger,
		ErrLog:   errLog,
		Render:   uierrors.DefaultRender,
	}
}

// fail logs err and renders the error page: 500 for local model faults,
// 502 for anything the backend caused.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	if errors.Is(err, ErrModel) {
		h.ErrLog.LogServerError(w, r, msg, err,
			"The settings form is misconfigured. Check the model definitions.", backURL)
		return
	}
	h.ErrLog.LogBadGateway(w, r, msg, err, userMsg, backURL)
}
