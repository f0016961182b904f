// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrorLogger logs a failure with request context and renders the error page.
type ErrorLogger struct {
	Log    *zap.Logger
	Render RenderFunc
}

// NewErrorLogger returns an ErrorLogger that renders with the template engine.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger, Render: DefaultRender}
}

// LogServerError logs err and renders a 500 page with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(zap.ErrorLevel, r, msg, err, http.StatusInternalServerError)
	renderError(e.Render, w, r, http.StatusInternalServerError, userMsg, backURL)
}

// LogBadGateway logs err and renders a 502 page; used when the settings
// backend is unreachable or answers with something unusable.
func (e *ErrorLogger) LogBadGateway(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(zap.ErrorLevel, r, msg, err, http.StatusBadGateway)
	renderError(e.Render, w, r, http.StatusBadGateway, userMsg, backURL)
}

func (e *ErrorLogger) log(level zapcore.Level, r *http.Request, msg string, err error, status int) {
	if ce := e.Log.Check(level, msg); ce != nil {
		ce.Write(
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
}
