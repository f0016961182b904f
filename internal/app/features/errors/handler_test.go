package errors_test

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/ssoadmin/internal/app/features/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type captured struct {
	name string
	data any
}

func capture(c *captured) uierrors.RenderFunc {
	return func(w http.ResponseWriter, r *http.Request, name string, data any) {
		c.name, c.data = name, data
		w.WriteHeader(http.StatusOK)
	}
}

func TestNotFound(t *testing.T) {
	var c captured
	h := uierrors.NewHandler()
	h.Render = capture(&c)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest("GET", "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if c.name != "error_page" {
		t.Errorf("template = %q, want error_page", c.name)
	}
}

func TestLogBadGateway_LogsAndRenders(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var c captured
	el := uierrors.NewErrorLogger(zap.New(core))
	el.Render = capture(&c)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/settings", nil)
	el.LogBadGateway(rec, req, "load settings failed", stderrors.New("connection refused"), "Could not reach the settings service.", "/settings")

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	entries := logs.FilterMessage("load settings failed").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	if entries[0].ContextMap()["path"] != "/settings" {
		t.Errorf("path field = %v", entries[0].ContextMap()["path"])
	}
}

func TestLogServerError_Renders500(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var c captured
	el := uierrors.NewErrorLogger(zap.New(core))
	el.Render = capture(&c)

	rec := httptest.NewRecorder()
	el.LogServerError(rec, httptest.NewRequest("GET", "/settings", nil), "model lookup failed", stderrors.New("unknown model"), "The settings form is misconfigured.", "/")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if c.name != "error_page" {
		t.Errorf("template = %q, want error_page", c.name)
	}
	if got := logs.FilterLevelExact(zap.ErrorLevel).Len(); got != 1 {
		t.Errorf("error entries = %d, want 1", got)
	}
}
