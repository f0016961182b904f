package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/ssoadmin/internal/app/system/backend"
	"github.com/dalemusser/ssoadmin/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// checkPath is fetched to verify the settings backend answers.
const checkPath = "/settings/sso/object/"

// Pinger is the backend call the health check needs.
type Pinger interface {
	Get(ctx context.Context, path string) (*backend.Response, error)
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Backend Pinger
	BaseURL string
	Log     *zap.Logger
}

// NewHandler constructs a health Handler with the backend client and logger.
func NewHandler(be Pinger, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Backend: be,
		BaseURL: baseURL,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "backend":"connected", "url":"https://api.example.com" }
//
// On backend failure: 503 and
//
//	{ "status":"error", "backend":"disconnected", "message":"Settings backend unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:  "ok",
		Backend: "connected",
		URL:     h.BaseURL,
	}

	res, err := h.Backend.Get(ctx, checkPath)
	if err == nil && !res.OK() {
		err = &statusError{code: res.StatusCode, text: res.StatusText()}
	}
	if err != nil {
		h.Log.Error("health-check: backend check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Backend = "disconnected"
		resp.Message = "Settings backend unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
