// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/ssoadmin/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
}

// RenderFunc renders a named template. Tests swap it out.
type RenderFunc func(w http.ResponseWriter, r *http.Request, name string, data any)

// DefaultRender renders through the WAFFLE template engine.
func DefaultRender(w http.ResponseWriter, r *http.Request, name string, data any) {
	templates.Render(w, r, name, data)
}

// Handler is the errors feature handler.
// No backend needed; it just renders templates.
type Handler struct {
	Render RenderFunc
}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{Render: DefaultRender}
}

// NotFound renders the friendly 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderError(h.Render, w, r, http.StatusNotFound, "The page you requested does not exist.", "/settings")
}

// MethodNotAllowed renders a 405 page.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	renderError(h.Render, w, r, http.StatusMethodNotAllowed, "That action is not supported here.", "/settings")
}

func renderError(render RenderFunc, w http.ResponseWriter, r *http.Request, status int, msg, backURL string) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, http.StatusText(status), backURL, nil),
		Status:  status,
		Message: msg,
	}
	render(viewdata.WithStatus(w, status), r, "error_page", data)
}
