package viewdata

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/ssoadmin/internal/app/system/flash"
	"github.com/dalemusser/ssoadmin/internal/app/system/htmlsanitize"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// SiteName is shown in the page header and title.
const SiteName = "SSO Admin"

// FlashVM is a flash message ready for display as a toast.
type FlashVM struct {
	ID   string
	Type string
	Text template.HTML
}

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back", flashes),
//	}
type BaseVM struct {
	SiteName string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// One-time notifications popped from the session
	Flashes []FlashVM
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
//   - flashes: messages already popped from the flash store
func NewBaseVM(r *http.Request, title, backDefault string, flashes []flash.Message) BaseVM {
	return BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		Flashes:     Flashes(flashes),
	}
}

// Flashes converts flash messages for display, sanitizing backend text.
func Flashes(msgs []flash.Message) []FlashVM {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]FlashVM, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, FlashVM{
			ID:   m.ID,
			Type: string(m.Type),
			Text: htmlsanitize.Message(m.Text),
		})
	}
	return out
}
