/*
Package views renders the server-side HTML pages.

Templates are embedded into the binary and parsed once at startup. Rendering
goes through a buffer first so a template failure never leaks a half-written
page or a wrong status code.
*/
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"voyago/internal/app/catalog"
	"voyago/internal/pkg/logx"
)

//go:embed templates/*.html
var templateFS embed.FS

// BaseData carries the fields every view receives.
type BaseData struct {
	// CurrentUser is the logged-in username, empty when logged out.
	CurrentUser string
}

// LoginData feeds the login form view.
type LoginData struct {
	BaseData
	Error   string
	Success string
}

// RegistrationData feeds the registration form view.
type RegistrationData struct {
	BaseData
	Error string
}

// PageData feeds the fixed pages (home and the category pages).
type PageData struct {
	BaseData
}

// DestinationData feeds a destination page, including the in-page
// error/success messages used by the want-to-go flow.
type DestinationData struct {
	BaseData
	Dest    catalog.Destination
	Error   string
	Success string
}

// WantToGoData feeds the want-to-go list view.
type WantToGoData struct {
	BaseData
	Destinations []catalog.Destination
}

// SearchData feeds the search results view.
type SearchData struct {
	BaseData
	Results  []catalog.Destination
	NotFound bool
}

// ErrorData feeds the generic error page. Detail is populated only in
// the development environment.
type ErrorData struct {
	BaseData
	Status  int
	Message string
	Detail  string
}

// Renderer executes the embedded template set.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse view templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render executes the named template with data and writes it with the given
// HTTP status. A template execution failure degrades to a plain 500.
func (v *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := v.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logx.Error(err, "Failed to render view", "view", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
