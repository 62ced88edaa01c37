package handler

import (
	"net/http"

	"voyago/internal/app/catalog"
	"voyago/internal/pkg/views"
)

// HandlePage renders one of the fixed views (home and the category pages).
// No database access happens on these routes.
func HandlePage(deps *AppDeps, view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Views.Render(w, http.StatusOK, view, views.PageData{
			BaseData: baseData(r),
		})
	}
}

// HandleDestinationPage renders a destination page with empty error/success
// display parameters. The want-to-go flow re-renders the same view with
// messages via renderDestination.
func HandleDestinationPage(deps *AppDeps, key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderDestination(deps, w, r, key, http.StatusOK, "", "")
	}
}

// renderDestination is the shared destination page renderer, parameterized by
// destination key and the in-page error/success messages. Callers must have
// validated the key against the catalog.
func renderDestination(deps *AppDeps, w http.ResponseWriter, r *http.Request, key string, status int, errMsg, successMsg string) {
	dest, _ := catalog.Lookup(key)

	deps.Views.Render(w, status, "destination.html", views.DestinationData{
		BaseData: baseData(r),
		Dest:     dest,
		Error:    errMsg,
		Success:  successMsg,
	})
}
