package handler

import (
	"net/http"

	"voyago/internal/app/catalog"
	"voyago/internal/pkg/views"
)

// HandleSearch matches the submitted query against the destination catalog.
// The search is case-insensitive and substring-based, purely in-memory, and
// preserves catalog order in the results.
func HandleSearch(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := catalog.Search(r.FormValue("Search"))

		deps.Views.Render(w, http.StatusOK, "searchresults.html", views.SearchData{
			BaseData: baseData(r),
			Results:  results,
			NotFound: len(results) == 0,
		})
	}
}
