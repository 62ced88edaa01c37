/*
Package handler provides the HTTP handlers and routing setup for the Voyago server.

This file contains the terminal error rendering: forwarded HTTPErrors,
unmatched routes, and recovered handler panics all end up on the generic
error page, with full detail exposed only in development.
*/
package handler

import (
	"fmt"
	"net/http"

	"voyago/internal/app/session"
	"voyago/internal/pkg/errs"
	"voyago/internal/pkg/logx"
	"voyago/internal/pkg/views"
)

// baseData extracts the per-request view fields shared by every page.
func baseData(r *http.Request) views.BaseData {
	if sess := session.FromRequest(r); sess != nil {
		if username, ok := sess.User(); ok {
			return views.BaseData{CurrentUser: username}
		}
	}
	return views.BaseData{}
}

// renderError renders the generic error page for the given HTTPError.
// The underlying cause is included only in the development environment.
func renderError(deps *AppDeps, w http.ResponseWriter, r *http.Request, httpErr *errs.HTTPError) {
	detail := ""
	if deps.Config.Environment == "development" && httpErr.Err != nil {
		detail = httpErr.Err.Error()
	}

	data := views.ErrorData{
		BaseData: baseData(r),
		Status:   httpErr.StatusCode(),
		Message:  httpErr.Message,
		Detail:   detail,
	}

	deps.Views.Render(w, httpErr.StatusCode(), "error.html", data)
}

// HandleNotFound renders the 404 error page for unmatched routes.
func HandleNotFound(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderError(deps, w, r, errs.NotFound())
	}
}

// recoverer converts handler panics into a rendered 500 error page
// instead of a dropped connection.
func recoverer(deps *AppDeps) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}

					err := fmt.Errorf("panic: %v", rvr)
					logx.Error(err, "Recovered handler panic", "path", r.URL.Path)
					renderError(deps, w, r, errs.Wrap(http.StatusInternalServerError, "Something went wrong. Please try again.", err))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// redirectWithStatus writes a Location header with a non-3xx status code.
// Used where an operation funnels to a redirect but still reports its
// failure class in the status.
func redirectWithStatus(w http.ResponseWriter, location string, status int) {
	w.Header().Set("Location", location)
	w.WriteHeader(status)
}
