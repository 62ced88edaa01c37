/*
Package handler provides the HTTP handlers and routing setup for the Voyago server.

This file contains the want-to-go list operations: add, remove, and view.
The add flow surfaces its outcomes in-page on the destination view; the
remove flow funnels every outcome into a redirect back to the list.
*/
package handler

import (
	"errors"
	"net/http"
	"slices"

	"voyago/internal/app/catalog"
	"voyago/internal/app/session"
	"voyago/internal/app/store"
	"voyago/internal/pkg/errs"
	"voyago/internal/pkg/logx"
	"voyago/internal/pkg/views"
)

const retryMessage = "An error occurred. Please try again."

// HandleAddToWantToGo appends a destination key to the session user's list.
// Duplicate adds and persistence hiccups re-render the destination page with
// an in-page message instead of surfacing an error status.
func HandleAddToWantToGo(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromRequest(r)
		username, loggedIn := "", false
		if sess != nil {
			username, loggedIn = sess.User()
		}

		// The auth guard already blocks anonymous requests; this is a backstop.
		if !loggedIn {
			renderError(deps, w, r, errs.New(http.StatusUnauthorized, "You must be logged in to add destinations to your want-to-go list."))
			return
		}

		destinationKey := r.FormValue("destinationKey")
		if _, ok := catalog.Lookup(destinationKey); !ok {
			renderError(deps, w, r, errs.New(http.StatusBadRequest, "Invalid destination."))
			return
		}

		if deps.Store == nil {
			renderError(deps, w, r, errs.New(http.StatusInternalServerError, storeDownMessage))
			return
		}

		user, err := deps.Store.GetByUsername(r.Context(), username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				renderError(deps, w, r, errs.New(http.StatusInternalServerError, "User not found in database. Please log out and log back in."))
				return
			}

			logx.Error(err, "add-to-wanttogo: user lookup failed", "username", username)
			renderDestination(deps, w, r, destinationKey, http.StatusOK, retryMessage, "")
			return
		}

		if slices.Contains(user.WantToGo, destinationKey) {
			renderDestination(deps, w, r, destinationKey, http.StatusOK, "Destination is already in your want-to-go list.", "")
			return
		}

		updated := append(user.WantToGo, destinationKey)
		if err := deps.Store.ReplaceWantToGo(r.Context(), username, updated); err != nil {
			// Soft failure: the destination page carries the retry message,
			// never a 500.
			logx.Error(err, "add-to-wanttogo: persist failed", "username", username, "destination", destinationKey)
			renderDestination(deps, w, r, destinationKey, http.StatusOK, retryMessage, "")
			return
		}

		renderDestination(deps, w, r, destinationKey, http.StatusOK, "", "Destination added to your want-to-go list!")
	}
}

// HandleRemoveFromWantToGo removes a destination key from the session user's
// list. Every outcome redirects to /wanttogo; failures only show up in the
// status code and the server-side log. Removing an absent key is a no-op.
func HandleRemoveFromWantToGo(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromRequest(r)
		username, loggedIn := "", false
		if sess != nil {
			username, loggedIn = sess.User()
		}

		if !loggedIn {
			redirectWithStatus(w, "/login", http.StatusUnauthorized)
			return
		}

		destinationKey := r.FormValue("destinationKey")
		if _, ok := catalog.Lookup(destinationKey); !ok {
			redirectWithStatus(w, "/wanttogo", http.StatusBadRequest)
			return
		}

		if deps.Store == nil {
			redirectWithStatus(w, "/wanttogo", http.StatusInternalServerError)
			return
		}

		user, err := deps.Store.GetByUsername(r.Context(), username)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				logx.Error(err, "remove-from-wanttogo: user lookup failed", "username", username)
			}
			http.Redirect(w, r, "/wanttogo", http.StatusFound)
			return
		}

		index := slices.Index(user.WantToGo, destinationKey)
		if index == -1 {
			http.Redirect(w, r, "/wanttogo", http.StatusFound)
			return
		}

		updated := slices.Delete(slices.Clone(user.WantToGo), index, index+1)
		if err := deps.Store.ReplaceWantToGo(r.Context(), username, updated); err != nil {
			logx.Error(err, "remove-from-wanttogo: persist failed", "username", username, "destination", destinationKey)
		}

		http.Redirect(w, r, "/wanttogo", http.StatusFound)
	}
}

// HandleWantToGo renders the session user's list, mapping stored keys through
// the catalog and dropping any key the catalog no longer knows.
func HandleWantToGo(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			renderError(deps, w, r, errs.New(http.StatusInternalServerError, storeDownMessage))
			return
		}

		username := ""
		if sess := session.FromRequest(r); sess != nil {
			username, _ = sess.User()
		}

		var keys []string
		user, err := deps.Store.GetByUsername(r.Context(), username)
		switch {
		case err == nil:
			keys = user.WantToGo
		case errors.Is(err, store.ErrNotFound):
			// Stale session for a vanished user renders an empty list.
		default:
			logx.Error(err, "wanttogo: user lookup failed", "username", username)
			renderError(deps, w, r, errs.Wrap(http.StatusInternalServerError, "Something went wrong. Please try again.", err))
			return
		}

		destinations := make([]catalog.Destination, 0, len(keys))
		for _, key := range keys {
			if dest, ok := catalog.Lookup(key); ok {
				destinations = append(destinations, dest)
			}
		}

		deps.Views.Render(w, http.StatusOK, "wanttogo.html", views.WantToGoData{
			BaseData:     baseData(r),
			Destinations: destinations,
		})
	}
}
