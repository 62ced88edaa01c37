/*
Package handler provides the HTTP handlers and routing setup for the Voyago server.

This file contains authentication: the login and registration forms, the
credential and registration POST handlers, and logout.
*/
package handler

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"voyago/internal/app/session"
	"voyago/internal/app/store"
	"voyago/internal/pkg/errs"
	"voyago/internal/pkg/logx"
	"voyago/internal/pkg/views"
)

const (
	// loginErrorMessage is shared between the empty-field and bad-credential
	// cases so responses never reveal whether a username exists.
	loginErrorMessage = "Invalid username or password."

	// registerErrorMessage is shared between the empty-field and duplicate
	// cases, mirroring the login message policy.
	registerErrorMessage = "Username already exists or fields are empty."

	// registerSuccessFlash is the one-shot flash key consumed by the login page.
	registerSuccessFlash = "registerSuccess"

	storeDownMessage = "Database is not ready yet. Please try again in a moment."
)

// HandleIndex redirects to /home for logged-in sessions and /login otherwise.
func HandleIndex(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromRequest(r)
		if sess != nil {
			if _, ok := sess.User(); ok {
				http.Redirect(w, r, "/home", http.StatusFound)
				return
			}
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

// HandleLoginPage renders the login form, consuming the one-shot
// registration flash if the session carries one.
func HandleLoginPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		success := ""
		if sess := session.FromRequest(r); sess != nil {
			success = sess.PopFlash(registerSuccessFlash)
		}

		deps.Views.Render(w, http.StatusOK, "login.html", views.LoginData{
			BaseData: baseData(r),
			Success:  success,
		})
	}
}

// HandleLogin verifies the submitted credentials against the user store and,
// on success, marks the session as logged in and redirects to /home.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			renderError(deps, w, r, errs.New(http.StatusInternalServerError, storeDownMessage))
			return
		}

		username := strings.TrimSpace(r.FormValue("username"))
		password := strings.TrimSpace(r.FormValue("password"))

		if username == "" || password == "" {
			deps.Views.Render(w, http.StatusBadRequest, "login.html", views.LoginData{
				BaseData: baseData(r),
				Error:    loginErrorMessage,
			})
			return
		}

		user, err := deps.Store.GetByUsername(r.Context(), username)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			logx.Error(err, "login: user lookup failed", "username", username)
			renderError(deps, w, r, errs.Wrap(http.StatusInternalServerError, "Something went wrong. Please try again.", err))
			return
		}

		if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			logx.Warn("login: invalid credentials", "username", username)
			deps.Views.Render(w, http.StatusUnauthorized, "login.html", views.LoginData{
				BaseData: baseData(r),
				Error:    loginErrorMessage,
			})
			return
		}

		sess := session.FromRequest(r)
		sess.SetUser(username)

		http.Redirect(w, r, "/home", http.StatusFound)
	}
}

// HandleRegistrationPage renders the registration form.
func HandleRegistrationPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Views.Render(w, http.StatusOK, "registration.html", views.RegistrationData{
			BaseData: baseData(r),
		})
	}
}

// HandleRegister creates a new user document with an empty want-to-go list.
// Registration does not log the user in; it sets a one-shot flash and
// redirects to the login page.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			renderError(deps, w, r, errs.New(http.StatusInternalServerError, storeDownMessage))
			return
		}

		username := strings.TrimSpace(r.FormValue("username"))
		password := strings.TrimSpace(r.FormValue("password"))

		if username == "" || password == "" {
			deps.Views.Render(w, http.StatusBadRequest, "registration.html", views.RegistrationData{
				BaseData: baseData(r),
				Error:    registerErrorMessage,
			})
			return
		}

		_, err := deps.Store.GetByUsername(r.Context(), username)
		if err == nil {
			deps.Views.Render(w, http.StatusBadRequest, "registration.html", views.RegistrationData{
				BaseData: baseData(r),
				Error:    registerErrorMessage,
			})
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			logx.Error(err, "register: user lookup failed", "username", username)
			renderError(deps, w, r, errs.Wrap(http.StatusInternalServerError, "Something went wrong. Please try again.", err))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logx.Error(err, "register: password hashing failed")
			renderError(deps, w, r, errs.Wrap(http.StatusInternalServerError, "Something went wrong. Please try again.", err))
			return
		}

		err = deps.Store.Create(r.Context(), username, string(hashedPassword))
		if err != nil {
			// The existence pre-check races with concurrent registrations;
			// the unique constraint is the backstop.
			if errors.Is(err, store.ErrAlreadyExists) {
				logx.Warn("register: username already exists", "username", username)
				deps.Views.Render(w, http.StatusBadRequest, "registration.html", views.RegistrationData{
					BaseData: baseData(r),
					Error:    registerErrorMessage,
				})
				return
			}

			logx.Error(err, "register: user insert failed", "username", username)
			renderError(deps, w, r, errs.Wrap(http.StatusInternalServerError, "Something went wrong. Please try again.", err))
			return
		}

		if sess := session.FromRequest(r); sess != nil {
			sess.SetFlash(registerSuccessFlash, "Registration successful. Please log in.")
		}

		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

// HandleLogout destroys the session entirely and redirects to the login page.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Sessions.Destroy(w, session.FromRequest(r))
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}
