/*
Package handler provides the HTTP handlers and routing setup for the Voyago server.

This file defines the main Router, applying the middleware chain (request ID,
logging, panic recovery, session attachment, auth guard) before delegating to
the route handlers. Credential endpoints additionally sit behind a per-IP
rate limiter.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"voyago/internal/app/catalog"
	"voyago/internal/app/session"
	"voyago/internal/pkg/errs"
	"voyago/internal/pkg/limiter"
	"voyago/internal/pkg/logx"
)

const (
	AuthRate  = 0.5
	AuthBurst = 5
)

// publicPaths lists the routes reachable without a session user.
// Everything else is redirected to the login page by the auth guard.
var publicPaths = map[string]struct{}{
	"/":             {},
	"/login":        {},
	"/registration": {},
	"/register":     {},
	"/logout":       {},
	"/health":       {},
}

// authGuard redirects requests outside the public allow-list to /login
// unless the session carries a logged-in user. It runs after session
// attachment and before routing, so unmatched paths are guarded too.
func authGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := publicPaths[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		if sess := session.FromRequest(r); sess != nil {
			if _, ok := sess.User(); ok {
				next.ServeHTTP(w, r)
				return
			}
		}

		http.Redirect(w, r, "/login", http.StatusFound)
	})
}

// Router sets up the main HTTP routing table (chi.Router) for the application.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderError(deps, w, r, errs.New(http.StatusTooManyRequests, "Too many attempts. Please try again later."))
	}))

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(recoverer(deps))
	r.Use(deps.Sessions.Attach)
	r.Use(authGuard)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","service":"Voyago Server"}`))
	})

	r.Get("/", HandleIndex(deps))

	r.Get("/login", HandleLoginPage(deps))
	r.With(authLimiter.Middleware).Post("/login", HandleLogin(deps))
	r.Get("/registration", HandleRegistrationPage(deps))
	r.With(authLimiter.Middleware).Post("/register", HandleRegister(deps))
	r.Get("/logout", HandleLogout(deps))
	r.Post("/logout", HandleLogout(deps))

	r.Get("/home", HandlePage(deps, "home.html"))
	r.Get("/hiking", HandlePage(deps, "hiking.html"))
	r.Get("/cities", HandlePage(deps, "cities.html"))
	r.Get("/islands", HandlePage(deps, "islands.html"))

	for _, dest := range catalog.All() {
		r.Get(dest.Path, HandleDestinationPage(deps, dest.Key))
	}

	r.Post("/add-to-wanttogo", HandleAddToWantToGo(deps))
	r.Post("/remove-from-wanttogo", HandleRemoveFromWantToGo(deps))
	r.Get("/wanttogo", HandleWantToGo(deps))

	r.Post("/search", HandleSearch(deps))

	// A method mismatch on a known path is an unmatched route here, same as
	// an unknown path: both land on the 404 error page.
	r.NotFound(HandleNotFound(deps))
	r.MethodNotAllowed(HandleNotFound(deps))

	return r
}
