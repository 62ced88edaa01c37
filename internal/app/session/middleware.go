package session

import (
	"context"
	"net/http"

	"voyago/internal/pkg/logx"
)

// CookieName is the name of the session cookie.
const CookieName = "voyago_sid"

// contextKey prevents collisions with context keys from other packages.
type contextKey string

const sessionContextKey contextKey = "session"

// Attach is the session middleware. It resolves the request's session bag
// from the cookie, creating a new bag (and setting the cookie) when the
// request carries none or an invalid one. The bag is injected into the
// request context for handlers to read via FromRequest.
func (m *Manager) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *Session

		if cookie, err := r.Cookie(CookieName); err == nil {
			if id, err := parseToken(cookie.Value, m.secret); err == nil {
				sess = m.lookup(id)
			} else {
				// Tampered or expired cookie. A fresh anonymous session replaces it.
				logx.Warn("Invalid session cookie, issuing a new session", "error", err)
			}
		}

		if sess == nil {
			sess = m.create()

			token, err := generateToken(sess.id, m.secret, m.ttl)
			if err != nil {
				m.remove(sess.id)
				logx.Error(err, "Failed to sign session cookie token")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(m.ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromRequest returns the session bag attached to the request, or nil when
// the Attach middleware did not run.
func FromRequest(r *http.Request) *Session {
	sess, _ := r.Context().Value(sessionContextKey).(*Session)
	return sess
}

// Destroy removes the session bag entirely and expires the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, s *Session) {
	if s != nil {
		m.remove(s.id)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
