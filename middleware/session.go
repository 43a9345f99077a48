// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"

	"github.com/danielhkuo/formguard-web/session"
)

// RequireSession resolves the browser's session and redirects to /login
// when nobody is signed in. The session is stored in the request context.
func RequireSession(m *session.Manager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := m.Load(w, r)
		if !s.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(session.NewContext(r.Context(), s)))
	}
}

// RequireSessionJSON is RequireSession for JSON endpoints: anonymous
// requests get a 401 error body instead of a redirect to the login page.
func RequireSessionJSON(m *session.Manager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := m.Load(w, r)
		if !s.Authenticated() {
			ErrorResponse(w, http.StatusUnauthorized, "Your session has expired. Please sign in again.")
			return
		}
		next(w, r.WithContext(session.NewContext(r.Context(), s)))
	}
}

// RedirectIfAuthenticated sends signed-in users to /dashboard. Anonymous
// requests continue with their (empty) session in the context.
func RedirectIfAuthenticated(m *session.Manager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := m.Load(w, r)
		if s.Authenticated() {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(session.NewContext(r.Context(), s)))
	}
}
