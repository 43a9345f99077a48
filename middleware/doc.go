// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Sessions

RequireSession resolves the browser's session and redirects to /login when
nobody is signed in. RedirectIfAuthenticated does the opposite for the
sign-in pages:

	mux.HandleFunc("GET /dashboard", middleware.RequireSession(sessions, h.Dashboard))

RequireSessionJSON answers anonymous requests with a JSON 401 instead.
All of them store the session in the request context (see session.FromContext).

# Flash Notices

A flash is a one-shot notice carried across a redirect in the
formguard_flash cookie:

	middleware.Redirect(w, r, "/forms", models.FlashSuccess, "Form updated")

PopFlash reads and expires it when the next page renders.

# Rate Limiting

RateLimit applies a per-client-IP token bucket (golang.org/x/time/rate).
Rejected requests are redirected back with an error notice; client IPs are
logged only as salted hashes.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadGateway, "message")

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
