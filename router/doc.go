// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the FormGuard dashboard.

# Route Registration

NewRouter creates a configured http.ServeMux with all pages:

	mux, err := router.NewRouter(db, cfg, apiclient.New(cfg.APIURL, nil))

# Endpoints

Public:

	GET /health
	GET /, /about, /blog, /terms, /privacy
	GET /auth/verify?token=   - Magic link landing
	POST /logout

Sign-in (signed-in users are sent to /dashboard; POSTs are rate limited):

	GET/POST /login
	GET/POST /register

Signed in (anonymous requests are sent to /login):

	GET /dashboard, /dashboard/charts, /analytics
	GET/POST /forms
	GET/POST /forms/{id}
	GET/POST /forms/{id}/delete, /forms/{id}/regenerate-key
	GET /submissions, /submissions/export
	GET/POST /submissions/{id}
	GET/POST /submissions/{id}/delete
	GET/POST /settings
	POST /settings/members
	GET/POST /settings/members/{id}/remove
	GET /settings/billing     - Payment provider return URL
	POST /settings/billing/checkout, /settings/billing/portal

/dashboard/charts is JSON, so an anonymous request gets a 401 error body
instead of the redirect.

Destructive GET routes only render a confirmation page; the action runs on
POST with confirm=yes.

# Handler Initialization

The router shares one session.Manager across handlers and gives the
magic-link and payment callbacks separate gates.
*/
package router
