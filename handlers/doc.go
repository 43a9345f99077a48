// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the page handlers of the FormGuard dashboard.

# Handler Types

Each handler is a struct holding the API client and the template renderer:

  - AuthHandler: Magic-link sign-in, registration, verification, logout
  - DashboardHandler: Overview stats and charts
  - FormsHandler: Form list, creation, settings and API keys
  - SubmissionsHandler: Filtered submission list, export and review
  - SettingsHandler: Organization, members and billing
  - PagesHandler: Marketing pages and placeholders

Handlers are created via constructor functions:

	formsHandler := handlers.NewFormsHandler(api, renderer)

Signed-in handlers expect the session in the request context
(middleware.RequireSession) and call the API with its bearer token.

# Upstream Calls

Pages that need several API calls issue them concurrently with errgroup
and render whatever arrived. Failures are logged and shown as a flash
notice; they never become a 500.

# Destructive Actions

Delete, key regeneration and member removal render a confirmation page
unless the POST carries confirm=yes. No API request is made before that.

# One-shot Callbacks

Magic-link verification and payment verification run through a
session.Gate keyed by the link token or checkout session id, so a
double-clicked or prefetched link reaches the API at most once at a time
and never again after it succeeded.
*/
package handlers
