// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the FormGuard dashboard server.

FormGuard scores form submissions for fraud and quality. This server renders
the customer dashboard (sign-in, forms, submissions, settings and billing)
on top of the FormGuard REST API. It keeps no domain data of its own; the
only local state is the session token store.

# Starting the Server

The server requires a device cookie secret and the API location:

	DEVICE_COOKIE_SALT=... API_URL=https://api.formguard.com go run .

Or with flags:

	go run . -p 3320 -api http://localhost:3000 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DEVICE_COOKIE_SALT (-device-salt): Secret for signing the browser id cookie

Optional settings:

  - PORT (-p): Server port (default: 3320)
  - API_URL (-api): FormGuard REST API base URL
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Token store connection string
  - SECURE_COOKIES (-secure-cookies): Mark cookies Secure
  - -c: YAML file with defaults; -env: dotenv file (default .env)

# Architecture

  - handlers: Page handlers (auth, dashboard, forms, submissions, settings)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Logging, sessions, flash notices, rate limiting, JSON helpers
  - session: Session lifecycle, token stores and the operation gate
  - apiclient: REST API client
  - aggregate: Dashboard chart aggregation
  - views: Embedded HTML templates and display formatting
  - models: API payload types
  - auth: Device id signing and IP hashing
  - db: Token store schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
