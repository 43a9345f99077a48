// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session tracks who is signed in to the dashboard.

# Token Stores

A session's bearer token is kept in two places under the same name,
formguard_token:

  - CookieStore: a 30-day cookie (Path=/, SameSite=Lax, HttpOnly)
  - DurableStore: the session_token table, keyed by the browser's device id

The device id comes from a signed, year-long formguard_device cookie
(see package auth). The durable copy lets a browser that lost its token
cookie resume its session.

# Lifecycle

Manager binds a Session to one request:

	s := manager.Load(w, r) // Open + Initialize
	if !s.Authenticated() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}

  - Initialize: cookie first, durable store second; a found token is
    re-written to both stores, then the profile is fetched
  - FetchProfile: GET /auth/me with the token; any failure clears both stores
  - Login: write both stores, then FetchProfile
  - Logout: clear both stores and the user

None of these return errors. Store and network failures are logged and
degrade to "no session", never to a remembered token without a user.

# Operation Gate

Gate is a per-key tri-state latch (NotStarted → InFlight → Done):

	if !gate.Begin(token) {
		return // already running or already succeeded
	}
	if err := verify(token); err != nil {
		gate.Fail(token) // allow a retry
		return
	}
	gate.Succeed(token)

# Request Context

Middleware stores the resolved session in the request context:

	ctx := session.NewContext(r.Context(), s)
	s, ok := session.FromContext(ctx)
*/
package session
