// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package views renders the server-side HTML pages.

Templates are embedded from templates/. Each page file defines a "content"
block and is parsed together with layout.html, which supplies navigation,
the flash notification and shared partials (scoreBadge, actionBadge,
formName, autoActionFields).

	r, err := views.New()
	r.Render(w, http.StatusOK, "dashboard", views.Page{
		Title: "Dashboard",
		User:  s.User,
		Data:  views.DashboardData{...},
	})

# Formatting

  - FormatNumber: thousands separators (go-humanize)
  - RelativeDate: "Just now", "N minutes ago", "N days ago", short date past 30 days
  - ScoreColor: green at 71 and above, yellow at 41 and above, red below
  - TruncateEmail: fits addresses into 30 characters, keeping the domain
  - MaskAPIKey: first 20 characters followed by "..."
*/
package views
