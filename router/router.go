// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/formguard-web/apiclient"
	"github.com/danielhkuo/formguard-web/cliparse"
	"github.com/danielhkuo/formguard-web/handlers"
	"github.com/danielhkuo/formguard-web/middleware"
	"github.com/danielhkuo/formguard-web/session"
	"github.com/danielhkuo/formguard-web/views"
)

// Sign-in requests allowed per client IP: a burst of 5, then one every 12s
const (
	signInBurst    = 5
	signInInterval = time.Minute / signInBurst
)

// Pages lists every template the handlers render
var Pages = []string{
	"home", "about", "blog", "terms", "privacy", "analytics",
	"login", "register", "verify", "confirm",
	"dashboard", "forms", "form", "submissions", "submission", "settings",
}

// checkTemplates fails when any of names has no page template, so a missing
// page is caught at startup rather than on first request
func checkTemplates(renderer *views.Renderer, names []string) error {
	for _, name := range names {
		if !renderer.Has(name) {
			return fmt.Errorf("missing page template %q", name)
		}
	}
	return nil
}

func NewRouter(db *sql.DB, cfg cliparse.Config, api *apiclient.Client) (*http.ServeMux, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	if err := checkTemplates(renderer, Pages); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	sessions := session.NewManager(db, cfg, api)
	limiter := middleware.NewRateLimiter(rate.Every(signInInterval), signInBurst, cfg.DeviceSalt)

	// Initialize handlers
	pagesHandler := handlers.NewPagesHandler(api, renderer)
	authHandler := handlers.NewAuthHandler(api, renderer, sessions, session.NewGate())
	dashboardHandler := handlers.NewDashboardHandler(api, renderer)
	formsHandler := handlers.NewFormsHandler(api, renderer)
	submissionsHandler := handlers.NewSubmissionsHandler(api, renderer)
	settingsHandler := handlers.NewSettingsHandler(api, renderer, session.NewGate())

	public := middleware.WithLogging
	anonymous := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RedirectIfAuthenticated(sessions, h))
	}
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireSession(sessions, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Marketing pages
	mux.HandleFunc("GET /{$}", anonymous(pagesHandler.Static("home", "")))
	mux.HandleFunc("GET /about", public(pagesHandler.Static("about", "About")))
	mux.HandleFunc("GET /blog", public(pagesHandler.Static("blog", "Blog")))
	mux.HandleFunc("GET /terms", public(pagesHandler.Static("terms", "Terms of Service")))
	mux.HandleFunc("GET /privacy", public(pagesHandler.Static("privacy", "Privacy Policy")))

	// Sign-in
	mux.HandleFunc("GET /login", anonymous(authHandler.LoginPage))
	mux.HandleFunc("POST /login", anonymous(middleware.RateLimit(limiter, authHandler.Login)))
	mux.HandleFunc("GET /register", anonymous(authHandler.RegisterPage))
	mux.HandleFunc("POST /register", anonymous(middleware.RateLimit(limiter, authHandler.Register)))
	mux.HandleFunc("GET /auth/verify", public(authHandler.Verify))
	mux.HandleFunc("POST /logout", public(authHandler.Logout))

	// Dashboard
	mux.HandleFunc("GET /dashboard", protected(dashboardHandler.Dashboard))
	mux.HandleFunc("GET /dashboard/charts", middleware.WithLogging(middleware.RequireSessionJSON(sessions, dashboardHandler.Charts)))
	mux.HandleFunc("GET /analytics", protected(pagesHandler.Analytics))

	// Forms
	mux.HandleFunc("GET /forms", protected(formsHandler.List))
	mux.HandleFunc("POST /forms", protected(formsHandler.Create))
	mux.HandleFunc("GET /forms/{id}", protected(formsHandler.Detail))
	mux.HandleFunc("POST /forms/{id}", protected(formsHandler.Update))
	mux.HandleFunc("/forms/{id}/delete", protected(formsHandler.Delete))
	mux.HandleFunc("/forms/{id}/regenerate-key", protected(formsHandler.RegenerateKey))

	// Submissions
	mux.HandleFunc("GET /submissions", protected(submissionsHandler.List))
	mux.HandleFunc("GET /submissions/export", protected(submissionsHandler.Export))
	mux.HandleFunc("GET /submissions/{id}", protected(submissionsHandler.Detail))
	mux.HandleFunc("POST /submissions/{id}", protected(submissionsHandler.Update))
	mux.HandleFunc("/submissions/{id}/delete", protected(submissionsHandler.Delete))

	// Settings and billing
	mux.HandleFunc("GET /settings", protected(settingsHandler.Settings))
	mux.HandleFunc("POST /settings", protected(settingsHandler.Update))
	mux.HandleFunc("POST /settings/members", protected(settingsHandler.InviteMember))
	mux.HandleFunc("/settings/members/{id}/remove", protected(settingsHandler.RemoveMember))
	mux.HandleFunc("GET /settings/billing", protected(settingsHandler.BillingCallback))
	mux.HandleFunc("POST /settings/billing/checkout", protected(settingsHandler.Checkout))
	mux.HandleFunc("POST /settings/billing/portal", protected(settingsHandler.Portal))

	return mux, nil
}
