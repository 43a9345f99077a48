// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/danielhkuo/formguard-web/apiclient"
	"github.com/danielhkuo/formguard-web/middleware"
	"github.com/danielhkuo/formguard-web/models"
	"github.com/danielhkuo/formguard-web/session"
	"github.com/danielhkuo/formguard-web/views"
)

const minOrganizationName = 2

type AuthHandler struct {
	base
	sessions *session.Manager
	gate     *session.Gate
}

func NewAuthHandler(api *apiclient.Client, renderer *views.Renderer, sessions *session.Manager, gate *session.Gate) *AuthHandler {
	return &AuthHandler{
		base:     base{api: api, views: renderer},
		sessions: sessions,
		gate:     gate,
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", views.Page{Title: "Sign in", Data: views.LoginData{}})
}

// Login handles POST /login by requesting a magic link
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := formString(r, "email")
	data := views.LoginData{Email: email}

	if email == "" {
		h.render(w, r, http.StatusBadRequest, "login", views.Page{
			Title: "Sign in",
			Flash: errorFlash("Please enter your email address"),
			Data:  data,
		})
		return
	}

	if err := h.api.RequestMagicLink(r.Context(), email); err != nil {
		slog.Error("failed to request magic link", "error", err)
		h.render(w, r, http.StatusOK, "login", views.Page{
			Title: "Sign in",
			Flash: errorFlash(apiMessage(err, "Failed to send magic link. Please try again.")),
			Data:  data,
		})
		return
	}

	data.Sent = true
	h.render(w, r, http.StatusOK, "login", views.Page{
		Title: "Check your email",
		Flash: &models.Flash{Kind: models.FlashSuccess, Message: "Magic link sent! Check your email for the login link"},
		Data:  data,
	})
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", views.Page{Title: "Create account", Data: views.RegisterData{}})
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req := models.RegisterRequest{
		Email:            formString(r, "email"),
		OrganizationName: formString(r, "organizationName"),
		Name:             formString(r, "name"),
	}
	data := views.RegisterData{Email: req.Email, OrganizationName: req.OrganizationName, Name: req.Name}

	invalid := func(message string) {
		h.render(w, r, http.StatusBadRequest, "register", views.Page{
			Title: "Create account",
			Flash: errorFlash(message),
			Data:  data,
		})
	}

	// Validate input
	if req.Email == "" {
		invalid("Please enter your email address")
		return
	}
	if utf8.RuneCountInString(req.OrganizationName) < minOrganizationName {
		invalid("Organization name must be at least 2 characters")
		return
	}

	if _, err := h.api.Register(r.Context(), req); err != nil {
		slog.Error("failed to register", "error", err)
		h.render(w, r, http.StatusOK, "register", views.Page{
			Title: "Create account",
			Flash: errorFlash(apiMessage(err, "Failed to create account. Please try again.")),
			Data:  data,
		})
		return
	}

	slog.Info("account registered", "organization", req.OrganizationName)

	data.Sent = true
	h.render(w, r, http.StatusOK, "register", views.Page{
		Title: "Check your email",
		Flash: &models.Flash{Kind: models.FlashSuccess, Message: "Account created! Check your email to verify and sign in."},
		Data:  data,
	})
}

// Verify handles GET /auth/verify?token=. The gate makes sure a link that
// is opened twice (or prefetched) is exchanged at most once at a time and
// never again after it succeeded.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.verifyFailed(w, r, http.StatusBadRequest, "", "Invalid verification link")
		return
	}

	if !h.gate.Begin(token) {
		if h.gate.State(token) == session.Done {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		h.verifyFailed(w, r, http.StatusConflict, token, "Sign-in is already in progress. Please wait a moment.")
		return
	}

	sessionToken, err := h.api.Verify(r.Context(), token)
	if err != nil {
		h.gate.Fail(token)
		slog.Warn("magic link verification failed", "error", err)
		h.verifyFailed(w, r, http.StatusOK, token, apiMessage(err, "Invalid or expired verification link"))
		return
	}

	s := h.sessions.Open(w, r)
	s.Login(r.Context(), sessionToken)
	if !s.Authenticated() {
		h.gate.Fail(token)
		h.verifyFailed(w, r, http.StatusOK, token, "Failed to sign in. Please try again.")
		return
	}

	h.gate.Succeed(token)
	slog.Info("user signed in", "user_id", s.User.ID)
	middleware.Redirect(w, r, "/dashboard", models.FlashSuccess, "Welcome back! You have successfully signed in")
}

func (h *AuthHandler) verifyFailed(w http.ResponseWriter, r *http.Request, status int, token, message string) {
	h.render(w, r, status, "verify", views.Page{
		Title: "Verification failed",
		Data:  views.VerifyData{Token: token, Message: message},
	})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Open(w, r)
	s.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
