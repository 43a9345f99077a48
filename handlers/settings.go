// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/formguard-web/apiclient"
	"github.com/danielhkuo/formguard-web/middleware"
	"github.com/danielhkuo/formguard-web/models"
	"github.com/danielhkuo/formguard-web/session"
	"github.com/danielhkuo/formguard-web/views"
)

// PaidPlans are the plans offered at checkout
var PaidPlans = []string{models.PlanStarter, models.PlanPro, models.PlanAgency}

const settingsBilling = "/settings#billing"

type SettingsHandler struct {
	base
	gate *session.Gate
}

// NewSettingsHandler creates the settings handler. gate guards payment
// session verification.
func NewSettingsHandler(api *apiclient.Client, renderer *views.Renderer, gate *session.Gate) *SettingsHandler {
	return &SettingsHandler{base: base{api: api, views: renderer}, gate: gate}
}

// Settings handles GET /settings. A billing failure leaves the billing
// section empty instead of failing the page.
func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	client := h.client(r)
	page := views.Page{Title: "Settings", Active: "settings"}

	var (
		org     models.Organization
		stats   models.DashboardStats
		forms   []models.Form
		billing *models.Billing
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		org, err = client.GetOrganization(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = client.GetStats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		forms, err = client.ListForms(ctx)
		return err
	})
	g.Go(func() error {
		b, err := client.GetBilling(ctx)
		if err != nil {
			slog.Warn("failed to fetch billing", "error", err)
			return nil
		}
		billing = &b
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("failed to fetch settings data", "error", err)
		page.Flash = errorFlash("Failed to load settings")
	}

	data := views.SettingsData{
		Organization: org,
		Members:      org.Roster(),
		Stats:        stats,
		Forms:        forms,
		Billing:      billing,
		Plans:        PaidPlans,
	}
	if s, err := session.Require(r.Context()); err == nil {
		data.IsOwner = org.IsOwner(s.User.Email)
	}

	page.Data = data
	h.render(w, r, http.StatusOK, "settings", page)
}

// Update handles POST /settings, renaming the organization
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := formString(r, "name")
	if utf8.RuneCountInString(name) < minOrganizationName {
		middleware.Redirect(w, r, "/settings", models.FlashError, "Organization name must be at least 2 characters")
		return
	}

	if _, err := h.client(r).UpdateOrganization(r.Context(), models.UpdateOrganizationRequest{Name: name}); err != nil {
		slog.Error("failed to update organization", "error", err)
		middleware.Redirect(w, r, "/settings", models.FlashError, apiMessage(err, "Failed to update organization"))
		return
	}

	middleware.Redirect(w, r, "/settings", models.FlashSuccess, "Organization updated")
}

// InviteMember handles POST /settings/members
func (h *SettingsHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	email := formString(r, "email")
	if email == "" {
		middleware.Redirect(w, r, "/settings", models.FlashError, "Please enter an email address")
		return
	}

	if err := h.client(r).InviteMember(r.Context(), email, models.RoleMember); err != nil {
		slog.Error("failed to invite member", "error", err)
		middleware.Redirect(w, r, "/settings", models.FlashError, apiMessage(err, "Failed to send invitation"))
		return
	}

	middleware.Redirect(w, r, "/settings", models.FlashSuccess, "Invitation sent to "+email)
}

// RemoveMember handles GET and POST /settings/members/{id}/remove
func (h *SettingsHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if r.Method != http.MethodPost || !confirmed(r) {
		h.confirm(w, r, "settings", views.ConfirmData{
			Heading: "Remove member?",
			Message: "They will lose access to this organization immediately.",
			Action:  "/settings/members/" + url.PathEscape(id) + "/remove",
			Cancel:  "/settings",
			Button:  "Remove member",
		})
		return
	}

	if err := h.client(r).RemoveMember(r.Context(), id); err != nil {
		slog.Error("failed to remove member", "member_id", id, "error", err)
		middleware.Redirect(w, r, "/settings", models.FlashError, apiMessage(err, "Failed to remove member"))
		return
	}

	middleware.Redirect(w, r, "/settings", models.FlashSuccess, "Member removed from the organization")
}

// Checkout handles POST /settings/billing/checkout
func (h *SettingsHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	plan := r.PostFormValue("plan")
	if !slices.Contains(PaidPlans, plan) {
		middleware.Redirect(w, r, settingsBilling, models.FlashError, "Please choose a plan")
		return
	}

	checkoutURL, err := h.client(r).Checkout(r.Context(), plan)
	if err != nil {
		slog.Error("failed to create checkout session", "plan", plan, "error", err)
		middleware.Redirect(w, r, settingsBilling, models.FlashError, apiMessage(err, "Failed to create checkout session"))
		return
	}

	http.Redirect(w, r, checkoutURL, http.StatusSeeOther)
}

// Portal handles POST /settings/billing/portal
func (h *SettingsHandler) Portal(w http.ResponseWriter, r *http.Request) {
	portalURL, err := h.client(r).Portal(r.Context())
	if err != nil {
		slog.Error("failed to create portal session", "error", err)
		middleware.Redirect(w, r, settingsBilling, models.FlashError, apiMessage(err, "Failed to open billing portal"))
		return
	}

	http.Redirect(w, r, portalURL, http.StatusSeeOther)
}

// BillingCallback handles GET /settings/billing, where the payment provider
// returns the browser after checkout
func (h *SettingsHandler) BillingCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sessionID := q.Get("session_id")

	switch {
	case q.Get("canceled") == "true":
		middleware.Redirect(w, r, settingsBilling, models.FlashInfo, "Checkout was canceled. No changes were made to your subscription.")
		return
	case q.Get("success") != "true" || sessionID == "":
		middleware.Redirect(w, r, settingsBilling, models.FlashError, "Invalid payment session. Please try again.")
		return
	}

	if !h.gate.Begin(sessionID) {
		message := "Payment verification is already in progress."
		if h.gate.State(sessionID) == session.Done {
			message = "This payment has already been verified."
		}
		middleware.Redirect(w, r, settingsBilling, models.FlashInfo, message)
		return
	}

	resp, err := h.client(r).VerifyCheckoutSession(r.Context(), sessionID)
	if err == nil && (!resp.Success || resp.Session == nil) {
		err = errors.New("payment session not verified")
	}
	if err != nil {
		h.gate.Fail(sessionID)
		slog.Error("failed to verify payment", "error", err)
		middleware.Redirect(w, r, settingsBilling, models.FlashError,
			apiMessage(err, "Failed to verify payment. Please contact support if the payment was processed."))
		return
	}

	h.gate.Succeed(sessionID)
	slog.Info("payment verified")
	middleware.Redirect(w, r, settingsBilling, models.FlashSuccess, "Payment successful! Your plan has been upgraded successfully.")
}
