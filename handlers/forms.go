// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/formguard-web/apiclient"
	"github.com/danielhkuo/formguard-web/middleware"
	"github.com/danielhkuo/formguard-web/models"
	"github.com/danielhkuo/formguard-web/views"
)

const formRecentRows = 10

// DefaultAutoActions pre-fills the create form
var DefaultAutoActions = models.AutoActions{
	ScoreThreshold:       50,
	BlockDisposableEmail: true,
}

const installSnippet = `<script src="https://cdn.formguard.com/sdk/v1/formguard.js"></script>
<script>
  FormGuard.init('%s');

  // Your form submission
  FormGuard.submit({
    email: email,
    fields: { name, company }
  });
</script>`

type FormsHandler struct {
	base
}

func NewFormsHandler(api *apiclient.Client, renderer *views.Renderer) *FormsHandler {
	return &FormsHandler{base: base{api: api, views: renderer}}
}

// parseFormRequest reads the create/update form fields
func parseFormRequest(r *http.Request) (models.FormRequest, error) {
	req := models.FormRequest{
		Name:       formString(r, "name"),
		Domain:     formString(r, "domain"),
		Steps:      1,
		WebhookURL: formString(r, "webhookUrl"),
		AutoActions: &models.AutoActions{
			BlockOnLowScore:      r.PostFormValue("blockOnLowScore") == "on",
			ScoreThreshold:       DefaultAutoActions.ScoreThreshold,
			BlockVPN:             r.PostFormValue("blockVPN") == "on",
			BlockDisposableEmail: r.PostFormValue("blockDisposableEmail") == "on",
		},
	}

	if req.Name == "" {
		return req, validationError("Form name is required")
	}
	if req.Domain == "" {
		return req, validationError("Domain is required")
	}

	if v := formString(r, "steps"); v != "" {
		steps, err := strconv.Atoi(v)
		if err != nil || steps < 1 {
			return req, validationError("Number of steps must be at least 1")
		}
		req.Steps = steps
	}

	if v := formString(r, "scoreThreshold"); v != "" {
		threshold, err := strconv.Atoi(v)
		if err != nil || threshold < 0 || threshold > 100 {
			return req, validationError("Score threshold must be between 0 and 100")
		}
		req.AutoActions.ScoreThreshold = threshold
	}

	if req.WebhookURL != "" {
		u, err := url.Parse(req.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return req, validationError("Webhook URL must be a valid http(s) URL")
		}
	}

	return req, nil
}

// List handles GET /forms
func (h *FormsHandler) List(w http.ResponseWriter, r *http.Request) {
	page := views.Page{Title: "Forms", Active: "forms"}

	forms, err := h.client(r).ListForms(r.Context())
	if err != nil {
		slog.Error("failed to list forms", "error", err)
		page.Flash = errorFlash("Failed to load forms")
	}

	page.Data = views.FormsData{Forms: forms, Defaults: DefaultAutoActions}
	h.render(w, r, http.StatusOK, "forms", page)
}

// Create handles POST /forms
func (h *FormsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := parseFormRequest(r)
	if err != nil {
		middleware.Redirect(w, r, "/forms", models.FlashError, err.Error())
		return
	}

	form, err := h.client(r).CreateForm(r.Context(), req)
	if err != nil {
		slog.Error("failed to create form", "error", err)
		middleware.Redirect(w, r, "/forms", models.FlashError, apiMessage(err, "Failed to create form"))
		return
	}

	slog.Info("form created", "form_id", form.ID)

	location := "/forms"
	if form.ID != "" {
		location = "/forms/" + url.PathEscape(form.ID)
	}
	middleware.Redirect(w, r, location, models.FlashSuccess, "Your form has been created successfully")
}

// Detail handles GET /forms/{id}
func (h *FormsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	client := h.client(r)

	var (
		form        models.Form
		submissions models.SubmissionsResponse
		analytics   models.Analytics
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		form, err = client.GetForm(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		submissions, err = client.ListSubmissions(ctx, models.SubmissionFilter{FormID: id, Limit: formRecentRows})
		return err
	})
	g.Go(func() error {
		var err error
		analytics, err = client.GetFormAnalytics(ctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("failed to fetch form details", "form_id", id, "error", err)
		message := "Failed to load form details"
		if apiclient.StatusOf(err) == http.StatusNotFound {
			message = "Form not found"
		}
		middleware.Redirect(w, r, "/forms", models.FlashError, message)
		return
	}

	h.render(w, r, http.StatusOK, "form", views.Page{
		Title:  form.Name,
		Active: "forms",
		Data: views.FormData{
			Form:        form,
			Submissions: submissions.Submissions,
			Analytics:   &analytics,
			Snippet:     fmt.Sprintf(installSnippet, form.APIKey),
		},
	})
}

// Update handles POST /forms/{id}
func (h *FormsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	location := "/forms/" + url.PathEscape(id)

	req, err := parseFormRequest(r)
	if err != nil {
		middleware.Redirect(w, r, location, models.FlashError, err.Error())
		return
	}

	if _, err := h.client(r).UpdateForm(r.Context(), id, req); err != nil {
		slog.Error("failed to update form", "form_id", id, "error", err)
		middleware.Redirect(w, r, location, models.FlashError, apiMessage(err, "Failed to update form"))
		return
	}

	middleware.Redirect(w, r, location, models.FlashSuccess, "Form updated")
}

// Delete handles GET and POST /forms/{id}/delete. Without confirm=yes it
// only renders the confirmation page.
func (h *FormsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	location := "/forms/" + url.PathEscape(id)

	if r.Method != http.MethodPost || !confirmed(r) {
		h.confirm(w, r, "forms", views.ConfirmData{
			Heading: "Delete form?",
			Message: "This permanently deletes the form and all of its submissions. This action cannot be undone.",
			Action:  location + "/delete",
			Cancel:  location,
			Button:  "Delete form",
		})
		return
	}

	if err := h.client(r).DeleteForm(r.Context(), id); err != nil {
		slog.Error("failed to delete form", "form_id", id, "error", err)
		middleware.Redirect(w, r, location, models.FlashError, apiMessage(err, "Failed to delete form"))
		return
	}

	slog.Info("form deleted", "form_id", id)
	middleware.Redirect(w, r, "/forms", models.FlashSuccess, "The form has been deleted successfully")
}

// RegenerateKey handles GET and POST /forms/{id}/regenerate-key
func (h *FormsHandler) RegenerateKey(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	location := "/forms/" + url.PathEscape(id)

	if r.Method != http.MethodPost || !confirmed(r) {
		h.confirm(w, r, "forms", views.ConfirmData{
			Heading: "Regenerate API key?",
			Message: "The current key stops working immediately. Update your site with the new key afterwards.",
			Action:  location + "/regenerate-key",
			Cancel:  location,
			Button:  "Regenerate key",
		})
		return
	}

	if _, err := h.client(r).RegenerateKey(r.Context(), id); err != nil {
		slog.Error("failed to regenerate key", "form_id", id, "error", err)
		middleware.Redirect(w, r, location, models.FlashError, apiMessage(err, "Failed to regenerate API key"))
		return
	}

	middleware.Redirect(w, r, location, models.FlashSuccess, "API key regenerated. Your new API key is ready to use")
}
