// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/formguard-web/apiclient"
	"github.com/danielhkuo/formguard-web/middleware"
	"github.com/danielhkuo/formguard-web/models"
	"github.com/danielhkuo/formguard-web/views"
)

const submissionsPageSize = 20

// Actions lists the values a submission's action can take, in display order
var Actions = []string{models.ActionAllowed, models.ActionFlagged, models.ActionBlocked}

type SubmissionsHandler struct {
	base
}

func NewSubmissionsHandler(api *apiclient.Client, renderer *views.Renderer) *SubmissionsHandler {
	return &SubmissionsHandler{base: base{api: api, views: renderer}}
}

// parseFilter reads the list filters from the query string. "all" and
// unknown actions mean no filter; bad pages fall back to 1.
func parseFilter(q url.Values) models.SubmissionFilter {
	f := models.SubmissionFilter{Page: 1, Limit: submissionsPageSize}

	if id := q.Get("formId"); id != "all" {
		f.FormID = id
	}
	if action := q.Get("action"); slices.Contains(Actions, action) {
		f.Action = action
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		f.Page = page
	}
	return f
}

// listURL builds a /submissions link for f at page
func listURL(f models.SubmissionFilter, page int) string {
	q := url.Values{}
	if f.FormID != "" {
		q.Set("formId", f.FormID)
	}
	if f.Action != "" {
		q.Set("action", f.Action)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/submissions"
	}
	return "/submissions?" + q.Encode()
}

func exportURL(formID string) string {
	if formID == "" {
		return "/submissions/export"
	}
	return "/submissions/export?formId=" + url.QueryEscape(formID)
}

// List handles GET /submissions
func (h *SubmissionsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r.URL.Query())
	client := h.client(r)
	page := views.Page{Title: "Submissions", Active: "submissions"}

	var (
		forms []models.Form
		resp  models.SubmissionsResponse
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		if forms, err = client.ListForms(ctx); err != nil {
			// The filter dropdown is optional
			slog.Warn("failed to fetch forms for filter", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		resp, err = client.ListSubmissions(ctx, filter)
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("failed to fetch submissions", "error", err)
		page.Flash = errorFlash("Failed to load submissions")
	}

	pages := max(resp.Pages, 1)
	data := views.SubmissionsData{
		Submissions: resp.Submissions,
		Forms:       forms,
		Filter:      filter,
		Total:       resp.Total,
		Page:        filter.Page,
		Pages:       pages,
		ExportURL:   exportURL(filter.FormID),
	}
	if filter.Page > 1 {
		data.PrevURL = listURL(filter, filter.Page-1)
	}
	if filter.Page < pages {
		data.NextURL = listURL(filter, filter.Page+1)
	}

	page.Data = data
	h.render(w, r, http.StatusOK, "submissions", page)
}

// Export handles GET /submissions/export by passing the API's download through
func (h *SubmissionsHandler) Export(w http.ResponseWriter, r *http.Request) {
	formID := r.URL.Query().Get("formId")

	export, err := h.client(r).ExportSubmissions(r.Context(), formID)
	if err != nil {
		slog.Error("failed to export submissions", "error", err)
		middleware.Redirect(w, r, listURL(models.SubmissionFilter{FormID: formID}, 1), models.FlashError, apiMessage(err, "Failed to export submissions"))
		return
	}

	contentType := export.ContentType
	if contentType == "" {
		contentType = "text/csv"
	}
	disposition := export.ContentDisposition
	if disposition == "" {
		disposition = `attachment; filename="submissions.csv"`
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", disposition)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Body); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

// Detail handles GET /submissions/{id}
func (h *SubmissionsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	submission, err := h.client(r).GetSubmission(r.Context(), id)
	if err != nil {
		slog.Error("failed to fetch submission", "submission_id", id, "error", err)
		message := "Failed to load submission"
		if apiclient.StatusOf(err) == http.StatusNotFound {
			message = "Submission not found"
		}
		middleware.Redirect(w, r, "/submissions", models.FlashError, message)
		return
	}

	h.render(w, r, http.StatusOK, "submission", views.Page{
		Title:  submission.Email,
		Active: "submissions",
		Data:   views.SubmissionData{Submission: submission, Actions: Actions},
	})
}

// Update handles POST /submissions/{id}, changing the submission's action
func (h *SubmissionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	location := "/submissions/" + url.PathEscape(id)

	action := r.PostFormValue("action")
	if !slices.Contains(Actions, action) {
		middleware.Redirect(w, r, location, models.FlashError, "Please choose allowed, flagged or blocked")
		return
	}

	if _, err := h.client(r).UpdateSubmission(r.Context(), id, models.UpdateSubmissionRequest{Action: action}); err != nil {
		slog.Error("failed to update submission", "submission_id", id, "error", err)
		middleware.Redirect(w, r, location, models.FlashError, apiMessage(err, "Failed to update submission"))
		return
	}

	middleware.Redirect(w, r, location, models.FlashSuccess, "Submission marked as "+action)
}

// Delete handles GET and POST /submissions/{id}/delete
func (h *SubmissionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	location := "/submissions/" + url.PathEscape(id)

	if r.Method != http.MethodPost || !confirmed(r) {
		h.confirm(w, r, "submissions", views.ConfirmData{
			Heading: "Delete submission?",
			Message: "This action cannot be undone.",
			Action:  location + "/delete",
			Cancel:  location,
			Button:  "Delete submission",
		})
		return
	}

	if err := h.client(r).DeleteSubmission(r.Context(), id); err != nil {
		slog.Error("failed to delete submission", "submission_id", id, "error", err)
		middleware.Redirect(w, r, location, models.FlashError, apiMessage(err, "Failed to delete submission"))
		return
	}

	middleware.Redirect(w, r, "/submissions", models.FlashSuccess, "Submission deleted")
}
