// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/danielhkuo/formguard-web/models"
)

// Auth

func (c *Client) RequestMagicLink(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/magic-link", models.MagicLinkRequest{Email: email}, nil)
}

// Verify exchanges a magic-link token for a bearer token
func (c *Client) Verify(ctx context.Context, magicToken string) (string, error) {
	var resp models.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/verify", models.VerifyRequest{Token: magicToken}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("verify response missing token")
	}
	return resp.Token, nil
}

func (c *Client) Me(ctx context.Context) (models.User, error) {
	var resp models.UserResponse
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp)
	return resp.User, err
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.SuccessResponse, error) {
	var resp models.SuccessResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp)
	return resp, err
}

// Organizations

func (c *Client) GetOrganization(ctx context.Context) (models.Organization, error) {
	var resp models.OrganizationResponse
	err := c.do(ctx, http.MethodGet, "/organizations", nil, &resp)
	return resp.Organization, err
}

func (c *Client) UpdateOrganization(ctx context.Context, req models.UpdateOrganizationRequest) (models.Organization, error) {
	var resp models.OrganizationResponse
	err := c.do(ctx, http.MethodPut, "/organizations", req, &resp)
	return resp.Organization, err
}

func (c *Client) GetStats(ctx context.Context) (models.DashboardStats, error) {
	var resp models.StatsResponse
	err := c.do(ctx, http.MethodGet, "/organizations/stats", nil, &resp)
	return resp.Stats, err
}

func (c *Client) InviteMember(ctx context.Context, email, role string) error {
	return c.do(ctx, http.MethodPost, "/organizations/members", models.InviteMemberRequest{Email: email, Role: role}, nil)
}

func (c *Client) RemoveMember(ctx context.Context, memberID string) error {
	return c.do(ctx, http.MethodDelete, "/organizations/members/"+url.PathEscape(memberID), nil, nil)
}

// Billing

func (c *Client) GetBilling(ctx context.Context) (models.Billing, error) {
	var resp models.BillingResponse
	err := c.do(ctx, http.MethodGet, "/billing", nil, &resp)
	return resp.Billing, err
}

// Checkout returns the payment provider URL for upgrading to plan
func (c *Client) Checkout(ctx context.Context, plan string) (string, error) {
	var resp models.URLResponse
	if err := c.do(ctx, http.MethodPost, "/billing/checkout", models.CheckoutRequest{Plan: plan}, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("no checkout URL received")
	}
	return resp.URL, nil
}

// Portal returns the payment provider's billing portal URL
func (c *Client) Portal(ctx context.Context) (string, error) {
	var resp models.URLResponse
	if err := c.do(ctx, http.MethodPost, "/billing/portal", nil, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("no portal URL received")
	}
	return resp.URL, nil
}

func (c *Client) VerifyCheckoutSession(ctx context.Context, sessionID string) (models.VerifySessionResponse, error) {
	var resp models.VerifySessionResponse
	err := c.do(ctx, http.MethodGet, "/billing/verify?sessionId="+url.QueryEscape(sessionID), nil, &resp)
	return resp, err
}

// Forms

func (c *Client) ListForms(ctx context.Context) ([]models.Form, error) {
	var resp models.FormsResponse
	err := c.do(ctx, http.MethodGet, "/forms", nil, &resp)
	return resp.Forms, err
}

func (c *Client) GetForm(ctx context.Context, id string) (models.Form, error) {
	var resp models.FormResponse
	err := c.do(ctx, http.MethodGet, "/forms/"+url.PathEscape(id), nil, &resp)
	return resp.Form, err
}

func (c *Client) CreateForm(ctx context.Context, req models.FormRequest) (models.Form, error) {
	var resp models.FormResponse
	err := c.do(ctx, http.MethodPost, "/forms", req, &resp)
	return resp.Form, err
}

func (c *Client) UpdateForm(ctx context.Context, id string, req models.FormRequest) (models.Form, error) {
	var resp models.FormResponse
	err := c.do(ctx, http.MethodPut, "/forms/"+url.PathEscape(id), req, &resp)
	return resp.Form, err
}

func (c *Client) DeleteForm(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/forms/"+url.PathEscape(id), nil, nil)
}

// RegenerateKey rotates the form's API key and returns the new one
func (c *Client) RegenerateKey(ctx context.Context, id string) (string, error) {
	var resp models.APIKeyResponse
	err := c.do(ctx, http.MethodPost, "/forms/"+url.PathEscape(id)+"/regenerate-key", nil, &resp)
	return resp.APIKey, err
}

func (c *Client) GetFormAnalytics(ctx context.Context, id string) (models.Analytics, error) {
	var resp models.AnalyticsResponse
	err := c.do(ctx, http.MethodGet, "/forms/"+url.PathEscape(id)+"/analytics", nil, &resp)
	return resp.Analytics, err
}

// Submissions

// SubmissionQuery encodes a filter as the GET /submissions query string
func SubmissionQuery(f models.SubmissionFilter) string {
	q := url.Values{}
	if f.FormID != "" {
		q.Set("formId", f.FormID)
	}
	if f.Action != "" {
		q.Set("action", f.Action)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q.Encode()
}

func (c *Client) ListSubmissions(ctx context.Context, f models.SubmissionFilter) (models.SubmissionsResponse, error) {
	var resp models.SubmissionsResponse
	err := c.do(ctx, http.MethodGet, "/submissions?"+SubmissionQuery(f), nil, &resp)
	return resp, err
}

func (c *Client) GetSubmission(ctx context.Context, id string) (models.Submission, error) {
	var resp models.SubmissionResponse
	err := c.do(ctx, http.MethodGet, "/submissions/"+url.PathEscape(id), nil, &resp)
	return resp.Submission, err
}

func (c *Client) UpdateSubmission(ctx context.Context, id string, req models.UpdateSubmissionRequest) (models.Submission, error) {
	var resp models.SubmissionResponse
	err := c.do(ctx, http.MethodPut, "/submissions/"+url.PathEscape(id), req, &resp)
	return resp.Submission, err
}

func (c *Client) DeleteSubmission(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/submissions/"+url.PathEscape(id), nil, nil)
}

// Export holds a raw export download
type Export struct {
	ContentType        string
	ContentDisposition string
	Body               []byte
}

// ExportSubmissions downloads the export for one form, or all forms when
// formID is empty. The body is returned as-is.
func (c *Client) ExportSubmissions(ctx context.Context, formID string) (Export, error) {
	path := "/submissions/export"
	if formID != "" {
		path += "?formId=" + url.QueryEscape(formID)
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Export{}, err
	}
	req.Header.Set("Accept", "text/csv, application/json")

	resp, err := c.send(req)
	if err != nil {
		return Export{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Export{}, fmt.Errorf("failed to read export: %w", err)
	}
	return Export{
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		Body:               body,
	}, nil
}
