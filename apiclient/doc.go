// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package apiclient is a typed client for the FormGuard REST API.

# Usage

One Client per process; bind a bearer token per request with As:

	api := apiclient.New(cfg.APIURL, nil)
	forms, err := api.As(token).ListForms(ctx)

Every path is sent under /api/v1 with JSON bodies. The Authorization
header is set only when the client carries a token.

# Errors

Non-2xx responses become *APIError carrying the status and the body's
"message" field ("An error occurred" when absent):

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		// surface apiErr.Message to the user
	}

Transport failures are returned wrapped with the method and path.
Nothing is retried.

# Endpoints

  - auth: RequestMagicLink, Verify, Me, Register
  - organizations: GetOrganization, UpdateOrganization, GetStats, InviteMember, RemoveMember
  - billing: GetBilling, Checkout, Portal, VerifyCheckoutSession
  - forms: ListForms, GetForm, CreateForm, UpdateForm, DeleteForm, RegenerateKey, GetFormAnalytics
  - submissions: ListSubmissions, GetSubmission, UpdateSubmission, DeleteSubmission, ExportSubmissions
*/
package apiclient
