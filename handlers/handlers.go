// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielhkuo/formguard-web/apiclient"
	"github.com/danielhkuo/formguard-web/middleware"
	"github.com/danielhkuo/formguard-web/models"
	"github.com/danielhkuo/formguard-web/session"
	"github.com/danielhkuo/formguard-web/views"
)

// validationError is a user-facing message about invalid form input
type validationError string

func (e validationError) Error() string { return string(e) }

// base holds what every page handler needs
type base struct {
	api   *apiclient.Client
	views *views.Renderer
}

// client returns the API client bound to the request's session token
func (b *base) client(r *http.Request) *apiclient.Client {
	if s, ok := session.FromContext(r.Context()); ok {
		return b.api.As(s.Token)
	}
	return b.api
}

// render fills in the signed-in user and any pending flash, then renders
func (b *base) render(w http.ResponseWriter, r *http.Request, status int, name string, page views.Page) {
	if s, ok := session.FromContext(r.Context()); ok {
		page.User = s.User
	}
	if page.Flash == nil {
		page.Flash = middleware.PopFlash(w, r)
	}
	b.views.Render(w, status, name, page)
}

// confirm renders the confirmation step of a destructive action
func (b *base) confirm(w http.ResponseWriter, r *http.Request, active string, data views.ConfirmData) {
	b.render(w, r, http.StatusOK, "confirm", views.Page{
		Title:  data.Heading,
		Active: active,
		Data:   data,
	})
}

// confirmed reports whether the form carries confirm=yes
func confirmed(r *http.Request) bool {
	return r.PostFormValue("confirm") == "yes"
}

// apiMessage returns the API's message for err, or fallback for transport errors
func apiMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// errorFlash is an inline error notice for the page being rendered
func errorFlash(message string) *models.Flash {
	return &models.Flash{Kind: models.FlashError, Message: message}
}

func formString(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}
