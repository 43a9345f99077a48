// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/formguard-web/apiclient"
	"github.com/danielhkuo/formguard-web/views"
)

// PagesHandler serves pages with no upstream data
type PagesHandler struct {
	base
}

func NewPagesHandler(api *apiclient.Client, renderer *views.Renderer) *PagesHandler {
	return &PagesHandler{base: base{api: api, views: renderer}}
}

// Static returns a handler rendering template name
func (h *PagesHandler) Static(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, name, views.Page{Title: title, Active: name})
	}
}

// Analytics handles GET /analytics
func (h *PagesHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "analytics", views.Page{Title: "Analytics", Active: "analytics"})
}
