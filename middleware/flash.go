// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/formguard-web/models"
)

const (
	FlashCookieName = "formguard_flash"
	flashMaxAge     = time.Minute
)

// SetFlash queues a notification for the next page the browser renders
func SetFlash(w http.ResponseWriter, kind, message string) {
	raw, err := json.Marshal(models.Flash{Kind: kind, Message: message})
	if err != nil {
		slog.Error("failed to encode flash", "error", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   int(flashMaxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
	})
}

// PopFlash returns the pending notification, if any, and expires its cookie
func PopFlash(w http.ResponseWriter, r *http.Request) *models.Flash {
	c, err := r.Cookie(FlashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f models.Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}

// Redirect queues a flash and redirects with 303 See Other
func Redirect(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	SetFlash(w, kind, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}
