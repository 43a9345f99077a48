// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/danielhkuo/formguard-web/apiclient"
	"github.com/danielhkuo/formguard-web/auth"
	"github.com/danielhkuo/formguard-web/cliparse"
	"github.com/danielhkuo/formguard-web/models"
)

const (
	DeviceCookieName = "formguard_device"
	DeviceMaxAge     = 365 * 24 * time.Hour
)

// Manager binds sessions to requests. One Manager is shared by all handlers.
type Manager struct {
	db      *sql.DB
	cfg     cliparse.Config
	profile ProfileFunc
}

func NewManager(db *sql.DB, cfg cliparse.Config, api *apiclient.Client) *Manager {
	return &Manager{
		db:  db,
		cfg: cfg,
		profile: func(ctx context.Context, token string) (models.User, error) {
			return api.As(token).Me(ctx)
		},
	}
}

// Open returns an unresolved session for the browser making r.
// A browser without a valid device cookie is issued a new one.
func (m *Manager) Open(w http.ResponseWriter, r *http.Request) *Session {
	deviceID := m.deviceID(w, r)
	return New(
		m.profile,
		NewCookieStore(w, r, m.cfg.SecureCookies),
		NewDurableStore(m.db, m.cfg.DatabaseType, deviceID),
	)
}

// Load opens and initializes the session for r
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) *Session {
	s := m.Open(w, r)
	s.Initialize(r.Context())
	return s
}

func (m *Manager) deviceID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(DeviceCookieName); err == nil {
		if id, err := auth.VerifyDeviceID(c.Value, m.cfg.DeviceSalt); err == nil {
			return id
		}
	}

	id := auth.GenerateDeviceID()
	http.SetCookie(w, &http.Cookie{
		Name:     DeviceCookieName,
		Value:    auth.SignDeviceID(id, m.cfg.DeviceSalt),
		Path:     "/",
		MaxAge:   int(DeviceMaxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Secure:   m.cfg.SecureCookies,
	})
	return id
}
