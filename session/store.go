// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielhkuo/formguard-web/db"
)

const (
	// TokenCookieName is shared by the cookie and the durable store
	TokenCookieName = "formguard_token"
	TokenMaxAge     = 30 * 24 * time.Hour
)

// TokenStore persists one bearer token. Load returns "" when none is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// CookieStore keeps the token in the formguard_token cookie of one request.
// Writes are visible to later Loads on the same store.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool

	written bool
	value   string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{w: w, r: r, secure: secure}
}

func (s *CookieStore) Load(ctx context.Context) (string, error) {
	if s.written {
		return s.value, nil
	}
	c, err := s.r.Cookie(TokenCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

func (s *CookieStore) Save(ctx context.Context, token string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenMaxAge / time.Second),
		Expires:  time.Now().Add(TokenMaxAge),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Secure:   s.secure,
	})
	s.written, s.value = true, token
	return nil
}

func (s *CookieStore) Clear(ctx context.Context) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Secure:   s.secure,
	})
	s.written, s.value = true, ""
	return nil
}

// DurableStore keeps the token in the session_token table, keyed by device id
type DurableStore struct {
	db       *sql.DB
	dbType   string
	deviceID string
}

func NewDurableStore(conn *sql.DB, dbType, deviceID string) *DurableStore {
	return &DurableStore{db: conn, dbType: dbType, deviceID: deviceID}
}

func (s *DurableStore) Load(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx,
		db.Rebind(s.dbType, `SELECT token FROM session_token WHERE device_id = ?`),
		s.deviceID,
	).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (s *DurableStore) Save(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, db.Rebind(s.dbType, `
		INSERT INTO session_token (device_id, token, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (device_id) DO UPDATE SET
			token = EXCLUDED.token,
			updated_at = EXCLUDED.updated_at
	`), s.deviceID, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (s *DurableStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		db.Rebind(s.dbType, `DELETE FROM session_token WHERE device_id = ?`),
		s.deviceID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
