// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielhkuo/formguard-web/models"
)

// ProfileFunc fetches the user a bearer token belongs to
type ProfileFunc func(ctx context.Context, token string) (models.User, error)

// Session is the authentication state of one browser.
//
// The token lives in two stores (cookie first, then durable). Every write
// or clear goes through both in a single call, so a remembered token always
// has a user and a failed profile fetch always leaves both stores empty.
type Session struct {
	Token   string
	User    *models.User
	Loading bool

	cookie  TokenStore
	durable TokenStore
	profile ProfileFunc
}

// New creates a session in the loading state. Call Initialize to resolve it.
func New(profile ProfileFunc, cookie, durable TokenStore) *Session {
	return &Session{
		Loading: true,
		cookie:  cookie,
		durable: durable,
		profile: profile,
	}
}

// Authenticated reports whether a user is signed in
func (s *Session) Authenticated() bool {
	return s.User != nil
}

// Initialize restores the session from the cookie, falling back to the
// durable store, re-writes the token to both stores and fetches the profile.
func (s *Session) Initialize(ctx context.Context) {
	token := s.lookup(ctx)
	if token == "" {
		s.Token, s.User = "", nil
		s.Loading = false
		return
	}

	if err := s.persist(ctx, token); err != nil {
		slog.Warn("failed to resync session token", "error", err)
		s.Logout(ctx)
		return
	}
	s.FetchProfile(ctx, token)
}

// FetchProfile loads the user for token. Any failure clears the session.
func (s *Session) FetchProfile(ctx context.Context, token string) {
	defer func() { s.Loading = false }()

	user, err := s.profile(ctx, token)
	if err != nil {
		slog.Info("session profile fetch failed, clearing token", "error", err)
		s.reset(ctx)
		return
	}

	s.Token = token
	s.User = &user
}

// Login stores token in both stores and fetches the profile.
// Check Authenticated afterwards to see whether the token was accepted.
func (s *Session) Login(ctx context.Context, token string) {
	s.Loading = true
	if err := s.persist(ctx, token); err != nil {
		slog.Warn("failed to persist session token", "error", err)
		s.Logout(ctx)
		return
	}
	s.FetchProfile(ctx, token)
}

// Logout clears the token from both stores and forgets the user.
// Safe to call without a session.
func (s *Session) Logout(ctx context.Context) {
	s.reset(ctx)
	s.Loading = false
}

func (s *Session) reset(ctx context.Context) {
	if err := s.forget(ctx); err != nil {
		slog.Warn("failed to clear session token", "error", err)
	}
	s.Token, s.User = "", nil
}

// lookup reads the cookie first, then the durable store. Read errors count as "no token".
func (s *Session) lookup(ctx context.Context) string {
	for _, store := range []TokenStore{s.cookie, s.durable} {
		token, err := store.Load(ctx)
		if err != nil {
			slog.Warn("failed to read session token", "error", err)
			continue
		}
		if token != "" {
			return token
		}
	}
	return ""
}

// persist writes token to both stores; a failure in one still writes the
// other, and the caller must then clear both
func (s *Session) persist(ctx context.Context, token string) error {
	return errors.Join(s.cookie.Save(ctx, token), s.durable.Save(ctx, token))
}

// forget clears both stores; a failure in one still clears the other
func (s *Session) forget(ctx context.Context) error {
	return errors.Join(s.cookie.Clear(ctx), s.durable.Clear(ctx))
}

// ErrNoToken is returned by Require when the request carries no signed-in session
var ErrNoToken = errors.New("no session token")

type contextKey struct{}

// NewContext returns a copy of ctx carrying s
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by NewContext, if any
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}

// Require returns the authenticated session stored in ctx, or ErrNoToken
func Require(ctx context.Context) (*Session, error) {
	s, ok := FromContext(ctx)
	if !ok || !s.Authenticated() {
		return nil, ErrNoToken
	}
	return s, nil
}
