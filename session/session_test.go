// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/formguard-web/apiclient"
	"github.com/danielhkuo/formguard-web/models"
	"github.com/danielhkuo/formguard-web/testutil"
)

// memStore is an in-memory TokenStore with injectable failures
type memStore struct {
	token   string
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func (m *memStore) Load(ctx context.Context) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	return m.token, nil
}

func (m *memStore) Save(ctx context.Context, token string) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.clears++
	m.token = ""
	return nil
}

var alice = models.User{ID: "u1", Email: "alice@acme.test", Plan: models.PlanFree}

func okProfile(want string) ProfileFunc {
	return func(ctx context.Context, token string) (models.User, error) {
		if token != want {
			return models.User{}, &apiclient.APIError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
		}
		return alice, nil
	}
}

func failingProfile(err error) ProfileFunc {
	return func(ctx context.Context, token string) (models.User, error) {
		return models.User{}, err
	}
}

func TestInitialize_NoToken(t *testing.T) {
	cookie, durable := &memStore{}, &memStore{}
	calls := 0
	s := New(func(ctx context.Context, token string) (models.User, error) {
		calls++
		return alice, nil
	}, cookie, durable)

	if !s.Loading {
		t.Error("Expected new session to be loading")
	}

	s.Initialize(context.Background())

	if s.Loading {
		t.Error("Expected loading to be false after Initialize")
	}
	if s.Authenticated() {
		t.Error("Expected no user")
	}
	if calls != 0 {
		t.Errorf("Expected no profile fetch, got %d", calls)
	}
}

func TestInitialize_ValidToken(t *testing.T) {
	tests := []struct {
		name    string
		cookie  string
		durable string
	}{
		{"cookie only", "tok", ""},
		{"durable only", "", "tok"},
		{"both", "tok", "tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookie, durable := &memStore{token: tt.cookie}, &memStore{token: tt.durable}
			s := New(okProfile("tok"), cookie, durable)

			s.Initialize(context.Background())

			if s.Loading {
				t.Error("Expected loading to be false")
			}
			if s.User == nil || s.User.ID != alice.ID {
				t.Fatalf("Expected user %s, got %+v", alice.ID, s.User)
			}
			if s.Token != "tok" {
				t.Errorf("Expected token 'tok', got %q", s.Token)
			}
			// Self-healing: both stores hold the token
			if cookie.token != "tok" || durable.token != "tok" {
				t.Errorf("Expected both stores to hold token, got cookie=%q durable=%q", cookie.token, durable.token)
			}
		})
	}
}

func TestInitialize_CookieWins(t *testing.T) {
	cookie, durable := &memStore{token: "from-cookie"}, &memStore{token: "from-durable"}
	s := New(okProfile("from-cookie"), cookie, durable)

	s.Initialize(context.Background())

	if !s.Authenticated() {
		t.Fatal("Expected authenticated session")
	}
	if durable.token != "from-cookie" {
		t.Errorf("Expected durable store overwritten with cookie token, got %q", durable.token)
	}
}

func TestInitialize_CookieReadErrorFallsBack(t *testing.T) {
	cookie := &memStore{loadErr: errors.New("bad cookie")}
	durable := &memStore{token: "tok"}
	s := New(okProfile("tok"), cookie, durable)

	s.Initialize(context.Background())

	if !s.Authenticated() {
		t.Error("Expected fallback to durable store")
	}
}

func TestInitialize_ProfileFailureClearsBothStores(t *testing.T) {
	tests := []struct {
		name    string
		profile ProfileFunc
	}{
		{"rejected token", okProfile("other")},
		{"server error", failingProfile(&apiclient.APIError{Status: 500, Message: "boom"})},
		{"network error", failingProfile(errors.New("dial tcp: connection refused"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookie, durable := &memStore{token: "tok"}, &memStore{token: "tok"}
			s := New(tt.profile, cookie, durable)

			s.Initialize(context.Background())

			if s.User != nil {
				t.Errorf("Expected no user, got %+v", s.User)
			}
			if s.Token != "" {
				t.Errorf("Expected no token, got %q", s.Token)
			}
			if s.Loading {
				t.Error("Expected loading to be false")
			}
			if cookie.token != "" || durable.token != "" {
				t.Errorf("Expected both stores cleared, got cookie=%q durable=%q", cookie.token, durable.token)
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	cookie, durable := &memStore{}, &memStore{}
	s := New(okProfile("new-token"), cookie, durable)
	s.Initialize(context.Background())

	s.Login(context.Background(), "new-token")

	if !s.Authenticated() || s.Token != "new-token" {
		t.Fatalf("Expected authenticated session with token, got token=%q user=%+v", s.Token, s.User)
	}
	if cookie.token != "new-token" || durable.token != "new-token" {
		t.Errorf("Expected token in both stores, got cookie=%q durable=%q", cookie.token, durable.token)
	}
}

func TestLogin_NetworkErrorLeavesNoToken(t *testing.T) {
	cookie, durable := &memStore{}, &memStore{}
	s := New(failingProfile(errors.New("network down")), cookie, durable)

	s.Login(context.Background(), "tok")

	if s.Token != "" || s.User != nil {
		t.Errorf("Expected {token: absent, user: absent}, got token=%q user=%+v", s.Token, s.User)
	}
	if cookie.token != "" || durable.token != "" {
		t.Errorf("Expected both stores cleared, got cookie=%q durable=%q", cookie.token, durable.token)
	}
}

func TestLogin_PersistFailureClearsBoth(t *testing.T) {
	cookie := &memStore{}
	durable := &memStore{saveErr: errors.New("disk full")}
	calls := 0
	s := New(func(ctx context.Context, token string) (models.User, error) {
		calls++
		return alice, nil
	}, cookie, durable)

	s.Login(context.Background(), "tok")

	if s.Authenticated() {
		t.Error("Expected no session when the token cannot be persisted")
	}
	if cookie.token != "" {
		t.Errorf("Expected cookie cleared after partial write, got %q", cookie.token)
	}
	if cookie.saves != 1 || durable.saves != 1 {
		t.Errorf("Expected one write attempt per store, got cookie=%d durable=%d", cookie.saves, durable.saves)
	}
	if calls != 0 {
		t.Errorf("Expected no profile fetch, got %d", calls)
	}
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name  string
		login bool
	}{
		{"after login", true},
		{"without session", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookie, durable := &memStore{}, &memStore{}
			s := New(okProfile("tok"), cookie, durable)
			if tt.login {
				s.Login(context.Background(), "tok")
			}

			s.Logout(context.Background())
			s.Logout(context.Background())

			if s.User != nil || s.Token != "" {
				t.Errorf("Expected empty session, got token=%q user=%+v", s.Token, s.User)
			}
			if cookie.token != "" || durable.token != "" {
				t.Errorf("Expected both stores empty, got cookie=%q durable=%q", cookie.token, durable.token)
			}
			if cookie.clears != 2 || durable.clears != 2 {
				t.Errorf("Expected both stores cleared on every call, got cookie=%d durable=%d", cookie.clears, durable.clears)
			}
		})
	}
}

func TestContext(t *testing.T) {
	s := New(okProfile("tok"), &memStore{}, &memStore{})
	ctx := NewContext(context.Background(), s)

	got, ok := FromContext(ctx)
	if !ok || got != s {
		t.Error("Expected session from context")
	}
	if _, ok := FromContext(context.Background()); ok {
		t.Error("Expected no session in empty context")
	}
}

func TestManager_EndToEnd(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	api := testutil.NewFakeAPI(t)
	cfg := testutil.GetTestConfig()
	mgr := NewManager(conn, cfg, apiclient.New(api.URL, api.Client()))

	// First visit: no cookies, log in
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/auth/verify", nil)
	s := mgr.Load(w, r)
	if s.Authenticated() {
		t.Fatal("Expected anonymous first visit")
	}
	s.Login(r.Context(), "tok-1")
	if !s.Authenticated() {
		t.Fatal("Expected login to succeed")
	}

	device := testutil.ResponseCookie(w, DeviceCookieName)
	token := testutil.ResponseCookie(w, TokenCookieName)
	if device == nil || token == nil {
		t.Fatalf("Expected device and token cookies, got %v", w.Result().Cookies())
	}
	if token.Value != "tok-1" || token.SameSite != http.SameSiteLaxMode || token.Path != "/" {
		t.Errorf("Unexpected token cookie: %+v", token)
	}
	if token.MaxAge != int(TokenMaxAge.Seconds()) {
		t.Errorf("Expected 30 day max age, got %d", token.MaxAge)
	}

	// Second visit: token cookie lost, device cookie kept
	w = httptest.NewRecorder()
	r = testutil.MakeRequest("GET", "/dashboard", nil, device)
	s = mgr.Load(w, r)
	if !s.Authenticated() || s.Token != "tok-1" {
		t.Fatalf("Expected session restored from durable store, got token=%q", s.Token)
	}
	if c := testutil.ResponseCookie(w, TokenCookieName); c == nil || c.Value != "tok-1" {
		t.Errorf("Expected token cookie re-written, got %+v", c)
	}
	if testutil.ResponseCookie(w, DeviceCookieName) != nil {
		t.Error("Expected valid device cookie to be reused")
	}

	// Third visit: logout clears both stores
	w = httptest.NewRecorder()
	r = testutil.MakeRequest("POST", "/logout", nil, device, token)
	mgr.Open(w, r).Logout(r.Context())
	if c := testutil.ResponseCookie(w, TokenCookieName); c == nil || c.MaxAge >= 0 {
		t.Errorf("Expected expired token cookie, got %+v", c)
	}
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM session_token`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Expected durable store empty after logout, got %d rows", n)
	}
}

func TestManager_RejectedTokenClearsDurableStore(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	api := testutil.NewFakeAPI(t)
	api.JSON("GET /auth/me", http.StatusUnauthorized, map[string]string{"message": "Token expired"})
	mgr := NewManager(conn, testutil.GetTestConfig(), apiclient.New(api.URL, api.Client()))

	w := httptest.NewRecorder()
	r := testutil.MakeRequest("GET", "/dashboard", nil, &http.Cookie{Name: TokenCookieName, Value: "stale"})
	s := mgr.Load(w, r)

	if s.Authenticated() || s.Token != "" {
		t.Fatalf("Expected cleared session, got token=%q", s.Token)
	}
	if c := testutil.ResponseCookie(w, TokenCookieName); c == nil || c.MaxAge >= 0 {
		t.Errorf("Expected expired token cookie, got %+v", c)
	}
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM session_token`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Expected durable store empty, got %d rows", n)
	}
}

func TestManager_TamperedDeviceCookie(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	api := testutil.NewFakeAPI(t)
	mgr := NewManager(conn, testutil.GetTestConfig(), apiclient.New(api.URL, api.Client()))

	w := httptest.NewRecorder()
	r := testutil.MakeRequest("GET", "/dashboard", nil, &http.Cookie{Name: DeviceCookieName, Value: "forged.value"})
	mgr.Load(w, r)

	if c := testutil.ResponseCookie(w, DeviceCookieName); c == nil || c.Value == "forged.value" {
		t.Errorf("Expected a fresh device cookie, got %+v", c)
	}
}

func TestRequire(t *testing.T) {
	anon := New(okProfile("tok"), &memStore{}, &memStore{})
	anon.Initialize(context.Background())

	signedIn := New(okProfile("tok"), &memStore{token: "tok"}, &memStore{})
	signedIn.Initialize(context.Background())

	if _, err := Require(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Errorf("Expected ErrNoToken for empty context, got %v", err)
	}
	if _, err := Require(NewContext(context.Background(), anon)); !errors.Is(err, ErrNoToken) {
		t.Errorf("Expected ErrNoToken for anonymous session, got %v", err)
	}
	got, err := Require(NewContext(context.Background(), signedIn))
	if err != nil || got != signedIn {
		t.Errorf("Expected signed-in session, got %v, %v", got, err)
	}
}
