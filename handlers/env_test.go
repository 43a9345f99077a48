// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/danielhkuo/formguard-web/apiclient"
	"github.com/danielhkuo/formguard-web/middleware"
	"github.com/danielhkuo/formguard-web/session"
	"github.com/danielhkuo/formguard-web/testutil"
	"github.com/danielhkuo/formguard-web/views"
)

// env wires handlers to a fake API and an in-memory token store
type env struct {
	api      *testutil.FakeAPI
	client   *apiclient.Client
	views    *views.Renderer
	sessions *session.Manager
}

func newEnv(t *testing.T) *env {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	renderer, err := views.New()
	if err != nil {
		t.Fatalf("Failed to load templates: %v", err)
	}

	api := testutil.NewFakeAPI(t)
	client := apiclient.New(api.URL, api.Client())

	return &env{
		api:      api,
		client:   client,
		views:    renderer,
		sessions: session.NewManager(conn, testutil.GetTestConfig(), client),
	}
}

var signedIn = &http.Cookie{Name: session.TokenCookieName, Value: "tok"}

// serve routes r to h behind RequireSession, as the router does
func (e *env) serve(route string, h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(route, middleware.RequireSession(e.sessions, h))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func get(path string) *http.Request {
	return testutil.MakeRequest("GET", path, nil, signedIn)
}

func post(path string, form url.Values) *http.Request {
	if form == nil {
		form = url.Values{}
	}
	return testutil.MakeRequest("POST", path, form, signedIn)
}

// recorder keeps the JSON bodies sent to one fake API route
type recorder struct {
	mu     sync.Mutex
	bodies []map[string]any
	auth   []string
}

func (rec *recorder) count() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.bodies)
}

func (rec *recorder) last() map[string]any {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.bodies) == 0 {
		return nil
	}
	return rec.bodies[len(rec.bodies)-1]
}

func (rec *recorder) lastAuth() string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.auth) == 0 {
		return ""
	}
	return rec.auth[len(rec.auth)-1]
}

// capture answers route with resp and records each request body
func capture(t *testing.T, api *testutil.FakeAPI, route string, status int, resp any) *recorder {
	t.Helper()
	rec := &recorder{}
	api.Handle(route, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Errorf("Invalid JSON sent to %s: %v", route, err)
			}
		}
		rec.mu.Lock()
		rec.bodies = append(rec.bodies, body)
		rec.auth = append(rec.auth, r.Header.Get("Authorization"))
		rec.mu.Unlock()
		testutil.WriteJSON(w, status, resp)
	})
	return rec
}

// flashOf decodes the flash set on w as "kind: message"
func flashOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	c := testutil.ResponseCookie(w, middleware.FlashCookieName)
	if c == nil {
		return ""
	}
	r := testutil.MakeRequest("GET", "/", nil, c)
	f := middleware.PopFlash(httptest.NewRecorder(), r)
	if f == nil {
		return ""
	}
	return f.Kind + ": " + f.Message
}
