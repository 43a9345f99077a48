// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/formguard-web/testutil"
)

func TestRateLimiter_Allow(t *testing.T) {
	l := NewRateLimiter(rate.Every(time.Minute), 2, "salt")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("1.1.1.1") || !l.Allow("1.1.1.1") {
		t.Fatal("Expected burst of 2 to be allowed")
	}
	if l.Allow("1.1.1.1") {
		t.Error("Expected third request to be rejected")
	}
	if !l.Allow("2.2.2.2") {
		t.Error("Expected other IP to have its own budget")
	}

	now = now.Add(time.Minute)
	if !l.Allow("1.1.1.1") {
		t.Error("Expected budget to refill after a minute")
	}
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	l := NewRateLimiter(rate.Every(time.Minute), 1, "salt")
	now := time.Now()
	l.now = func() time.Time { return now }

	l.Allow("1.1.1.1")
	now = now.Add(2 * limiterIdle)
	l.Allow("2.2.2.2")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.visitors["1.1.1.1"]; ok {
		t.Error("Expected idle visitor to be swept")
	}
	if len(l.visitors) != 1 {
		t.Errorf("Expected 1 visitor, got %d", len(l.visitors))
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	l := NewRateLimiter(rate.Every(time.Hour), 1, "salt")
	calls := 0
	handler := RateLimit(l, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	req := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := testutil.MakeRequest("POST", "/login", nil)
		r.RemoteAddr = "203.0.113.7:5555"
		handler(w, r)
		return w
	}

	testutil.AssertStatus(t, req(), http.StatusOK)

	w := req()
	testutil.AssertRedirect(t, w, "/login")
	if testutil.ResponseCookie(w, FlashCookieName) == nil {
		t.Error("Expected flash explaining the rejection")
	}
	if calls != 1 {
		t.Errorf("Expected handler called once, got %d", calls)
	}
}
