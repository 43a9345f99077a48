// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/formguard-web/auth"
	"github.com/danielhkuo/formguard-web/models"
)

// limiterIdle is how long an unused per-IP limiter is kept
const limiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	salt      string
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter allows burst requests at once, refilled at limit per second.
// salt is used to hash client IPs before they are logged.
func NewRateLimiter(limit rate.Limit, burst int, salt string) *RateLimiter {
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     limit,
		burst:     burst,
		salt:      salt,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether one more request from ip may proceed
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdle {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdle {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimit rejects requests over the per-IP budget by redirecting back to
// the same path with an error notice
func RateLimit(l *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := GetClientIP(r)
		if !l.Allow(ip) {
			slog.Warn("rate limit exceeded", "path", r.URL.Path, "ip_hash", auth.HashIP(ip, l.salt))
			Redirect(w, r, r.URL.Path, models.FlashError, "Too many requests. Please wait a minute and try again.")
			return
		}
		next(w, r)
	}
}
