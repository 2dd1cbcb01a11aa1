// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/olegiv/hanmaru/internal/i18n"
)

// limiterIdle is how long a client may stay quiet before its limiter is
// forgotten.
const limiterIdle = 30 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterCache holds one token bucket per key.
type limiterCache[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*limiterEntry
	rate    rate.Limit
	burst   int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		entries: make(map[K]*limiterEntry),
		rate:    rate.Limit(rps),
		burst:   burst,
	}
}

// allow takes a token from the bucket of key.
func (lc *limiterCache[K]) allow(key K, now time.Time) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	e, ok := lc.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(lc.rate, lc.burst)}
		lc.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// prune drops the buckets not used for idle and returns how many went.
func (lc *limiterCache[K]) prune(now time.Time, idle time.Duration) int {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	n := 0
	for key, e := range lc.entries {
		if now.Sub(e.lastSeen) > idle {
			delete(lc.entries, key)
			n++
		}
	}
	return n
}

func (lc *limiterCache[K]) size() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return len(lc.entries)
}

// FormRateLimiter throttles public form posts (contact form, newsletter,
// sign-up) per client IP.
type FormRateLimiter struct {
	cache *limiterCache[string]
}

// NewFormRateLimiter creates a limiter allowing rps requests per second with
// the given burst per IP.
func NewFormRateLimiter(rps float64, burst int) *FormRateLimiter {
	return &FormRateLimiter{cache: newLimiterCache[string](rps, burst)}
}

// Middleware rejects POST requests over the limit. JSON clients get a JSON
// error body, browsers a plain text one.
func (rl *FormRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ip := GetClientIP(r)
			if rl.cache.allow(ip, time.Now()) {
				next.ServeHTTP(w, r)
				return
			}

			slog.Warn("form rate limit exceeded", "ip", ip, "path", r.URL.Path)
			msg := i18n.T(GetLang(r), "error.rate_limit")
			if WantsJSON(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success":false,"error":"rate_limit"}`))
				return
			}
			http.Error(w, msg, http.StatusTooManyRequests)
		})
	}
}

// Prune forgets clients that have been quiet for a while.
func (rl *FormRateLimiter) Prune(now time.Time) int {
	return rl.cache.prune(now, limiterIdle)
}

// GetClientIP extracts the client IP from the request, preferring proxy
// headers over RemoteAddr.
func GetClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
