// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/hanmaru/internal/i18n"
)

// maxLockout caps the doubling lockout.
const maxLockout = 24 * time.Hour

// LoginProtectionConfig tunes the sign-in guard.
type LoginProtectionConfig struct {
	// IPRateLimit is sign-in posts per second per IP.
	IPRateLimit float64
	IPBurst     int
	// MaxFailedAttempts within AttemptWindow lock the email.
	MaxFailedAttempts int
	// LockoutDuration is the first lockout; each further one doubles it.
	LockoutDuration time.Duration
	AttemptWindow   time.Duration
}

// DefaultLoginProtectionConfig allows a sign-in post every two seconds per
// IP with a burst of five, and locks an email for 15 minutes after five
// failures in 15 minutes.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

type failures struct {
	count       int
	windowStart time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtection throttles sign-in posts per IP and locks an email after
// repeated wrong passwords, before anything reaches the API.
type LoginProtection struct {
	cfg LoginProtectionConfig
	ips *limiterCache[string]
	now func() time.Time

	mu     sync.Mutex
	emails map[string]*failures
}

// NewLoginProtection fills zero config fields from the defaults.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	def := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = def.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = def.AttemptWindow
	}
	return &LoginProtection{
		cfg:    cfg,
		ips:    newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		now:    time.Now,
		emails: make(map[string]*failures),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAccountLocked reports whether email is locked and for how much longer.
func (lp *LoginProtection) IsAccountLocked(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	f, ok := lp.emails[emailKey(email)]
	if !ok {
		return false, 0
	}
	if left := f.lockedUntil.Sub(lp.now()); left > 0 {
		return true, left
	}
	return false, 0
}

// RecordFailedAttempt counts a wrong password for email. It reports whether
// this failure locked the email, and for how long.
func (lp *LoginProtection) RecordFailedAttempt(email string) (bool, time.Duration) {
	key := emailKey(email)
	now := lp.now()

	lp.mu.Lock()
	defer lp.mu.Unlock()

	f, ok := lp.emails[key]
	if !ok {
		f = &failures{}
		lp.emails[key] = f
	}
	if f.count == 0 || now.Sub(f.windowStart) > lp.cfg.AttemptWindow {
		f.count, f.windowStart = 0, now
	}
	f.count++
	if f.count < lp.cfg.MaxFailedAttempts {
		return false, 0
	}

	lock := min(lp.cfg.LockoutDuration<<min(f.lockouts, 16), maxLockout)
	f.lockedUntil = now.Add(lock)
	f.lockouts++
	f.count = 0

	slog.Warn("sign-in locked", "category", "auth", "email", key, "lockouts", f.lockouts, "duration", lock)
	return true, lock
}

// RecordSuccessfulLogin forgets the failures of email.
func (lp *LoginProtection) RecordSuccessfulLogin(email string) {
	lp.mu.Lock()
	delete(lp.emails, emailKey(email))
	lp.mu.Unlock()
}

// RemainingAttempts is how many more failures email may have before it is
// locked.
func (lp *LoginProtection) RemainingAttempts(email string) int {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	f, ok := lp.emails[emailKey(email)]
	if !ok || lp.now().Sub(f.windowStart) > lp.cfg.AttemptWindow {
		return lp.cfg.MaxFailedAttempts
	}
	return max(lp.cfg.MaxFailedAttempts-f.count, 0)
}

// Prune forgets idle IP limiters and emails whose lockout and window have
// both passed. It returns the number of entries dropped.
func (lp *LoginProtection) Prune(now time.Time) int {
	n := lp.ips.prune(now, limiterIdle)

	lp.mu.Lock()
	defer lp.mu.Unlock()
	for key, f := range lp.emails {
		if now.After(f.lockedUntil) && now.Sub(f.windowStart) > lp.cfg.AttemptWindow {
			delete(lp.emails, key)
			n++
		}
	}
	return n
}

// Middleware limits sign-in posts per client IP.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ip := GetClientIP(r)
			if !lp.ips.allow(ip, lp.now()) {
				slog.Warn("sign-in rate limit exceeded", "category", "auth", "ip", ip)
				http.Error(w, i18n.T(GetLang(r), "auth.rate_limit"), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
