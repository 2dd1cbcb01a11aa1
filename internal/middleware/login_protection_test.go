// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLoginProtection(maxAttempts int) (*LoginProtection, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   time.Minute,
		AttemptWindow:     10 * time.Minute,
	})
	lp.now = clock.now
	return lp, clock
}

func TestNewLoginProtectionFillsDefaults(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	if lp.cfg != DefaultLoginProtectionConfig() {
		t.Errorf("cfg = %+v", lp.cfg)
	}
}

func TestLoginProtectionLocksAfterMaxFailures(t *testing.T) {
	lp, clock := newTestLoginProtection(3)
	const email = "Ali@Example.com"

	for i := range 2 {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Fatalf("locked after %d failures", i+1)
		}
	}
	if n := lp.RemainingAttempts("ali@example.com"); n != 1 {
		t.Errorf("RemainingAttempts = %d, want 1", n)
	}

	locked, d := lp.RecordFailedAttempt(email)
	if !locked || d != time.Minute {
		t.Fatalf("third failure: locked=%v d=%v", locked, d)
	}
	if locked, left := lp.IsAccountLocked("ali@example.com "); !locked || left != time.Minute {
		t.Errorf("IsAccountLocked = %v, %v", locked, left)
	}

	clock.advance(61 * time.Second)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("still locked after the lockout")
	}
}

func TestLoginProtectionLockoutDoubles(t *testing.T) {
	lp, clock := newTestLoginProtection(1)

	want := []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute}
	for i, w := range want {
		_, d := lp.RecordFailedAttempt("ali@example.com")
		if d != w {
			t.Errorf("lockout %d = %v, want %v", i+1, d, w)
		}
		clock.advance(d + time.Second)
	}
}

func TestLoginProtectionLockoutIsCapped(t *testing.T) {
	lp, _ := newTestLoginProtection(1)
	var d time.Duration
	for range 40 {
		_, d = lp.RecordFailedAttempt("ali@example.com")
	}
	if d != maxLockout {
		t.Errorf("lockout = %v, want %v", d, maxLockout)
	}
}

func TestLoginProtectionWindowResets(t *testing.T) {
	lp, clock := newTestLoginProtection(3)

	lp.RecordFailedAttempt("ali@example.com")
	lp.RecordFailedAttempt("ali@example.com")
	clock.advance(11 * time.Minute)

	if n := lp.RemainingAttempts("ali@example.com"); n != 3 {
		t.Errorf("RemainingAttempts after window = %d, want 3", n)
	}
	if locked, _ := lp.RecordFailedAttempt("ali@example.com"); locked {
		t.Error("old failures counted after the window")
	}
}

func TestLoginProtectionSuccessClears(t *testing.T) {
	lp, _ := newTestLoginProtection(3)

	lp.RecordFailedAttempt("ali@example.com")
	lp.RecordFailedAttempt("ali@example.com")
	lp.RecordSuccessfulLogin("ALI@example.com")

	if n := lp.RemainingAttempts("ali@example.com"); n != 3 {
		t.Errorf("RemainingAttempts = %d, want 3", n)
	}
}

func TestLoginProtectionPrune(t *testing.T) {
	lp, clock := newTestLoginProtection(1)

	lp.RecordFailedAttempt("locked@example.com")
	clock.advance(30 * time.Second)
	if n := lp.Prune(clock.now()); n != 0 {
		t.Errorf("pruned %d entries while locked", n)
	}

	clock.advance(20 * time.Minute)
	if n := lp.Prune(clock.now()); n != 1 {
		t.Errorf("Prune = %d, want 1", n)
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	h := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method, ip string) int {
		req := httptest.NewRequest(method, "/signin", nil)
		req.RemoteAddr = ip + ":5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	for range 2 {
		if code := send(http.MethodPost, "10.1.1.1"); code != http.StatusOK {
			t.Fatalf("POST within burst = %d", code)
		}
	}
	if code := send(http.MethodPost, "10.1.1.1"); code != http.StatusTooManyRequests {
		t.Errorf("POST over limit = %d, want 429", code)
	}
	if code := send(http.MethodGet, "10.1.1.1"); code != http.StatusOK {
		t.Errorf("GET = %d, want 200", code)
	}
	if code := send(http.MethodPost, "10.1.1.2"); code != http.StatusOK {
		t.Errorf("other IP = %d, want 200", code)
	}
}
