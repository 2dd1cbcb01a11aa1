// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olegiv/hanmaru/internal/i18n"
)

func TestTimeoutPassesFastResponses(t *testing.T) {
	h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); !ok {
			t.Error("request context has no deadline")
		}
		w.Header().Set("X-Course", "c1")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/courses/c1/enroll", nil))

	if rr.Code != http.StatusCreated {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if got := rr.Header().Get("X-Course"); got != "c1" {
		t.Errorf("X-Course = %q", got)
	}
	if rr.Body.String() != "created" {
		t.Errorf("Body = %q", rr.Body.String())
	}
}

func TestTimeoutAnswersInVisitorLanguage(t *testing.T) {
	if err := i18n.Init(nil); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}

	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
			_, _ = w.Write([]byte("too late"))
		case <-r.Context().Done():
		}
	})

	tests := []struct {
		name   string
		cookie string
		lang   string
	}{
		{"default language", "", "uz"},
		{"cookie language", "en", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/courses", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			Timeout(30*time.Millisecond)(slow).ServeHTTP(rr, req)

			if rr.Code != http.StatusServiceUnavailable {
				t.Errorf("Status = %d, want 503", rr.Code)
			}
			if want := i18n.T(tt.lang, "error.timeout"); rr.Body.String() != want {
				t.Errorf("Body = %q, want %q", rr.Body.String(), want)
			}
		})
	}
}
