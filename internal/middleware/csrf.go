// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net"
	"net/http"

	"filippo.io/csrf/gorilla"

	"github.com/olegiv/hanmaru/internal/i18n"
)

// CSRF rejects cross-origin form posts. The check reads the Sec-Fetch-Site
// and Origin headers, so forms carry no token. trusted lists host:port
// origins that may still post, such as a front-end dev server.
func CSRF(key []byte, trusted ...string) func(http.Handler) http.Handler {
	opts := []csrf.Option{csrf.ErrorHandler(http.HandlerFunc(csrfRejected))}
	if len(trusted) > 0 {
		opts = append(opts, csrf.TrustedOrigins(trusted))
	}
	return csrf.Protect(key, opts...)
}

// DevOrigins are the origins a local browser uses to reach addr.
func DevOrigins(addr string) []string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return nil
	}
	return []string{
		net.JoinHostPort("localhost", port),
		net.JoinHostPort("127.0.0.1", port),
	}
}

func csrfRejected(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.Warn("cross-origin post rejected", "category", "auth",
		"reason", reason, "method", r.Method, "path", r.URL.Path,
		"origin", r.Header.Get("Origin"), "sec_fetch_site", r.Header.Get("Sec-Fetch-Site"))

	if WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"error":"csrf"}`))
		return
	}
	http.Error(w, i18n.T(GetLang(r), "error.csrf"), http.StatusForbidden)
}
