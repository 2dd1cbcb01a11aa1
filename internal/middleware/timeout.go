// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/hanmaru/internal/i18n"
)

// Timeout bounds a request, including the API calls it makes through the
// request context. A handler still running at the deadline is answered with
// 503 and a short message in the visitor's language. The response is
// buffered until the handler returns.
func Timeout(limit time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang, _ := requestLanguage(r)
			th := http.TimeoutHandler(next, limit, i18n.T(lang, "error.timeout"))

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			th.ServeHTTP(ww, r)

			if ww.Status() == http.StatusServiceUnavailable && time.Since(start) >= limit {
				slog.Warn("request timed out", "category", "system", "path", r.URL.Path, "timeout", limit)
			}
		})
	}
}
