// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/olegiv/hanmaru/internal/i18n"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyLanguage holds the language code of the request.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "hanmaru_lang"

// Language stores the request language in the context. An explicit
// ?lang= switch wins and is remembered in a cookie for a year; otherwise the
// cookie, then Accept-Language, then the default language apply.
func Language(secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang, switched := requestLanguage(r)
			if switched {
				http.SetCookie(w, &http.Cookie{
					Name:     LanguageCookieName,
					Value:    lang,
					Path:     "/",
					MaxAge:   365 * 24 * 60 * 60,
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestLanguage picks the language for r. switched reports an explicit,
// supported ?lang= value.
func requestLanguage(r *http.Request) (lang string, switched bool) {
	if q := strings.ToLower(r.URL.Query().Get("lang")); i18n.IsSupported(q) {
		return q, true
	}
	if c, err := r.Cookie(LanguageCookieName); err == nil {
		if v := strings.ToLower(c.Value); i18n.IsSupported(v) {
			return v, false
		}
	}
	return i18n.MatchLanguage(r.Header.Get("Accept-Language")), false
}

// GetLang returns the request language, or the default language.
func GetLang(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return i18n.DefaultLanguage
}
