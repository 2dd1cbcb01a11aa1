// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for route protection,
// request hardening and request context handling.
package middleware

import (
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/model"
)

// SignInPath is where anonymous visitors are sent.
const SignInPath = "/signin"

// Action is the outcome of a route guard.
type Action int

// Guard actions.
const (
	ActionRender Action = iota
	ActionLoading
	ActionRedirect
)

// Decision tells a guarded route what to do.
type Decision struct {
	Action Action
	Target string
}

// Decide is the guard rule for a route that requires a signed-in user and,
// when requiredRole is non-empty, that role. path is the requested URL used
// for the return link after sign-in.
func Decide(sess auth.Session, requiredRole, path string) Decision {
	switch {
	case !sess.Ready():
		return Decision{Action: ActionLoading}
	case sess.User == nil:
		return Decision{Action: ActionRedirect, Target: SignInURL(path)}
	case requiredRole != "" && sess.User.Role != requiredRole:
		return Decision{Action: ActionRedirect, Target: "/"}
	default:
		return Decision{Action: ActionRender}
	}
}

// SignInURL returns the sign-in page that returns to next afterwards.
func SignInURL(next string) string {
	if !SafeRedirect(next) || next == "/" {
		return SignInPath
	}
	return SignInPath + "?next=" + url.QueryEscape(next)
}

// SafeRedirect reports whether target is a local path that is safe to
// redirect to.
func SafeRedirect(target string) bool {
	return strings.HasPrefix(target, "/") &&
		!strings.HasPrefix(target, "//") &&
		!strings.HasPrefix(target, "/\\")
}

// RequireAuth allows only signed-in users.
func RequireAuth() func(http.Handler) http.Handler {
	return guard("")
}

// RequireRole allows only signed-in users with role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return guard(role)
}

func guard(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := auth.FromRequest(r)
			d := Decide(sess, role, r.URL.RequestURI())

			switch d.Action {
			case ActionRender:
				next.ServeHTTP(w, r)
			case ActionLoading:
				writeLoading(w, r)
			case ActionRedirect:
				slog.Warn("access denied",
					"category", model.EventCategoryAuth,
					"path", r.URL.Path,
					"user_id", sess.UserID(),
					"required_role", role,
				)
				if WantsJSON(r) {
					status := http.StatusUnauthorized
					if sess.User != nil {
						status = http.StatusForbidden
					}
					writeRedirectJSON(w, status, d.Target)
					return
				}
				http.Redirect(w, r, d.Target, http.StatusSeeOther)
			}
		})
	}
}

// WantsJSON reports whether the client asked for a JSON answer.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

func writeRedirectJSON(w http.ResponseWriter, status int, target string) {
	if strings.HasPrefix(target, SignInPath) {
		target = SignInPath
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"redirect":"` + target + `"}`))
}

// writeLoading answers with a neutral page that retries shortly. The guarded
// content is never rendered while the session state is unknown.
func writeLoading(w http.ResponseWriter, r *http.Request) {
	lang := GetLang(r)
	title := html.EscapeString(i18n.T(lang, "common.loading"))
	w.Header().Set("Retry-After", "1")
	w.Header().Set("Cache-Control", "no-store")
	if WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"loading":true}`))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`<!DOCTYPE html><html lang="` + lang + `"><head><meta charset="utf-8">` +
		`<meta http-equiv="refresh" content="1"><title>` + title + `</title></head>` +
		`<body><p class="loading">` + title + `</p></body></html>`))
}
