// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the server-side session manager. One session
// holds everything a browser would otherwise keep in local storage: the
// API credentials, saved items and dismissed notices.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const (
	// Lifetime bounds a session regardless of activity.
	Lifetime = 7 * 24 * time.Hour
	// IdleTimeout ends a session nobody used for this long.
	IdleTimeout = 72 * time.Hour
	// CleanupInterval is how often expired rows leave the sessions table.
	CleanupInterval = 30 * time.Minute
)

// CookieName is the session cookie name. Over HTTPS the __Host- prefix
// binds the cookie to this exact host.
func CookieName(secure bool) string {
	if secure {
		return "__Host-hanmaru"
	}
	return "hanmaru_session"
}

// New returns a session manager storing sessions in the sessions table of
// db. Cookies are Secure outside development.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.NewWithCleanupInterval(db, CleanupInterval)
	sm.Lifetime = Lifetime
	sm.IdleTimeout = IdleTimeout

	secure := !isDev
	sm.Cookie = scs.SessionCookie{
		Name:     CookieName(secure),
		Path:     "/",
		HttpOnly: true,
		Persist:  true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return sm
}
