// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth owns the signed-in state of a browser session: the user the
// API returned and the API cookies issued for that user.
package auth

import (
	"context"
	"net/http"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/model"
)

// Status tells whether the persisted session has been read yet.
type Status int

const (
	// StatusLoading means the session has not been hydrated for this request.
	StatusLoading Status = iota
	// StatusReady means User reflects the persisted session.
	StatusReady
)

// Session is the auth state of one request.
type Session struct {
	Status      Status
	User        *model.User
	Credentials apiclient.Credentials
}

// Ready reports whether the session has been hydrated.
func (s Session) Ready() bool {
	return s.Status == StatusReady
}

// Authenticated reports whether a user is signed in.
func (s Session) Authenticated() bool {
	return s.Status == StatusReady && s.User != nil
}

// UserID returns the signed-in user's id or "".
func (s Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// IsAdmin reports whether the signed-in user is an admin.
func (s Session) IsAdmin() bool {
	return s.Authenticated() && s.User.IsAdmin()
}

type contextKey struct{}

// WithSession returns ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session of ctx. Without one the status is Loading.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(contextKey{}).(Session)
	return s
}

// FromRequest is FromContext for r.
func FromRequest(r *http.Request) Session {
	return FromContext(r.Context())
}
