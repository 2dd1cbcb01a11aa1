// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/model"
)

// Session keys written by Store.
const (
	KeyUser              = "auth_user"
	KeyCredentials       = "auth_credentials"
	KeyVerificationEmail = "verification_email"
	KeyResendAvailableAt = "resend_available_at"
)

// DefaultResendCooldown is the wait between verification emails.
const DefaultResendCooldown = 60 * time.Second

// ErrNoVerificationEmail is returned by ResendVerification when the session
// does not remember which address signed up.
var ErrNoVerificationEmail = errors.New("no verification email in session")

// CooldownError is returned while a resend is not yet allowed.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("resend available in %s", e.Remaining)
}

// Seconds returns the remaining wait rounded up to whole seconds.
func (e *CooldownError) Seconds() int {
	return int((e.Remaining + time.Second - 1) / time.Second)
}

// API is the part of the API client the store needs.
type API interface {
	Login(ctx context.Context, in model.SignIn) (*apiclient.LoginResult, error)
	Logout(ctx context.Context, creds apiclient.Credentials) error
	Register(ctx context.Context, in model.Registration) (*apiclient.RegisterResult, error)
	VerifyEmail(ctx context.Context, token string) (*apiclient.VerifyResult, error)
	ResendVerification(ctx context.Context, email string) (string, error)
}

// Store reads and writes the auth state kept in the session.
type Store struct {
	sm       *scs.SessionManager
	api      API
	sealer   *Sealer
	logger   *slog.Logger
	cooldown time.Duration
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithResendCooldown sets the wait between verification emails.
func WithResendCooldown(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store.
func NewStore(sm *scs.SessionManager, api API, sealer *Sealer, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		sm:       sm,
		api:      api,
		sealer:   sealer,
		logger:   logger,
		cooldown: DefaultResendCooldown,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login validates the form, signs in through the API and stores the result.
// Validation failures are returned as model.FieldErrors and send nothing.
func (s *Store) Login(ctx context.Context, email, password string) (*model.User, error) {
	in := model.SignIn{Email: strings.TrimSpace(email), Password: password}
	if errs := in.Validate(); !errs.Empty() {
		return nil, errs
	}

	res, err := s.api.Login(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.establish(ctx, res.User, res.Credentials); err != nil {
		return nil, err
	}

	s.logger.Info("user signed in", "category", model.EventCategoryAuth, "user_id", res.User.ID)
	return &res.User, nil
}

// Logout ends the API session and forgets the user. The local part always
// succeeds; an API failure is only logged.
func (s *Store) Logout(ctx context.Context) error {
	sess := s.load(ctx)
	if sess.User != nil {
		if err := s.api.Logout(ctx, sess.Credentials); err != nil {
			s.logger.Warn("api logout failed", "category", model.EventCategoryAuth, "user_id", sess.UserID(), "error", err)
		}
	}

	s.sm.Remove(ctx, KeyUser)
	s.sm.Remove(ctx, KeyCredentials)
	if err := s.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	return nil
}

// Register creates an account. It never signs the user in; the email is
// remembered for ResendVerification.
func (s *Store) Register(ctx context.Context, in model.Registration) (*apiclient.RegisterResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if errs := in.Validate(); !errs.Empty() {
		return nil, errs
	}

	res, err := s.api.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	s.sm.Put(ctx, KeyVerificationEmail, in.Email)
	return res, nil
}

// VerifyEmail confirms token. When the API signs the user in as part of
// verification, the session is established.
func (s *Store) VerifyEmail(ctx context.Context, token string) (*apiclient.VerifyResult, error) {
	res, err := s.api.VerifyEmail(ctx, token)
	if err != nil {
		return nil, err
	}
	if res.User != nil && !res.Credentials.Empty() {
		if err := s.establish(ctx, *res.User, res.Credentials); err != nil {
			return nil, err
		}
		s.sm.Remove(ctx, KeyVerificationEmail)
		s.logger.Info("email verified", "category", model.EventCategoryAuth, "user_id", res.User.ID)
	}
	return res, nil
}

// ResendVerification sends a new verification email to the remembered
// address and starts the cooldown.
func (s *Store) ResendVerification(ctx context.Context) (string, error) {
	email := s.sm.GetString(ctx, KeyVerificationEmail)
	if email == "" {
		return "", ErrNoVerificationEmail
	}
	if remaining := s.ResendRemaining(ctx); remaining > 0 {
		return "", &CooldownError{Remaining: remaining}
	}

	msg, err := s.api.ResendVerification(ctx, email)
	if err != nil {
		return "", err
	}
	s.sm.Put(ctx, KeyResendAvailableAt, s.now().Add(s.cooldown).Unix())
	return msg, nil
}

// ResendRemaining returns how long until another verification email may be
// sent; zero when allowed now.
func (s *Store) ResendRemaining(ctx context.Context) time.Duration {
	at := s.sm.GetInt64(ctx, KeyResendAvailableAt)
	if at == 0 {
		return 0
	}
	remaining := time.Unix(at, 0).Sub(s.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// VerificationEmail returns the address remembered at sign-up.
func (s *Store) VerificationEmail(ctx context.Context) string {
	return s.sm.GetString(ctx, KeyVerificationEmail)
}

// UpdateUser replaces the stored user object after a profile change.
func (s *Store) UpdateUser(ctx context.Context, user model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	s.sm.Put(ctx, KeyUser, data)
	return nil
}

// Hydrate reads the persisted session and places it in the request context.
// It makes no API call and must run inside the session manager's LoadAndSave.
func (s *Store) Hydrate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithSession(r.Context(), s.load(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// load decodes the persisted state. An undecodable state is discarded and
// the session becomes anonymous.
func (s *Store) load(ctx context.Context) Session {
	sess := Session{Status: StatusReady}

	raw := s.sm.GetBytes(ctx, KeyUser)
	if raw == nil {
		return sess
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		s.logger.Warn("discarding unreadable auth session", "category", model.EventCategoryAuth, "error", err)
		s.discard(ctx)
		return sess
	}

	creds := apiclient.Credentials{}
	if sealed := s.sm.GetBytes(ctx, KeyCredentials); sealed != nil {
		opened, err := s.sealer.Open(sealed)
		if err != nil {
			s.logger.Warn("discarding unreadable auth credentials", "category", model.EventCategoryAuth, "error", err)
			s.discard(ctx)
			return sess
		}
		creds = opened
	}

	sess.User = &user
	sess.Credentials = creds
	return sess
}

func (s *Store) establish(ctx context.Context, user model.User, creds apiclient.Credentials) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	sealed, err := s.sealer.Seal(creds)
	if err != nil {
		return fmt.Errorf("sealing credentials: %w", err)
	}
	if err := s.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	s.sm.Put(ctx, KeyUser, data)
	s.sm.Put(ctx, KeyCredentials, sealed)
	return nil
}

func (s *Store) discard(ctx context.Context) {
	s.sm.Remove(ctx, KeyUser)
	s.sm.Remove(ctx, KeyCredentials)
}
