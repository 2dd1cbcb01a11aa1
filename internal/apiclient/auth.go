// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/olegiv/hanmaru/internal/model"
)

// LoginResult is the user plus the cookies the API issued.
type LoginResult struct {
	User        model.User
	Credentials Credentials
}

// Login signs in and returns the user object the API answered with.
func (c *Client) Login(ctx context.Context, in model.SignIn) (*LoginResult, error) {
	var user model.User
	resp, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   in,
	}, &user)
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, &Error{Kind: KindUnexpected, Status: resp.status, Err: errors.New("login response has no user")}
	}
	return &LoginResult{User: user, Credentials: Credentials{}.Merge(resp.cookies)}, nil
}

// Logout ends the API session.
func (c *Client) Logout(ctx context.Context, creds Credentials) error {
	_, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/logout",
		creds:  creds,
		body:   struct{}{},
	}, nil)
	return err
}

// RegisterResult is the payload of a successful registration.
type RegisterResult struct {
	Message string `json:"message"`
}

// Register creates an account pending email verification.
func (c *Client) Register(ctx context.Context, in model.Registration) (*RegisterResult, error) {
	var out RegisterResult
	if _, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   in,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyResult is the payload of a verified email token. User is set when
// the API signs the user in as part of verification.
type VerifyResult struct {
	Message     string      `json:"message"`
	User        *model.User `json:"user"`
	Token       string      `json:"token"`
	Credentials Credentials `json:"-"`
}

// VerifyEmail confirms an emailed token.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*VerifyResult, error) {
	var out VerifyResult
	resp, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   "/api/auth/verify-email/" + pathID(token),
	}, &out)
	if err != nil {
		return nil, err
	}
	out.Credentials = Credentials{}.Merge(resp.cookies)
	if out.Token != "" {
		if _, ok := out.Credentials[TokenCookie]; !ok {
			out.Credentials[TokenCookie] = out.Token
		}
	}
	return &out, nil
}

// ResendVerification asks the API to send a new verification email.
func (c *Client) ResendVerification(ctx context.Context, email string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if _, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/resend-verification",
		body:   map[string]string{"email": email},
	}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
