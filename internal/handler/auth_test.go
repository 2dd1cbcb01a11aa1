// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/hanmaru/internal/model"
)

func TestSignInRedirects(t *testing.T) {
	tests := []struct {
		name string
		role string
		next string
		want string
	}{
		{"user goes home", model.RoleUser, "", "/"},
		{"admin goes to dashboard", model.RoleAdmin, "", "/admin"},
		{"next is honoured", model.RoleUser, "/saved", "/saved"},
		{"foreign next is ignored", model.RoleUser, "//evil.example/x", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.api.AddUser("Ali", "ali@example.com", "secret1", tt.role)

			rec := app.post("/signin", url.Values{
				"email":    {"ali@example.com"},
				"password": {"secret1"},
				"next":     {tt.next},
			})
			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestSignInWelcomesUser(t *testing.T) {
	app := newTestApp(t)
	app.signInAs(model.RoleUser)

	body := app.get("/").Body.String()
	assert.Contains(t, body, "Xush kelibsiz, Test user!")
	assert.Contains(t, body, `action="/logout"`)
}

func TestSignInValidationSendsNothing(t *testing.T) {
	app := newTestApp(t)

	rec := app.post("/signin", url.Values{"email": {"ali@example.com"}, "password": {"123"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="ali@example.com"`)
	assert.Zero(t, app.api.CallCount(http.MethodPost, "/api/auth/login"))
}

func TestSignInWrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.api.AddUser("Ali", "ali@example.com", "secret1", model.RoleUser)

	rec := app.post("/signin", url.Values{"email": {"ali@example.com"}, "password": {"wrong-password"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email yoki parol noto")

	rec = app.get("/profile")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestSignInPageRedirectsSignedInUser(t *testing.T) {
	app := newTestApp(t)
	app.signInAs(model.RoleUser)

	rec := app.get("/signin")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	app.signInAs(model.RoleUser)
	require.Equal(t, http.StatusOK, app.get("/profile").Code)

	rec := app.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = app.get("/profile")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin?next=%2Fprofile", rec.Header().Get("Location"))
}

func TestSignUpValidation(t *testing.T) {
	app := newTestApp(t)

	rec := app.post("/signup", url.Values{
		"name":            {"Ali"},
		"email":           {"ali@example.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret2"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Parollar mos kelmadi")
	assert.NotContains(t, rec.Body.String(), "secret1")
	assert.Zero(t, app.api.CallCount(http.MethodPost, "/api/auth/register"))
}

func TestSignUpThenVerify(t *testing.T) {
	app := newTestApp(t)

	rec := app.post("/signup", url.Values{
		"name":            {"Ali"},
		"email":           {"ali@example.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))

	// Not signed in yet; the sign-in page offers a resend
	body := app.get("/signin").Body.String()
	assert.Contains(t, body, "data-resend")
	assert.Equal(t, http.StatusSeeOther, app.get("/profile").Code)

	rec = app.get("/verify-email/not-a-token")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	token := app.api.VerificationToken("ali@example.com")
	require.NotEmpty(t, token)
	rec = app.get("/verify-email/" + token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email tasdiqlandi")

	assert.Equal(t, http.StatusOK, app.get("/profile").Code)
}

func TestResendVerification(t *testing.T) {
	app := newTestApp(t)

	rec := app.postJSON("/verify-email/resend", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "/signin", decodeJSON(t, rec)["redirect"])

	require.Equal(t, http.StatusSeeOther, app.post("/signup", url.Values{
		"name":            {"Ali"},
		"email":           {"ali@example.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	}).Code)

	rec = app.postJSON("/verify-email/resend", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeJSON(t, rec)
	assert.Equal(t, true, out["success"])
	assert.Greater(t, out["retryAfter"], float64(0))

	rec = app.postJSON("/verify-email/resend", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, app.api.CallCount(http.MethodPost, "/api/auth/resend-verification"))
}
