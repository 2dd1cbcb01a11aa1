// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
	"github.com/olegiv/hanmaru/internal/service"
)

// Verification page states.
const (
	VerifyStateVerifying = "verifying"
	VerifyStateSuccess   = "success"
	VerifyStateError     = "error"
)

// DefaultVerifyRedirectSeconds is how long the success page waits before
// going to the home page.
const DefaultVerifyRedirectSeconds = 3

// AuthHandler handles sign-in, sign-up and email verification.
type AuthHandler struct {
	renderer        *render.Renderer
	store           *auth.Store
	loginProtection *middleware.LoginProtection
	eventService    *service.EventService
	redirectSeconds int
}

// NewAuthHandler creates a new AuthHandler. redirectSeconds is the countdown
// shown after a successful verification.
func NewAuthHandler(renderer *render.Renderer, store *auth.Store, lp *middleware.LoginProtection, es *service.EventService, redirectSeconds int) *AuthHandler {
	if redirectSeconds <= 0 {
		redirectSeconds = DefaultVerifyRedirectSeconds
	}
	return &AuthHandler{
		renderer:        renderer,
		store:           store,
		loginProtection: lp,
		eventService:    es,
		redirectSeconds: redirectSeconds,
	}
}

// SignInForm is the sign-in form mirror.
type SignInForm struct {
	Email string
	Next  string
}

// SignInData holds data for the sign-in page.
type SignInData struct {
	// VerificationEmail is set after sign-up so the page can offer a resend.
	VerificationEmail string
	ResendSeconds     int
}

// SignUpForm is the sign-up form mirror. Passwords are never echoed back.
type SignUpForm struct {
	Name  string
	Email string
}

// VerifyData holds data for the email verification page.
type VerifyData struct {
	State           string
	Message         string
	RedirectSeconds int
	CanResend       bool
	ResendSeconds   int
}

// SignInPage handles GET /signin.
func (h *AuthHandler) SignInPage(w http.ResponseWriter, r *http.Request) {
	if sess := auth.FromRequest(r); sess.Authenticated() {
		http.Redirect(w, r, h.afterSignIn(sess.User, r.URL.Query().Get("next")), http.StatusSeeOther)
		return
	}
	h.renderSignIn(w, r, http.StatusOK, SignInForm{Next: r.URL.Query().Get("next")}, nil, "")
}

// SignIn handles POST /signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	if !parseFormOrRedirect(w, r, h.renderer, redirectSignIn) {
		return
	}

	in := SignInForm{
		Email: strings.TrimSpace(r.FormValue("email")),
		Next:  r.FormValue("next"),
	}
	email := strings.ToLower(in.Email)

	if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
		minutes := int(math.Ceil(remaining.Minutes()))
		h.renderSignIn(w, r, http.StatusTooManyRequests, in, nil, i18n.T(lang, "auth.locked", minutes))
		return
	}

	user, err := h.store.Login(r.Context(), in.Email, r.FormValue("password"))
	if err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.renderSignIn(w, r, http.StatusUnprocessableEntity, in, errs, "")
			return
		}

		msg := errorText(r, err, "auth.signin_failed")
		if apiclient.IsUnauthorized(err) {
			if locked, _ := h.loginProtection.RecordFailedAttempt(email); locked {
				msg = i18n.T(lang, "auth.locked_now")
			}
		}
		slog.Warn("sign-in failed", "category", model.EventCategoryAuth, "email", email, "error", err)
		h.renderSignIn(w, r, signInStatus(err), in, nil, msg)
		return
	}

	h.loginProtection.RecordSuccessfulLogin(email)
	h.logEvent(r, model.EventLevelInfo, "User signed in", map[string]any{"user_id": user.ID})

	flashAndRedirect(w, r, h.renderer, h.afterSignIn(user, in.Next),
		i18n.T(lang, "auth.welcome", user.Name), render.FlashSuccess)
}

// afterSignIn returns where a signed-in user goes from the sign-in page.
func (h *AuthHandler) afterSignIn(user *model.User, next string) string {
	if middleware.SafeRedirect(next) && next != redirectSignIn {
		return next
	}
	if user != nil && user.IsAdmin() {
		return redirectAdmin
	}
	return RouteRoot
}

func signInStatus(err error) int {
	switch {
	case apiclient.IsUnauthorized(err):
		return http.StatusUnauthorized
	case apiclient.IsForbidden(err):
		return http.StatusForbidden
	case apiclient.IsNetwork(err):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func (h *AuthHandler) renderSignIn(w http.ResponseWriter, r *http.Request, status int, form SignInForm, errs model.FieldErrors, errMsg string) {
	lang := middleware.GetLang(r)
	data := SignInData{VerificationEmail: h.store.VerificationEmail(r.Context())}
	if data.VerificationEmail != "" {
		data.ResendSeconds = seconds(h.store.ResendRemaining(r.Context()))
	}
	h.renderer.RenderPageStatus(w, r, status, "auth/signin", render.TemplateData{
		Title:  i18n.T(lang, "auth.signin"),
		Form:   form,
		Data:   data,
		Errors: errs,
		Error:  errMsg,
	})
}

// SignUpPage handles GET /signup.
func (h *AuthHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	if auth.FromRequest(r).Authenticated() {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}
	h.renderSignUp(w, r, http.StatusOK, SignUpForm{}, nil, "")
}

// SignUp handles POST /signup. A new account is never signed in; the user
// is sent to the sign-in page to wait for the verification email.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	if !parseFormOrRedirect(w, r, h.renderer, RouteSignUp) {
		return
	}

	in := model.Registration{
		Name:            r.FormValue("name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
	}
	form := SignUpForm{Name: strings.TrimSpace(in.Name), Email: strings.TrimSpace(in.Email)}

	res, err := h.store.Register(r.Context(), in)
	if err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.renderSignUp(w, r, http.StatusUnprocessableEntity, form, errs, "")
			return
		}
		slog.Warn("sign-up failed", "category", model.EventCategoryAuth, "email", form.Email, "error", err)
		h.renderSignUp(w, r, http.StatusBadRequest, form, nil, errorText(r, err, "auth.signup_failed"))
		return
	}

	h.logEvent(r, model.EventLevelInfo, "User registered", map[string]any{"email": form.Email})

	msg := res.Message
	if msg == "" {
		msg = i18n.T(lang, "auth.signup_success")
	}
	flashSuccess(w, r, h.renderer, redirectSignIn, msg)
}

func (h *AuthHandler) renderSignUp(w http.ResponseWriter, r *http.Request, status int, form SignUpForm, errs model.FieldErrors, errMsg string) {
	h.renderer.RenderPageStatus(w, r, status, "auth/signup", render.TemplateData{
		Title:  i18n.T(middleware.GetLang(r), "auth.signup"),
		Form:   form,
		Errors: errs,
		Error:  errMsg,
	})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromRequest(r)
	if err := h.store.Logout(r.Context()); err != nil {
		slog.Error("logout failed", "category", model.EventCategoryAuth, "error", err)
	}
	if sess.Authenticated() {
		h.logEvent(r, model.EventLevelInfo, "User signed out", map[string]any{"user_id": sess.UserID()})
	}
	flashSuccess(w, r, h.renderer, RouteRoot, i18n.T(middleware.GetLang(r), "auth.signed_out"))
}

// VerifyEmail handles GET /verify-email/{token}. The token is confirmed
// right away; without one the page waits for the link from the email.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	token := chi.URLParam(r, "token")

	data := VerifyData{State: VerifyStateVerifying}
	status := http.StatusOK

	if token != "" {
		res, err := h.store.VerifyEmail(r.Context(), token)
		if err != nil {
			slog.Warn("email verification failed", "category", model.EventCategoryAuth, "error", err)
			data.State = VerifyStateError
			data.Message = errorText(r, err, "verify.failed")
			status = http.StatusBadRequest
		} else {
			data.State = VerifyStateSuccess
			data.Message = res.Message
			if data.Message == "" {
				data.Message = i18n.T(lang, "verify.success")
			}
			data.RedirectSeconds = h.redirectSeconds
			h.logEvent(r, model.EventLevelInfo, "Email verified", nil)
		}
	}

	if data.State != VerifyStateSuccess {
		data.CanResend = h.store.VerificationEmail(r.Context()) != ""
		data.ResendSeconds = seconds(h.store.ResendRemaining(r.Context()))
	}

	h.renderer.RenderPageStatus(w, r, status, "auth/verify", render.TemplateData{
		Title: i18n.T(lang, "verify.title"),
		Data:  data,
	})
}

// ResendVerification handles POST /verify-email/resend.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	back := backTo(r, redirectSignIn)

	msg, err := h.store.ResendVerification(r.Context())
	if err != nil {
		var cooldown *auth.CooldownError
		switch {
		case errors.Is(err, auth.ErrNoVerificationEmail):
			if middleware.WantsJSON(r) {
				writeJSON(w, http.StatusConflict, map[string]any{"success": false, "redirect": redirectSignIn})
				return
			}
			flashAndRedirect(w, r, h.renderer, redirectSignIn, i18n.T(lang, "verify.no_email"), render.FlashInfo)
		case errors.As(err, &cooldown):
			text := i18n.T(lang, "verify.resend_wait", cooldown.Seconds())
			if middleware.WantsJSON(r) {
				w.Header().Set("Retry-After", strconv.Itoa(cooldown.Seconds()))
				writeJSON(w, http.StatusTooManyRequests, map[string]any{"success": false, "error": text, "retryAfter": cooldown.Seconds()})
				return
			}
			flashError(w, r, h.renderer, back, text)
		default:
			slog.Warn("resend verification failed", "category", model.EventCategoryAuth, "error", err)
			text := errorText(r, err, "verify.resend_failed")
			if middleware.WantsJSON(r) {
				writeJSONError(w, http.StatusBadGateway, text)
				return
			}
			flashError(w, r, h.renderer, back, text)
		}
		return
	}

	if msg == "" {
		msg = i18n.T(lang, "verify.resend_sent")
	}
	if middleware.WantsJSON(r) {
		writeJSONSuccess(w, map[string]any{"message": msg, "retryAfter": seconds(h.store.ResendRemaining(r.Context()))})
		return
	}
	flashSuccess(w, r, h.renderer, back, msg)
}

func (h *AuthHandler) logEvent(r *http.Request, level, message string, metadata map[string]any) {
	if h.eventService == nil {
		return
	}
	if err := h.eventService.LogEvent(r.Context(), level, model.EventCategoryAuth, message, chimw.GetReqID(r.Context()), metadata); err != nil {
		slog.Error("failed to log event", "error", err)
	}
}
