// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
	"github.com/olegiv/hanmaru/internal/uikit"
)

// flashAndRedirect queues a flash of kind and answers 303 to url, so a
// reload never re-posts the form.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, kind string) {
	renderer.SetFlash(r, message, kind)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// parseFormOrRedirect parses the posted form. On a malformed body it has
// already redirected to back with an error flash and reports false.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, back string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, back, i18n.T(middleware.GetLang(r), "error.invalid_form"))
		return false
	}
	return true
}

// logAndInternalError logs msg with args and answers a bare 500.
func logAndInternalError(w http.ResponseWriter, msg string, args ...any) {
	slog.Error(msg, args...)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// writeJSON writes v with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError answers {"success":false,"error":message}.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

// writeJSONSuccess answers data with "success" set to true.
func writeJSONSuccess(w http.ResponseWriter, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	data["success"] = true
	writeJSON(w, http.StatusOK, data)
}

// errorText translates the message to show for a failed API call.
func errorText(r *http.Request, err error, fallback string) string {
	return i18n.T(middleware.GetLang(r), apiclient.UserMessage(err, fallback))
}

// fieldErrors extracts validation failures from err.
func fieldErrors(err error) (model.FieldErrors, bool) {
	var errs model.FieldErrors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// apiStatus maps a failed API call to the status of the page answering it.
func apiStatus(err error) int {
	switch {
	case apiclient.IsNotFound(err):
		return http.StatusNotFound
	case apiclient.IsUnauthorized(err):
		return http.StatusUnauthorized
	case apiclient.IsForbidden(err):
		return http.StatusForbidden
	case apiclient.IsNetwork(err):
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

// backTo returns the local page the form was posted from, or fallback.
func backTo(r *http.Request, fallback string) string {
	if next := r.FormValue("next"); middleware.SafeRedirect(next) {
		return next
	}
	return fallback
}

// seconds rounds d up to whole seconds.
func seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

// trail is the breadcrumb of a detail page below a section of the site.
func trail(lang, sectionKey, sectionURL, title string) []uikit.Breadcrumb {
	return uikit.Trail(
		i18n.T(lang, "nav.home"), RouteRoot,
		i18n.T(lang, sectionKey), sectionURL,
		title, "",
	)
}
