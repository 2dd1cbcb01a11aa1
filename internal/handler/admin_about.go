// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/form"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
)

// EditAbout handles GET /admin/about.
func (h *AdminHandler) EditAbout(w http.ResponseWriter, r *http.Request) {
	about, err := h.api.GetAbout(r.Context())
	if err != nil {
		slog.Warn("loading about content failed", "category", model.EventCategoryAPI, "error", err)
		h.renderAboutForm(w, r, http.StatusOK, model.AboutContent{}.Normalize(), nil, errorText(r, err, "about.load_failed"))
		return
	}
	h.renderAboutForm(w, r, http.StatusOK, about.Normalize(), nil, "")
}

// SaveAbout handles POST /admin/about. Row buttons edit the mirror without
// saving, except that removing a stored team member deletes it right away.
func (h *AdminHandler) SaveAbout(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	if err := h.parseEditorForm(w, r); err != nil {
		flashError(w, r, h.renderer, redirectAdminAbout, i18n.T(lang, "error.invalid_form"))
		return
	}

	about := form.About(r.Form)
	creds := auth.FromRequest(r).Credentials

	op, err := form.ParseOp(r.FormValue("op"))
	if err != nil {
		h.renderAboutForm(w, r, http.StatusUnprocessableEntity, about, nil, i18n.T(lang, "error.invalid_form"))
		return
	}
	if !op.IsSave() {
		if op.Kind == form.OpRemove && op.Field == "team" && op.Index < len(about.Team) {
			if memberID := about.Team[op.Index].ID; memberID != "" {
				if err := h.api.DeleteTeamMember(r.Context(), creds, memberID); err != nil {
					slog.Warn("removing team member failed", "category", model.EventCategoryContent, "member_id", memberID, "error", err)
					h.renderAboutForm(w, r, http.StatusBadGateway, about, nil, errorText(r, err, "about.team_remove_failed"))
					return
				}
				h.catalog.InvalidateAbout(r.Context())
				h.logEvent(r, model.EventLevelInfo, model.EventCategoryContent, "Team member removed", map[string]any{"member_id": memberID})
			}
		}
		if updated, known := form.AboutOp(about, op); known {
			about = updated
		}
		h.renderAboutForm(w, r, http.StatusOK, about.Normalize(), nil, "")
		return
	}

	errs := model.FieldErrors{}
	image, err := h.uploadField(r, "mainImageFile", "mainImage", errs)
	if err != nil {
		slog.Error("about image upload failed", "category", model.EventCategoryAPI, "error", err)
		h.renderAboutForm(w, r, http.StatusBadGateway, about, errs, errorText(r, err, "upload.failed"))
		return
	}
	if image != "" {
		about.MainImage = image
	}
	if !errs.Empty() {
		h.renderAboutForm(w, r, http.StatusUnprocessableEntity, about, errs, "")
		return
	}

	if _, err := h.api.UpdateAbout(r.Context(), creds, about); err != nil {
		slog.Warn("saving about content failed", "category", model.EventCategoryContent, "error", err)
		h.renderAboutForm(w, r, http.StatusBadGateway, about, nil, errorText(r, err, "about.save_failed"))
		return
	}

	h.catalog.InvalidateAbout(r.Context())
	h.logEvent(r, model.EventLevelInfo, model.EventCategoryContent, "About content saved", nil)
	flashSuccess(w, r, h.renderer, redirectAdminAbout, i18n.T(lang, "about.saved"))
}

func (h *AdminHandler) renderAboutForm(w http.ResponseWriter, r *http.Request, status int, about model.AboutContent, errs model.FieldErrors, errMsg string) {
	lang := middleware.GetLang(r)
	h.renderer.RenderPageStatus(w, r, status, "admin/about_form", render.TemplateData{
		Title:       i18n.T(lang, "admin.about"),
		Data:        about,
		Form:        about,
		Errors:      errs,
		Error:       errMsg,
		Breadcrumbs: adminTrail(lang, "admin.about", redirectAdminAbout, ""),
	})
}
