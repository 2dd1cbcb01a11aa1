// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/form"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
)

// SuccessFormData holds data for the success story editor.
type SuccessFormData struct {
	Story  model.SuccessStory
	IsEdit bool
	Action string
}

// ListSuccess handles GET /admin/success.
func (h *AdminHandler) ListSuccess(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	td := render.TemplateData{
		Title:       i18n.T(lang, "admin.success"),
		Breadcrumbs: adminTrail(lang, "admin.success", redirectAdminSuccess, ""),
	}

	stories, err := h.api.ListSuccess(r.Context())
	if err != nil {
		slog.Warn("listing success stories failed", "category", model.EventCategoryAPI, "error", err)
		td.Error = errorText(r, err, "success.load_failed")
	}
	td.Data = stories
	h.renderer.RenderPage(w, r, "admin/success_list", td)
}

// NewSuccessForm handles GET /admin/success/new.
func (h *AdminHandler) NewSuccessForm(w http.ResponseWriter, r *http.Request) {
	h.renderSuccessForm(w, r, http.StatusOK, model.SuccessStory{}, nil, "")
}

// EditSuccessForm handles GET /admin/success/{id}/edit.
func (h *AdminHandler) EditSuccessForm(w http.ResponseWriter, r *http.Request) {
	story, err := h.api.GetSuccess(r.Context(), auth.FromRequest(r).Credentials, chi.URLParam(r, "id"))
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminSuccess, errorText(r, err, "success.not_found"))
		return
	}
	h.renderSuccessForm(w, r, http.StatusOK, *story, nil, "")
}

// CreateSuccess handles POST /admin/success.
func (h *AdminHandler) CreateSuccess(w http.ResponseWriter, r *http.Request) {
	h.saveSuccess(w, r, "")
}

// UpdateSuccess handles POST /admin/success/{id}.
func (h *AdminHandler) UpdateSuccess(w http.ResponseWriter, r *http.Request) {
	h.saveSuccess(w, r, chi.URLParam(r, "id"))
}

func (h *AdminHandler) saveSuccess(w http.ResponseWriter, r *http.Request, id string) {
	lang := middleware.GetLang(r)
	if err := h.parseEditorForm(w, r); err != nil {
		flashError(w, r, h.renderer, redirectAdminSuccess, i18n.T(lang, "error.invalid_form"))
		return
	}

	story := form.Success(r.Form)
	story.ID = id

	errs := model.FieldErrors{}
	image, err := h.uploadField(r, "imageFile", "image", errs)
	if err != nil {
		slog.Error("success story image upload failed", "category", model.EventCategoryAPI, "error", err)
		h.renderSuccessForm(w, r, http.StatusBadGateway, story, errs, errorText(r, err, "upload.failed"))
		return
	}
	if image != "" {
		story.Image = image
	}

	errs = merge(errs, story.Validate())
	if !errs.Empty() {
		h.renderSuccessForm(w, r, http.StatusUnprocessableEntity, story, errs, "")
		return
	}

	creds := auth.FromRequest(r).Credentials
	if id == "" {
		_, err = h.api.CreateSuccess(r.Context(), creds, story)
	} else {
		_, err = h.api.UpdateSuccess(r.Context(), creds, id, story)
	}
	if err != nil {
		slog.Warn("saving success story failed", "category", model.EventCategoryContent, "story_id", id, "error", err)
		h.renderSuccessForm(w, r, http.StatusBadGateway, story, nil, errorText(r, err, "success.save_failed"))
		return
	}

	h.catalog.InvalidateSuccess(r.Context())
	h.logEvent(r, model.EventLevelInfo, model.EventCategoryContent, "Success story saved", map[string]any{"story_id": id, "name": story.Name})
	flashSuccess(w, r, h.renderer, redirectAdminSuccess, i18n.T(lang, "success.saved"))
}

func (h *AdminHandler) renderSuccessForm(w http.ResponseWriter, r *http.Request, status int, story model.SuccessStory, errs model.FieldErrors, errMsg string) {
	lang := middleware.GetLang(r)
	data := SuccessFormData{Story: story, IsEdit: story.ID != "", Action: redirectAdminSuccess}
	title := i18n.T(lang, "admin.success_new")
	if data.IsEdit {
		data.Action = redirectAdminSuccess + "/" + story.ID
		title = i18n.T(lang, "admin.success_edit")
	}

	h.renderer.RenderPageStatus(w, r, status, "admin/success_form", render.TemplateData{
		Title:       title,
		Data:        data,
		Form:        story,
		Errors:      errs,
		Error:       errMsg,
		Breadcrumbs: adminTrail(lang, "admin.success", redirectAdminSuccess, title),
	})
}

// DeleteSuccessConfirm handles GET /admin/success/{id}/delete.
func (h *AdminHandler) DeleteSuccessConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	story, err := h.api.GetSuccess(r.Context(), auth.FromRequest(r).Credentials, id)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminSuccess, errorText(r, err, "success.not_found"))
		return
	}
	h.renderDeleteConfirm(w, r, "admin.success", redirectAdminSuccess, DeleteData{
		Kind:   "success",
		Name:   story.Name,
		Action: redirectAdminSuccess + "/" + id + RouteSuffixDelete,
		Cancel: redirectAdminSuccess,
	})
}

// DeleteSuccess handles POST /admin/success/{id}/delete.
func (h *AdminHandler) DeleteSuccess(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id := chi.URLParam(r, "id")

	if !confirmed(r) {
		flashAndRedirect(w, r, h.renderer, redirectAdminSuccess, i18n.T(lang, "admin.delete_cancelled"), render.FlashInfo)
		return
	}
	if err := h.api.DeleteSuccess(r.Context(), auth.FromRequest(r).Credentials, id); err != nil {
		slog.Warn("deleting success story failed", "category", model.EventCategoryContent, "story_id", id, "error", err)
		flashError(w, r, h.renderer, redirectAdminSuccess, errorText(r, err, "success.delete_failed"))
		return
	}

	h.catalog.InvalidateSuccess(r.Context())
	h.logEvent(r, model.EventLevelInfo, model.EventCategoryContent, "Success story deleted", map[string]any{"story_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminSuccess, i18n.T(lang, "success.deleted"))
}
