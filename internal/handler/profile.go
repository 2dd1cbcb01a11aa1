// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
	"github.com/olegiv/hanmaru/internal/service"
)

// multipartOverhead is the room left for form fields next to the file.
const multipartOverhead = 1 << 20

// ProfileHandler handles the signed-in user's own pages.
type ProfileHandler struct {
	renderer   *render.Renderer
	api        *apiclient.Client
	store      *auth.Store
	uploads    *service.UploadService
	engagement *service.Engagement
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(renderer *render.Renderer, api *apiclient.Client, store *auth.Store, uploads *service.UploadService, engagement *service.Engagement) *ProfileHandler {
	return &ProfileHandler{
		renderer:   renderer,
		api:        api,
		store:      store,
		uploads:    uploads,
		engagement: engagement,
	}
}

// ProfileData holds data for the profile page.
type ProfileData struct {
	Saved          []model.BlogPost
	SavedError     string
	Inquiries      []model.Inquiry
	InquiriesError string
	MaxUploadBytes int64
}

// ProfileForm is the profile form mirror.
type ProfileForm struct {
	Name string
}

// Profile handles GET /profile.
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromRequest(r)
	h.renderProfile(w, r, http.StatusOK, ProfileForm{Name: sess.User.Name}, nil, "")
}

func (h *ProfileHandler) renderProfile(w http.ResponseWriter, r *http.Request, status int, form ProfileForm, errs model.FieldErrors, errMsg string) {
	ctx := r.Context()
	sess := auth.FromRequest(r)
	data := ProfileData{MaxUploadBytes: h.uploads.MaxBytes()}

	saved, err := h.api.SavedBlogs(ctx, sess.Credentials)
	if err != nil {
		slog.Warn("loading saved posts failed", "category", model.EventCategoryAPI, "user_id", sess.UserID(), "error", err)
		data.SavedError = errorText(r, err, "saved.load_failed")
	}
	data.Saved = saved

	inquiries, err := h.api.MyInquiries(ctx, sess.Credentials)
	if err != nil {
		slog.Warn("loading own inquiries failed", "category", model.EventCategoryAPI, "user_id", sess.UserID(), "error", err)
		data.InquiriesError = errorText(r, err, "inquiry.load_failed")
	}
	data.Inquiries = inquiries

	h.renderer.RenderPageStatus(w, r, status, "pages/profile", render.TemplateData{
		Title:  i18n.T(middleware.GetLang(r), "nav.profile"),
		Data:   data,
		Form:   form,
		Errors: errs,
		Error:  errMsg,
	})
}

// UpdateProfile handles POST /profile.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	sess := auth.FromRequest(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(h.uploads.MaxBytes() + multipartOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		errs := model.FieldErrors{}
		errs.Add("profilePicture", model.MsgImageTooLarge)
		h.renderProfile(w, r, http.StatusRequestEntityTooLarge, ProfileForm{Name: sess.User.Name}, errs, "")
		return
	}

	form := ProfileForm{Name: strings.TrimSpace(r.FormValue("name"))}
	in := model.ProfileUpdate{Name: form.Name}

	file, header, err := r.FormFile("profilePicture")
	if err == nil {
		defer func() { _ = file.Close() }()
		in.HasNewImage = true
		in.ImageSize = header.Size
		in.ImageType = header.Header.Get("Content-Type")
	}

	if errs := in.Validate(); !errs.Empty() {
		h.renderProfile(w, r, http.StatusUnprocessableEntity, form, errs, "")
		return
	}

	var picture *apiclient.Upload
	if in.HasNewImage {
		upload, err := h.uploads.Prepare(file, header)
		if err != nil {
			errs := model.FieldErrors{}
			switch {
			case errors.Is(err, service.ErrFileTooLarge):
				errs.Add("profilePicture", model.MsgImageTooLarge)
			case errors.Is(err, service.ErrNotImage):
				errs.Add("profilePicture", model.MsgImageType)
			default:
				slog.Error("preparing profile picture failed", "user_id", sess.UserID(), "error", err)
				h.renderProfile(w, r, http.StatusInternalServerError, form, nil, i18n.T(lang, "error.generic"))
				return
			}
			h.renderProfile(w, r, http.StatusUnprocessableEntity, form, errs, "")
			return
		}
		picture = &upload
	}

	user, err := h.api.UpdateProfile(r.Context(), sess.Credentials, in.Name, picture)
	if err != nil {
		slog.Warn("profile update failed", "category", model.EventCategoryAPI, "user_id", sess.UserID(), "error", err)
		h.renderProfile(w, r, http.StatusBadGateway, form, nil, errorText(r, err, "profile.update_failed"))
		return
	}

	if user.Role == "" {
		user.Role = sess.User.Role
	}
	if err := h.store.UpdateUser(r.Context(), *user); err != nil {
		logAndInternalError(w, "storing updated user failed", "error", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectProfile, i18n.T(lang, "profile.updated"))
}

// Saved handles GET /saved.
func (h *ProfileHandler) Saved(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromRequest(r)
	td := render.TemplateData{Title: i18n.T(middleware.GetLang(r), "nav.saved")}

	posts, err := h.api.SavedBlogs(r.Context(), sess.Credentials)
	if err != nil {
		slog.Warn("loading saved posts failed", "category", model.EventCategoryAPI, "user_id", sess.UserID(), "error", err)
		td.Error = errorText(r, err, "saved.load_failed")
	}
	td.Data = posts
	h.renderer.RenderPage(w, r, "pages/saved", td)
}

// RemoveSaved handles POST /saved/{id}/remove.
func (h *ProfileHandler) RemoveSaved(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	sess := auth.FromRequest(r)
	id := chi.URLParam(r, "id")

	if _, err := h.engagement.Toggle(r.Context(), sess.Credentials, service.ToggleSave, id, sess.UserID(), true, []string{sess.UserID()}); err != nil {
		msg := errorText(r, err, "engagement.failed")
		if errors.Is(err, service.ErrInFlight) {
			msg = i18n.T(lang, "engagement.in_flight")
		}
		flashError(w, r, h.renderer, backTo(r, redirectSaved), msg)
		return
	}
	flashSuccess(w, r, h.renderer, backTo(r, redirectSaved), i18n.T(lang, "saved.removed"))
}
