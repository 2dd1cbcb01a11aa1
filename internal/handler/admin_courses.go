// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/form"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
)

// CourseLevels are the suggested values of the level field.
var CourseLevels = []string{"beginner", "intermediate", "advanced"}

// CourseListData holds data for the admin course list.
type CourseListData struct {
	Courses  []model.Course
	Statuses []string
}

// CourseFormData holds data for the course editor.
type CourseFormData struct {
	Course     model.Course
	IsEdit     bool
	Action     string
	Categories []string
	Levels     []string
	Statuses   []string
}

// ListCourses handles GET /admin/courses.
func (h *AdminHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	td := render.TemplateData{
		Title:       i18n.T(lang, "admin.courses"),
		Breadcrumbs: adminTrail(lang, "admin.courses", redirectAdminCourses, ""),
	}

	courses, err := h.api.ListCourses(r.Context(), auth.FromRequest(r).Credentials)
	if err != nil {
		slog.Warn("listing courses failed", "category", model.EventCategoryAPI, "error", err)
		td.Error = errorText(r, err, "course.load_failed")
	}
	td.Data = CourseListData{Courses: courses, Statuses: model.CourseStatuses}
	h.renderer.RenderPage(w, r, "admin/courses_list", td)
}

// NewCourseForm handles GET /admin/courses/new.
func (h *AdminHandler) NewCourseForm(w http.ResponseWriter, r *http.Request) {
	h.renderCourseForm(w, r, http.StatusOK, model.NewCourse(), nil, "")
}

// EditCourseForm handles GET /admin/courses/{id}/edit.
func (h *AdminHandler) EditCourseForm(w http.ResponseWriter, r *http.Request) {
	course, err := h.api.GetCourse(r.Context(), auth.FromRequest(r).Credentials, chi.URLParam(r, "id"))
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminCourses, errorText(r, err, "course.not_found"))
		return
	}
	h.renderCourseForm(w, r, http.StatusOK, *course, nil, "")
}

// CreateCourse handles POST /admin/courses.
func (h *AdminHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	h.saveCourse(w, r, "")
}

// UpdateCourse handles POST /admin/courses/{id}.
func (h *AdminHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	h.saveCourse(w, r, chi.URLParam(r, "id"))
}

func (h *AdminHandler) saveCourse(w http.ResponseWriter, r *http.Request, id string) {
	lang := middleware.GetLang(r)
	if err := h.parseEditorForm(w, r); err != nil {
		flashError(w, r, h.renderer, redirectAdminCourses, i18n.T(lang, "error.invalid_form"))
		return
	}

	course, errs := form.Course(r.Form)
	course.ID = id

	op, err := form.ParseOp(r.FormValue("op"))
	if err != nil {
		h.renderCourseForm(w, r, http.StatusUnprocessableEntity, course, nil, i18n.T(lang, "error.invalid_form"))
		return
	}
	if !op.IsSave() {
		if updated, known := form.CourseOp(course, op); known {
			course = updated
		}
		h.renderCourseForm(w, r, http.StatusOK, course, nil, "")
		return
	}

	image, err := h.uploadField(r, "imageFile", "image", errs)
	if err != nil {
		slog.Error("course image upload failed", "category", model.EventCategoryAPI, "error", err)
		h.renderCourseForm(w, r, http.StatusBadGateway, course, errs, errorText(r, err, "upload.failed"))
		return
	}
	if image != "" {
		course.Image = image
	}

	errs = merge(errs, course.Validate())
	if !errs.Empty() {
		h.renderCourseForm(w, r, http.StatusUnprocessableEntity, course, errs, "")
		return
	}

	creds := auth.FromRequest(r).Credentials
	if id == "" {
		_, err = h.api.CreateCourse(r.Context(), creds, course.Payload())
	} else {
		_, err = h.api.UpdateCourse(r.Context(), creds, id, course.Payload())
	}
	if err != nil {
		slog.Warn("saving course failed", "category", model.EventCategoryContent, "course_id", id, "error", err)
		h.renderCourseForm(w, r, http.StatusBadGateway, course, nil, errorText(r, err, "course.save_failed"))
		return
	}

	h.catalog.InvalidateCourses(r.Context())
	h.logEvent(r, model.EventLevelInfo, model.EventCategoryContent, "Course saved", map[string]any{"course_id": id, "title": course.Title})
	flashSuccess(w, r, h.renderer, redirectAdminCourses, i18n.T(lang, "course.saved"))
}

func (h *AdminHandler) renderCourseForm(w http.ResponseWriter, r *http.Request, status int, course model.Course, errs model.FieldErrors, errMsg string) {
	lang := middleware.GetLang(r)
	data := CourseFormData{
		Course:     course,
		IsEdit:     course.ID != "",
		Action:     redirectAdminCourses,
		Categories: model.CourseCategories[1:],
		Levels:     CourseLevels,
		Statuses:   model.CourseStatuses,
	}
	title := i18n.T(lang, "admin.course_new")
	if data.IsEdit {
		data.Action = redirectAdminCourses + "/" + course.ID
		title = i18n.T(lang, "admin.course_edit")
	}

	h.renderer.RenderPageStatus(w, r, status, "admin/courses_form", render.TemplateData{
		Title:       title,
		Data:        data,
		Form:        course,
		Errors:      errs,
		Error:       errMsg,
		Breadcrumbs: adminTrail(lang, "admin.courses", redirectAdminCourses, title),
	})
}

// SetCourseStatus handles POST /admin/courses/{id}/status.
func (h *AdminHandler) SetCourseStatus(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id := chi.URLParam(r, "id")
	status := r.FormValue("status")

	if !slices.Contains(model.CourseStatuses, status) {
		flashError(w, r, h.renderer, redirectAdminCourses, i18n.T(lang, model.MsgStatusInvalid))
		return
	}
	if err := h.api.SetCourseStatus(r.Context(), auth.FromRequest(r).Credentials, id, status); err != nil {
		slog.Warn("changing course status failed", "category", model.EventCategoryContent, "course_id", id, "error", err)
		flashError(w, r, h.renderer, redirectAdminCourses, errorText(r, err, "course.status_failed"))
		return
	}

	h.catalog.InvalidateCourses(r.Context())
	h.logEvent(r, model.EventLevelInfo, model.EventCategoryContent, "Course status changed", map[string]any{"course_id": id, "status": status})
	flashSuccess(w, r, h.renderer, redirectAdminCourses, i18n.T(lang, "course.status_changed"))
}

// DeleteCourseConfirm handles GET /admin/courses/{id}/delete.
func (h *AdminHandler) DeleteCourseConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	course, err := h.api.GetCourse(r.Context(), auth.FromRequest(r).Credentials, id)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminCourses, errorText(r, err, "course.not_found"))
		return
	}
	h.renderDeleteConfirm(w, r, "admin.courses", redirectAdminCourses, DeleteData{
		Kind:   "course",
		Name:   course.Title,
		Action: redirectAdminCourses + "/" + id + RouteSuffixDelete,
		Cancel: redirectAdminCourses,
	})
}

// DeleteCourse handles POST /admin/courses/{id}/delete. Nothing is deleted
// unless the form carries confirm=yes.
func (h *AdminHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id := chi.URLParam(r, "id")

	if !confirmed(r) {
		flashAndRedirect(w, r, h.renderer, redirectAdminCourses, i18n.T(lang, "admin.delete_cancelled"), render.FlashInfo)
		return
	}
	if err := h.api.DeleteCourse(r.Context(), auth.FromRequest(r).Credentials, id); err != nil {
		slog.Warn("deleting course failed", "category", model.EventCategoryContent, "course_id", id, "error", err)
		flashError(w, r, h.renderer, redirectAdminCourses, errorText(r, err, "course.delete_failed"))
		return
	}

	h.catalog.InvalidateCourses(r.Context())
	h.logEvent(r, model.EventLevelInfo, model.EventCategoryContent, "Course deleted", map[string]any{"course_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminCourses, i18n.T(lang, "course.deleted"))
}
