// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/cache"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
	"github.com/olegiv/hanmaru/internal/scheduler"
	"github.com/olegiv/hanmaru/internal/service"
	"github.com/olegiv/hanmaru/internal/uikit"
)

// AdminHandler handles the admin dashboard and the content editors.
// Routes are mounted behind RequireRole(admin).
type AdminHandler struct {
	renderer     *render.Renderer
	api          *apiclient.Client
	catalog      *service.Catalog
	uploads      *service.UploadService
	eventService *service.EventService
	cacheManager *cache.Manager
	jobs         *scheduler.Registry
}

// AdminDeps groups the collaborators of AdminHandler.
type AdminDeps struct {
	Renderer     *render.Renderer
	API          *apiclient.Client
	Catalog      *service.Catalog
	Uploads      *service.UploadService
	EventService *service.EventService
	CacheManager *cache.Manager
	Jobs         *scheduler.Registry
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(deps AdminDeps) *AdminHandler {
	return &AdminHandler{
		renderer:     deps.Renderer,
		api:          deps.API,
		catalog:      deps.Catalog,
		uploads:      deps.Uploads,
		eventService: deps.EventService,
		cacheManager: deps.CacheManager,
		jobs:         deps.Jobs,
	}
}

// DashboardStats holds the counts shown on the dashboard. A negative count
// means the read failed.
type DashboardStats struct {
	Courses          int
	Blogs            int
	SuccessStories   int
	PendingInquiries int
}

// DashboardData holds data for the dashboard.
type DashboardData struct {
	Stats        DashboardStats
	Recent       []model.Inquiry
	Jobs         []scheduler.JobInfo
	Cache        cache.Info
	RecentEvents []eventRow
}

const dashboardRecent = 5

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLang(r)
	creds := auth.FromRequest(r).Credentials

	stats := DashboardStats{Courses: -1, Blogs: -1, SuccessStories: -1, PendingInquiries: -1}
	var recent []model.Inquiry

	if courses, err := h.api.ListCourses(ctx, creds); err == nil {
		stats.Courses = len(courses)
	} else {
		slog.Warn("dashboard: listing courses failed", "category", model.EventCategoryAPI, "error", err)
	}
	if blogs, err := h.api.ListBlogs(ctx, creds, apiclient.BlogFilter{}); err == nil {
		stats.Blogs = len(blogs)
	} else {
		slog.Warn("dashboard: listing blogs failed", "category", model.EventCategoryAPI, "error", err)
	}
	if stories, err := h.api.ListSuccess(ctx); err == nil {
		stats.SuccessStories = len(stories)
	} else {
		slog.Warn("dashboard: listing success stories failed", "category", model.EventCategoryAPI, "error", err)
	}
	if inquiries, err := h.api.ListInquiries(ctx, creds, ""); err == nil {
		stats.PendingInquiries = 0
		for _, in := range inquiries {
			if in.Status == "" || in.Status == model.InquiryPending {
				stats.PendingInquiries++
			}
		}
		recent = firstN(sortInquiries(inquiries), dashboardRecent)
	} else {
		slog.Warn("dashboard: listing inquiries failed", "category", model.EventCategoryAPI, "error", err)
	}

	data := DashboardData{Stats: stats, Recent: recent}
	if h.cacheManager != nil {
		data.Cache = h.cacheManager.Info()
	}
	if h.jobs != nil {
		data.Jobs = h.jobs.List()
	}
	if h.eventService != nil {
		if page, err := h.eventService.List(ctx, "", 1, dashboardRecent); err == nil {
			data.RecentEvents = eventRows(page.Events)
		} else {
			slog.Error("dashboard: listing events failed", "error", err)
		}
	}

	h.renderer.RenderPage(w, r, "admin/dashboard", render.TemplateData{
		Title: i18n.T(lang, "admin.dashboard"),
		Data:  data,
		Breadcrumbs: []uikit.Breadcrumb{
			{Label: i18n.T(lang, "admin.dashboard"), URL: redirectAdmin, Active: true},
		},
	})
}

// RunJob handles POST /admin/jobs/{name}/run.
func (h *AdminHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	name := chi.URLParam(r, "name")

	if h.jobs == nil {
		flashError(w, r, h.renderer, redirectAdmin, i18n.T(lang, "jobs.not_found"))
		return
	}
	if err := h.jobs.TriggerNow(name); err != nil {
		slog.Warn("manual job run failed", "category", model.EventCategorySystem, "job", name, "error", err)
		flashError(w, r, h.renderer, redirectAdmin, i18n.T(lang, "jobs.failed", name))
		return
	}

	h.logEvent(r, model.EventLevelInfo, model.EventCategorySystem, "Job triggered manually", map[string]any{"job": name})
	flashSuccess(w, r, h.renderer, redirectAdmin, i18n.T(lang, "jobs.triggered", name))
}

// adminTrail is the breadcrumb of an admin page below a section.
func adminTrail(lang, sectionKey, sectionURL, title string) []uikit.Breadcrumb {
	if title == "" {
		return uikit.Trail(
			i18n.T(lang, "admin.dashboard"), redirectAdmin,
			i18n.T(lang, sectionKey), "",
		)
	}
	return uikit.Trail(
		i18n.T(lang, "admin.dashboard"), redirectAdmin,
		i18n.T(lang, sectionKey), sectionURL,
		title, "",
	)
}

// logEvent writes an event for an admin action.
func (h *AdminHandler) logEvent(r *http.Request, level, category, message string, metadata map[string]any) {
	if h.eventService == nil {
		return
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["user_id"] = auth.FromRequest(r).UserID()
	_ = h.eventService.LogEvent(r.Context(), level, category, message, chimw.GetReqID(r.Context()), metadata)
}

// confirmed reports whether a delete form carried confirm=yes.
func confirmed(r *http.Request) bool {
	return r.FormValue("confirm") == "yes"
}

// DeleteData holds data for the delete confirmation page.
type DeleteData struct {
	Kind   string
	Name   string
	Action string
	Cancel string
}

func (h *AdminHandler) renderDeleteConfirm(w http.ResponseWriter, r *http.Request, sectionKey, sectionURL string, data DeleteData) {
	lang := middleware.GetLang(r)
	h.renderer.RenderPage(w, r, "admin/delete", render.TemplateData{
		Title:       i18n.T(lang, "admin.delete_title", data.Name),
		Data:        data,
		Breadcrumbs: adminTrail(lang, sectionKey, sectionURL, i18n.T(lang, "btn.delete")),
	})
}

// parseEditorForm parses an editor post, which is multipart when it carries
// an image.
func (h *AdminHandler) parseEditorForm(w http.ResponseWriter, r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		limit := h.uploads.MaxBytes() + multipartOverhead
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		return r.ParseMultipartForm(limit)
	}
	return r.ParseForm()
}

// uploadField stores the image posted in field and returns its URL. It
// returns "" when no file was sent. Rejected files are reported in errs
// under target.
func (h *AdminHandler) uploadField(r *http.Request, field, target string, errs model.FieldErrors) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil
	}
	defer func() { _ = file.Close() }()

	url, err := h.uploads.UploadImage(r.Context(), auth.FromRequest(r).Credentials, file, header)
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		errs.Add(target, model.MsgImageTooLarge)
		return "", nil
	case errors.Is(err, service.ErrNotImage):
		errs.Add(target, model.MsgImageType)
		return "", nil
	case err != nil:
		return "", err
	}
	return url, nil
}

// merge adds the entries of extra that errs does not already hold.
func merge(errs, extra model.FieldErrors) model.FieldErrors {
	for k, v := range extra {
		errs.Add(k, v)
	}
	return errs
}
