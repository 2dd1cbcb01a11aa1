// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/form"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
	"github.com/olegiv/hanmaru/internal/sanitize"
)

// AdminBlogListData holds data for the admin blog list.
type AdminBlogListData struct {
	Posts    []model.BlogPost
	Status   string
	Statuses []string
}

// BlogFormData holds data for the blog editor.
type BlogFormData struct {
	Post       model.BlogPost
	Format     string
	IsEdit     bool
	Action     string
	Categories []string
	Statuses   []string
}

// ListBlogs handles GET /admin/blogs.
func (h *AdminHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	status := r.URL.Query().Get("status")
	if !slices.Contains(model.BlogStatuses, status) {
		status = "all"
	}

	td := render.TemplateData{
		Title:       i18n.T(lang, "admin.blogs"),
		Breadcrumbs: adminTrail(lang, "admin.blogs", redirectAdminBlogs, ""),
	}
	posts, err := h.api.ListBlogs(r.Context(), auth.FromRequest(r).Credentials, apiclient.BlogFilter{Status: status})
	if err != nil {
		slog.Warn("listing blogs failed", "category", model.EventCategoryAPI, "error", err)
		td.Error = errorText(r, err, "blog.load_failed")
	}
	td.Data = AdminBlogListData{Posts: posts, Status: status, Statuses: model.BlogStatuses}
	h.renderer.RenderPage(w, r, "admin/blogs_list", td)
}

// NewBlogForm handles GET /admin/blogs/new.
func (h *AdminHandler) NewBlogForm(w http.ResponseWriter, r *http.Request) {
	h.renderBlogForm(w, r, http.StatusOK, model.NewBlogPost(), form.FormatHTML, nil, "")
}

// EditBlogForm handles GET /admin/blogs/{id}/edit.
func (h *AdminHandler) EditBlogForm(w http.ResponseWriter, r *http.Request) {
	post, err := h.api.GetBlog(r.Context(), auth.FromRequest(r).Credentials, chi.URLParam(r, "id"))
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminBlogs, errorText(r, err, "blog.not_found"))
		return
	}
	h.renderBlogForm(w, r, http.StatusOK, *post, form.FormatHTML, nil, "")
}

// CreateBlog handles POST /admin/blogs.
func (h *AdminHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	h.saveBlog(w, r, "")
}

// UpdateBlog handles POST /admin/blogs/{id}.
func (h *AdminHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	h.saveBlog(w, r, chi.URLParam(r, "id"))
}

func (h *AdminHandler) saveBlog(w http.ResponseWriter, r *http.Request, id string) {
	lang := middleware.GetLang(r)
	if err := h.parseEditorForm(w, r); err != nil {
		flashError(w, r, h.renderer, redirectAdminBlogs, i18n.T(lang, "error.invalid_form"))
		return
	}

	post, format := form.Blog(r.Form)
	post.ID = id

	op, err := form.ParseOp(r.FormValue("op"))
	if err != nil {
		h.renderBlogForm(w, r, http.StatusUnprocessableEntity, post, format, nil, i18n.T(lang, "error.invalid_form"))
		return
	}
	if !op.IsSave() {
		if updated, known := form.BlogOp(post, op); known {
			post = updated
		}
		h.renderBlogForm(w, r, http.StatusOK, post, format, nil, "")
		return
	}

	errs := model.FieldErrors{}
	cover, err := h.uploadField(r, "coverFile", "coverImage", errs)
	if err != nil {
		slog.Error("cover image upload failed", "category", model.EventCategoryAPI, "error", err)
		h.renderBlogForm(w, r, http.StatusBadGateway, post, format, errs, errorText(r, err, "upload.failed"))
		return
	}
	if cover != "" {
		post.CoverImage = cover
	}

	errs = merge(errs, post.Validate())
	if !errs.Empty() {
		h.renderBlogForm(w, r, http.StatusUnprocessableEntity, post, format, errs, "")
		return
	}

	// The mirror keeps the authored source so a failed save shows it again.
	payload := post.Payload()
	if format == form.FormatMarkdown {
		html, err := sanitize.Markdown(post.Content)
		if err != nil {
			errs.Add("content", "blog.markdown_invalid")
			h.renderBlogForm(w, r, http.StatusUnprocessableEntity, post, format, errs, "")
			return
		}
		payload.Content = html
	}
	if id == "" && payload.Excerpt == "" {
		payload.Excerpt = sanitize.Excerpt(payload.Content)
	}

	creds := auth.FromRequest(r).Credentials
	if id == "" {
		_, err = h.api.CreateBlog(r.Context(), creds, payload)
	} else {
		_, err = h.api.UpdateBlog(r.Context(), creds, id, payload)
	}
	if err != nil {
		slog.Warn("saving blog post failed", "category", model.EventCategoryContent, "blog_id", id, "error", err)
		h.renderBlogForm(w, r, http.StatusBadGateway, post, format, nil, errorText(r, err, "blog.save_failed"))
		return
	}

	h.catalog.InvalidateBlogs(r.Context())
	h.logEvent(r, model.EventLevelInfo, model.EventCategoryContent, "Blog post saved", map[string]any{"blog_id": id, "title": post.Title})
	flashSuccess(w, r, h.renderer, redirectAdminBlogs, i18n.T(lang, "blog.post_saved"))
}

func (h *AdminHandler) renderBlogForm(w http.ResponseWriter, r *http.Request, status int, post model.BlogPost, format string, errs model.FieldErrors, errMsg string) {
	lang := middleware.GetLang(r)
	data := BlogFormData{
		Post:       post,
		Format:     format,
		IsEdit:     post.ID != "",
		Action:     redirectAdminBlogs,
		Categories: model.BlogEditorCategories,
		Statuses:   model.BlogStatuses,
	}
	title := i18n.T(lang, "admin.blog_new")
	if data.IsEdit {
		data.Action = redirectAdminBlogs + "/" + post.ID
		title = i18n.T(lang, "admin.blog_edit")
	}

	h.renderer.RenderPageStatus(w, r, status, "admin/blogs_form", render.TemplateData{
		Title:       title,
		Data:        data,
		Form:        post,
		Errors:      errs,
		Error:       errMsg,
		Breadcrumbs: adminTrail(lang, "admin.blogs", redirectAdminBlogs, title),
	})
}

// SetBlogStatus handles POST /admin/blogs/{id}/status.
func (h *AdminHandler) SetBlogStatus(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id := chi.URLParam(r, "id")
	status := r.FormValue("status")
	back := backTo(r, redirectAdminBlogs)

	if !slices.Contains(model.BlogStatuses, status) {
		flashError(w, r, h.renderer, back, i18n.T(lang, model.MsgStatusInvalid))
		return
	}
	if err := h.api.SetBlogStatus(r.Context(), auth.FromRequest(r).Credentials, id, status); err != nil {
		slog.Warn("changing blog status failed", "category", model.EventCategoryContent, "blog_id", id, "error", err)
		flashError(w, r, h.renderer, back, errorText(r, err, "blog.status_failed"))
		return
	}

	h.catalog.InvalidateBlogs(r.Context())
	h.logEvent(r, model.EventLevelInfo, model.EventCategoryContent, "Blog status changed", map[string]any{"blog_id": id, "status": status})
	flashSuccess(w, r, h.renderer, back, i18n.T(lang, "blog.status_changed"))
}

// SetBlogNotification handles POST /admin/blogs/{id}/notification.
func (h *AdminHandler) SetBlogNotification(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminBlogs) {
		return
	}
	on := form.Bool(r.Form, "isNotification")
	back := backTo(r, redirectAdminBlogs)

	if err := h.api.SetBlogNotification(r.Context(), auth.FromRequest(r).Credentials, id, on); err != nil {
		slog.Warn("changing blog notification flag failed", "category", model.EventCategoryContent, "blog_id", id, "error", err)
		flashError(w, r, h.renderer, back, errorText(r, err, "blog.status_failed"))
		return
	}

	h.catalog.InvalidateBlogs(r.Context())
	key := "blog.notification_off"
	if on {
		key = "blog.notification_on"
	}
	flashSuccess(w, r, h.renderer, back, i18n.T(lang, key))
}

// DeleteBlogConfirm handles GET /admin/blogs/{id}/delete.
func (h *AdminHandler) DeleteBlogConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.api.GetBlog(r.Context(), auth.FromRequest(r).Credentials, id)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminBlogs, errorText(r, err, "blog.not_found"))
		return
	}
	h.renderDeleteConfirm(w, r, "admin.blogs", redirectAdminBlogs, DeleteData{
		Kind:   "blog",
		Name:   post.Title,
		Action: redirectAdminBlogs + "/" + id + RouteSuffixDelete,
		Cancel: redirectAdminBlogs,
	})
}

// DeleteBlog handles POST /admin/blogs/{id}/delete.
func (h *AdminHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id := chi.URLParam(r, "id")

	if !confirmed(r) {
		flashAndRedirect(w, r, h.renderer, redirectAdminBlogs, i18n.T(lang, "admin.delete_cancelled"), render.FlashInfo)
		return
	}
	if err := h.api.DeleteBlog(r.Context(), auth.FromRequest(r).Credentials, id); err != nil {
		slog.Warn("deleting blog post failed", "category", model.EventCategoryContent, "blog_id", id, "error", err)
		flashError(w, r, h.renderer, redirectAdminBlogs, errorText(r, err, "blog.delete_failed"))
		return
	}

	h.catalog.InvalidateBlogs(r.Context())
	h.logEvent(r, model.EventLevelInfo, model.EventCategoryContent, "Blog post deleted", map[string]any{"blog_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminBlogs, i18n.T(lang, "blog.deleted"))
}
