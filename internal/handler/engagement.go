// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
	"github.com/olegiv/hanmaru/internal/service"
)

// EngagementHandler handles the signed-in actions on posts and courses.
// Routes are mounted behind RequireAuth.
type EngagementHandler struct {
	pages      *FrontendHandler
	engagement *service.Engagement
}

// NewEngagementHandler creates a new EngagementHandler. pages renders the
// post and course pages again when a form is rejected.
func NewEngagementHandler(pages *FrontendHandler, engagement *service.Engagement) *EngagementHandler {
	return &EngagementHandler{pages: pages, engagement: engagement}
}

// ToggleResponse is the JSON answer of a like or save.
type ToggleResponse struct {
	Success bool   `json:"success"`
	State   bool   `json:"state"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// Like handles POST /blog/{id}/like.
func (h *EngagementHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, service.ToggleLike)
}

// Save handles POST /blog/{id}/save.
func (h *EngagementHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, service.ToggleSave)
}

// toggle flips a like or save. The form's "current" field is the state the
// page showed; the member set is read from the API so the count is right
// even when the page was stale.
func (h *EngagementHandler) toggle(w http.ResponseWriter, r *http.Request, kind string) {
	id := chi.URLParam(r, "id")
	sess := auth.FromRequest(r)

	post, err := h.pages.api.GetBlog(r.Context(), sess.Credentials, id)
	if err != nil {
		h.toggleFailed(w, r, ToggleResponse{}, RouteBlog, err)
		return
	}

	set := post.Likes
	if kind == service.ToggleSave {
		set = post.SavedBy
	}
	current := post.LikedBy(sess.UserID())
	if kind == service.ToggleSave {
		current = post.SavedByUser(sess.UserID())
	}
	if v := r.FormValue("current"); v != "" {
		current, _ = strconv.ParseBool(v)
	}

	res, err := h.engagement.Toggle(r.Context(), sess.Credentials, kind, id, sess.UserID(), current, set)
	if err != nil {
		h.toggleFailed(w, r, ToggleResponse{State: res.State, Count: res.Count}, PostURL(*post), err)
		return
	}

	if middleware.WantsJSON(r) {
		writeJSON(w, http.StatusOK, ToggleResponse{Success: true, State: res.State, Count: res.Count})
		return
	}
	http.Redirect(w, r, backTo(r, PostURL(*post)), http.StatusSeeOther)
}

func (h *EngagementHandler) toggleFailed(w http.ResponseWriter, r *http.Request, unchanged ToggleResponse, back string, err error) {
	msg := errorText(r, err, "engagement.failed")
	status := http.StatusBadGateway
	if errors.Is(err, service.ErrInFlight) {
		msg = i18n.T(middleware.GetLang(r), "engagement.in_flight")
		status = http.StatusConflict
	} else if s := apiStatus(err); s != http.StatusOK {
		status = s
	}

	if middleware.WantsJSON(r) {
		unchanged.Error = msg
		writeJSON(w, status, unchanged)
		return
	}
	flashError(w, r, h.pages.renderer, backTo(r, back), msg)
}

// Comment handles POST /blog/{id}/comments.
func (h *EngagementHandler) Comment(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id := chi.URLParam(r, "id")
	sess := auth.FromRequest(r)
	in := model.CommentInput{Content: r.FormValue("content")}

	comments, err := h.pages.api.BlogComments(r.Context(), sess.Credentials, id)
	if err != nil {
		comments = nil
	}

	updated, err := h.engagement.Comment(r.Context(), sess.Credentials, sess.UserID(), id, in, comments)
	if err != nil {
		if errs, ok := fieldErrors(err); ok {
			if middleware.WantsJSON(r) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"success": false, "errors": translateErrors(lang, errs)})
				return
			}
			post, perr := h.pages.api.GetBlog(r.Context(), sess.Credentials, id)
			if perr != nil {
				flashError(w, r, h.pages.renderer, RouteBlog, i18n.T(lang, errs.Get("content")))
				return
			}
			data := h.pages.postData(r, post)
			data.Comment = in
			data.CommentErrors = errs
			h.pages.renderPost(w, r, http.StatusUnprocessableEntity, data)
			return
		}
		h.actionFailed(w, r, RouteBlog+"/"+id, err)
		return
	}

	if middleware.WantsJSON(r) {
		writeJSONSuccess(w, map[string]any{"comment": updated[len(updated)-1], "count": len(updated)})
		return
	}
	flashSuccess(w, r, h.pages.renderer, RouteBlog+"/"+id+"#comments", i18n.T(lang, "comment.added"))
}

// RateCourse handles POST /courses/{id}/comments.
func (h *EngagementHandler) RateCourse(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id := chi.URLParam(r, "id")
	sess := auth.FromRequest(r)
	courseURL := RouteCourses + "/" + id

	rating, _ := strconv.Atoi(r.FormValue("rating"))
	in := model.CourseRating{Rating: rating, Text: r.FormValue("text")}

	course, err := h.engagement.Rate(r.Context(), sess.Credentials, sess.UserID(), id, in)
	if err != nil {
		if errs, ok := fieldErrors(err); ok {
			current, cerr := h.pages.api.GetCourse(r.Context(), sess.Credentials, id)
			if cerr != nil {
				flashError(w, r, h.pages.renderer, RouteCourses, i18n.T(lang, "course.not_found"))
				return
			}
			h.pages.renderCourse(w, r, http.StatusUnprocessableEntity, CourseData{Course: current, Rating: in, RatingErrors: errs})
			return
		}
		h.actionFailed(w, r, courseURL, err)
		return
	}

	if middleware.WantsJSON(r) {
		writeJSONSuccess(w, map[string]any{"rating": course.Rating, "comments": len(course.Comments)})
		return
	}
	flashSuccess(w, r, h.pages.renderer, courseURL+"#reviews", i18n.T(lang, "course.rated"))
}

// Enroll handles POST /courses/{id}/enroll.
func (h *EngagementHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess := auth.FromRequest(r)
	courseURL := RouteCourses + "/" + id

	msg, err := h.engagement.Enroll(r.Context(), sess.Credentials, sess.UserID(), id)
	if err != nil {
		h.actionFailed(w, r, courseURL, err)
		return
	}
	if msg == "" {
		msg = i18n.T(middleware.GetLang(r), "course.enrolled")
	}
	if middleware.WantsJSON(r) {
		writeJSONSuccess(w, map[string]any{"message": msg})
		return
	}
	flashSuccess(w, r, h.pages.renderer, courseURL, msg)
}

// actionFailed reports a failed comment, rating or enrollment.
func (h *EngagementHandler) actionFailed(w http.ResponseWriter, r *http.Request, back string, err error) {
	msg := errorText(r, err, "engagement.failed")
	status := http.StatusBadGateway
	if errors.Is(err, service.ErrInFlight) {
		msg = i18n.T(middleware.GetLang(r), "engagement.in_flight")
		status = http.StatusConflict
	}
	if middleware.WantsJSON(r) {
		writeJSONError(w, status, msg)
		return
	}
	flashAndRedirect(w, r, h.pages.renderer, back, msg, render.FlashError)
}
