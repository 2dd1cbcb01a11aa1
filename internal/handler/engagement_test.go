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

func TestEngagementRequiresSignIn(t *testing.T) {
	app := newTestApp(t)
	app.api.Blogs = []model.BlogPost{{ID: "b1", Title: "Hello World", Status: model.BlogStatusPublished}}

	rec := app.postJSON("/blog/b1/like", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"redirect":"/signin"}`, rec.Body.String())

	rec = app.post("/blog/b1/save", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin?next=%2Fblog%2Fb1%2Fsave", rec.Header().Get("Location"))
	assert.Zero(t, app.api.CallCount(http.MethodPost, "/api/blogs/b1"))
}

func TestLikeToggles(t *testing.T) {
	app := newTestApp(t)
	app.api.Blogs = []model.BlogPost{{ID: "b1", Title: "Hello World", Status: model.BlogStatusPublished, Likes: []string{"someone"}}}
	u := app.signInAs(model.RoleUser)

	rec := app.postJSON("/blog/b1/like", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeJSON(t, rec)
	assert.Equal(t, true, out["state"])
	assert.Equal(t, float64(2), out["count"])
	post, _ := app.api.Blog("b1")
	assert.Contains(t, post.Likes, u.ID)

	rec = app.postJSON("/blog/b1/like", url.Values{"current": {"true"}})
	require.Equal(t, http.StatusOK, rec.Code)
	out = decodeJSON(t, rec)
	assert.Equal(t, false, out["state"])
	assert.Equal(t, float64(1), out["count"])
	post, _ = app.api.Blog("b1")
	assert.NotContains(t, post.Likes, u.ID)
}

func TestSaveFormRedirectsBack(t *testing.T) {
	app := newTestApp(t)
	app.api.Blogs = []model.BlogPost{{ID: "b1", Title: "Hello World", Status: model.BlogStatusPublished}}
	u := app.signInAs(model.RoleUser)

	rec := app.post("/blog/b1/save", url.Values{"current": {"false"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blog/b1/hello-world", rec.Header().Get("Location"))
	post, _ := app.api.Blog("b1")
	assert.Equal(t, []string{u.ID}, post.SavedBy)

	rec = app.get("/saved")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello World")

	rec = app.post("/saved/b1/remove", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/saved", rec.Header().Get("Location"))
	post, _ = app.api.Blog("b1")
	assert.Empty(t, post.SavedBy)
}

func TestLikeUnknownPost(t *testing.T) {
	app := newTestApp(t)
	app.signInAs(model.RoleUser)

	rec := app.postJSON("/blog/missing/like", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decodeJSON(t, rec)["success"])
}

func TestCommentValidation(t *testing.T) {
	app := newTestApp(t)
	app.api.Blogs = []model.BlogPost{{ID: "b1", Title: "Hello World", Status: model.BlogStatusPublished}}
	app.signInAs(model.RoleUser)

	rec := app.postJSON("/blog/b1/comments", url.Values{"content": {"   "}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeJSON(t, rec)["errors"], "content")

	rec = app.post("/blog/b1/comments", url.Values{"content": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello World")
	assert.Zero(t, app.api.CallCount(http.MethodPost, "/api/blogs/b1/comment"))
}

func TestCommentAdded(t *testing.T) {
	app := newTestApp(t)
	app.api.Blogs = []model.BlogPost{{ID: "b1", Title: "Hello World", Status: model.BlogStatusPublished}}
	app.signInAs(model.RoleUser)

	rec := app.post("/blog/b1/comments", url.Values{"content": {"Very useful article"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blog/b1#comments", rec.Header().Get("Location"))

	rec = app.postJSON("/blog/b1/comments", url.Values{"content": {"Second comment"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeJSON(t, rec)["count"])

	rec = app.get("/blog/b1/hello-world")
	assert.Contains(t, rec.Body.String(), "Very useful article")
	assert.Contains(t, rec.Body.String(), "Second comment")
}

func TestRateCourse(t *testing.T) {
	app := newTestApp(t)
	app.api.Courses = []model.Course{{ID: "c1", Title: "TOPIK Intensive", Status: model.CourseStatusActive}}
	app.signInAs(model.RoleUser)

	rec := app.post("/courses/c1/comments", url.Values{"rating": {"7"}, "text": {"Too good"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOPIK Intensive")
	assert.Zero(t, app.api.CallCount(http.MethodPost, "/api/courses/c1/comments"))

	rec = app.postJSON("/courses/c1/comments", url.Values{"rating": {"4"}, "text": {"Clear lessons"}})
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeJSON(t, rec)
	assert.Equal(t, float64(4), out["rating"])
	assert.Equal(t, float64(1), out["comments"])
}

func TestEnroll(t *testing.T) {
	app := newTestApp(t)
	app.api.Courses = []model.Course{{ID: "c1", Title: "TOPIK Intensive", Status: model.CourseStatusActive}}
	app.signInAs(model.RoleUser)

	rec := app.post("/courses/c1/enroll", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/courses/c1", rec.Header().Get("Location"))
	assert.Contains(t, app.get("/courses/c1").Body.String(), "Enrolled")
}

func TestProfileUpdate(t *testing.T) {
	app := newTestApp(t)
	app.signInAs(model.RoleUser)

	rec := app.post("/profile", url.Values{"name": {"  "}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, app.api.CallCount(http.MethodPut, "/api/profile/update"))

	rec = app.post("/profile", url.Values{"name": {"Aziza Rahimova"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))
	assert.Contains(t, app.get("/profile").Body.String(), "Aziza Rahimova")
}
