// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/cache"
	"github.com/olegiv/hanmaru/internal/handler"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/imaging"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
	"github.com/olegiv/hanmaru/internal/scheduler"
	"github.com/olegiv/hanmaru/internal/service"
	"github.com/olegiv/hanmaru/internal/session"
	"github.com/olegiv/hanmaru/internal/testutil"
	"github.com/olegiv/hanmaru/web"
)

const testSecret = "Test-secret-key-32-bytes-long!!!"

// testApp is the site wired against a fake API, driven like a browser that
// keeps its cookies between requests.
type testApp struct {
	t       *testing.T
	api     *testutil.FakeAPI
	router  http.Handler
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	require.NoError(t, i18n.Init(nil))

	api := testutil.NewFakeAPI(t)
	db := testutil.TestDB(t)
	logger := testutil.TestLogger()
	sm := session.New(db, true)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		Logger:         logger,
		IsDev:          true,
	})
	require.NoError(t, err)

	client := apiclient.New(api.URL(), 2*time.Second)
	sealer, err := auth.NewSealer(testSecret)
	require.NoError(t, err)
	store := auth.NewStore(sm, client, sealer, logger)

	mem := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = mem.Close() })
	cm := cache.NewManager(mem, cache.CacheBackendMemory, time.Minute)

	catalog := service.NewCatalog(client, cm)
	events := service.NewEventService(db)
	engagement := service.NewEngagement(client, service.NewInFlight(), logger)
	uploads := service.NewUploadService(client, imaging.NewProcessor(512, 80), 1<<20)

	sched := scheduler.New(logger)
	require.NoError(t, sched.RegisterDefaults(scheduler.Config{
		RefreshSchedule: "@every 1h",
		EventRetention:  24 * time.Hour,
	}, catalog, events))

	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	frontend := handler.NewFrontendHandler(renderer, sm, client, catalog)
	authH := handler.NewAuthHandler(renderer, store, lp, events, 0)
	eng := handler.NewEngagementHandler(frontend, engagement)
	profile := handler.NewProfileHandler(renderer, client, store, uploads, engagement)
	admin := handler.NewAdminHandler(handler.AdminDeps{
		Renderer:     renderer,
		API:          client,
		Catalog:      catalog,
		Uploads:      uploads,
		EventService: events,
		CacheManager: cm,
		Jobs:         sched.Registry(),
	})
	cacheH := handler.NewCacheHandler(renderer, cm, events)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.Language(false))
	r.Use(store.Hydrate)

	r.Get("/", frontend.Home)
	r.Get("/courses", frontend.Courses)
	r.Get("/courses/{id}", frontend.Course)
	r.Get("/blog", frontend.Blog)
	r.Get("/blog/{id}", frontend.Post)
	r.Get("/blog/{id}/{slug}", frontend.Post)
	r.Get("/about", frontend.About)
	r.Get("/xizmatlar", frontend.Services)
	r.Get("/success", frontend.Success)
	r.Post("/notices/{id}/dismiss", frontend.DismissNotice)
	r.Post("/inquiries", frontend.CreateInquiry)
	r.Post("/subscribe", frontend.Subscribe)

	r.Get("/signin", authH.SignInPage)
	r.Post("/signin", authH.SignIn)
	r.Get("/signup", authH.SignUpPage)
	r.Post("/signup", authH.SignUp)
	r.Post("/logout", authH.Logout)
	r.Get("/verify-email", authH.VerifyEmail)
	r.Get("/verify-email/{token}", authH.VerifyEmail)
	r.Post("/verify-email/resend", authH.ResendVerification)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())
		r.Post("/blog/{id}/like", eng.Like)
		r.Post("/blog/{id}/save", eng.Save)
		r.Post("/blog/{id}/comments", eng.Comment)
		r.Post("/courses/{id}/comments", eng.RateCourse)
		r.Post("/courses/{id}/enroll", eng.Enroll)
		r.Get("/profile", profile.Profile)
		r.Post("/profile", profile.UpdateProfile)
		r.Get("/saved", profile.Saved)
		r.Post("/saved/{id}/remove", profile.RemoveSaved)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(model.RoleAdmin))
		r.Get("/", admin.Dashboard)
		r.Post("/jobs/{name}/run", admin.RunJob)
		r.Get("/courses", admin.ListCourses)
		r.Get("/courses/new", admin.NewCourseForm)
		r.Post("/courses", admin.CreateCourse)
		r.Get("/courses/{id}/edit", admin.EditCourseForm)
		r.Post("/courses/{id}", admin.UpdateCourse)
		r.Post("/courses/{id}/status", admin.SetCourseStatus)
		r.Get("/courses/{id}/delete", admin.DeleteCourseConfirm)
		r.Post("/courses/{id}/delete", admin.DeleteCourse)
		r.Get("/blogs", admin.ListBlogs)
		r.Get("/blogs/new", admin.NewBlogForm)
		r.Post("/blogs", admin.CreateBlog)
		r.Post("/blogs/{id}/notification", admin.SetBlogNotification)
		r.Get("/about", admin.EditAbout)
		r.Post("/about", admin.SaveAbout)
		r.Get("/inquiries", admin.ListInquiries)
		r.Get("/inquiries.json", admin.InquiriesJSON)
		r.Post("/inquiries/{id}/status", admin.SetInquiryStatus)
		r.Post("/cache/clear", cacheH.Clear)
	})
	r.NotFound(frontend.NotFound)

	return &testApp{t: t, api: api, router: r, cookies: map[string]*http.Cookie{}}
}

// do sends req with the stored cookies and keeps the ones the answer sets.
func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	a.t.Helper()
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(a.cookies, c.Name)
			continue
		}
		a.cookies[c.Name] = c
	}
	return rec
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	a.t.Helper()
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) getJSON(path string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "application/json")
	return a.do(req)
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

// postJSON posts a form the way the page scripts do and asks for JSON back.
func (a *testApp) postJSON(path string, form url.Values) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return a.do(req)
}

// signIn signs in through the sign-in form.
func (a *testApp) signIn(email, password string) {
	a.t.Helper()
	rec := a.post("/signin", url.Values{"email": {email}, "password": {password}})
	require.Equal(a.t, http.StatusSeeOther, rec.Code, rec.Body.String())
}

// signInAs creates an account with role and signs in with it.
func (a *testApp) signInAs(role string) model.User {
	a.t.Helper()
	email := role + "@example.com"
	u := a.api.AddUser("Test "+role, email, "secret1", role)
	a.signIn(email, "secret1")
	return u
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
