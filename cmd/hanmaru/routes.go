// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/config"
	"github.com/olegiv/hanmaru/internal/handler"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
)

// Public form posts allowed per second and burst, per client IP.
const (
	formRateLimit = 1.0
	formRateBurst = 5
)

// routerDeps holds everything the router mounts.
type routerDeps struct {
	cfg             *config.Config
	sessionManager  *scs.SessionManager
	authStore       *auth.Store
	staticFS        fs.FS
	loginProtection *middleware.LoginProtection
	formLimiter     *middleware.FormRateLimiter

	frontend   *handler.FrontendHandler
	auth       *handler.AuthHandler
	engagement *handler.EngagementHandler
	profile    *handler.ProfileHandler
	admin      *handler.AdminHandler
	events     *handler.EventsHandler
	cache      *handler.CacheHandler
	health     *handler.HealthHandler
	seo        *handler.SEOHandler
}

// crudHandlers defines the admin editor handler methods of one resource.
type crudHandlers struct {
	List          http.HandlerFunc
	NewForm       http.HandlerFunc
	Create        http.HandlerFunc
	EditForm      http.HandlerFunc
	Update        http.HandlerFunc
	DeleteConfirm http.HandlerFunc
	Delete        http.HandlerFunc
}

// registerCRUD registers the editor routes of a resource.
// Routes: GET /, GET /new, POST /, GET /{id}/edit, POST /{id}, PUT /{id},
// GET /{id}/delete, POST /{id}/delete
func registerCRUD(r chi.Router, base string, h crudHandlers) {
	baseID := base + handler.RouteParamID
	r.Get(base, h.List)
	r.Get(base+handler.RouteSuffixNew, h.NewForm)
	r.Post(base, h.Create)
	r.Get(baseID+handler.RouteSuffixEdit, h.EditForm)
	r.Post(baseID, h.Update) // HTML forms can't send PUT
	r.Put(baseID, h.Update)
	r.Get(baseID+handler.RouteSuffixDelete, h.DeleteConfirm)
	r.Post(baseID+handler.RouteSuffixDelete, h.Delete)
}

func newRouter(d routerDeps) chi.Router {
	cfg := d.cfg
	isDev := cfg.IsDevelopment()
	var trustedOrigins []string
	if isDev {
		trustedOrigins = middleware.DevOrigins(cfg.ServerAddr())
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5, "text/html", "text/css", "text/javascript", "application/javascript", "application/json", "application/xml", "image/svg+xml", "text/plain"))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(chimw.RedirectSlashes)
	r.Use(middleware.SecurityHeaders(middleware.SitePolicy(isDev, cfg.APIBaseURL)))

	// Infrastructure routes need no session
	r.Get("/health", d.health.Health)
	r.Get("/robots.txt", d.seo.Robots)
	r.Get("/sitemap.xml", d.seo.Sitemap)
	r.With(chimw.SetHeader("Cache-Control", "public, max-age=31536000")).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(d.staticFS))))

	r.Group(func(r chi.Router) {
		r.Use(d.sessionManager.LoadAndSave)
		r.Use(middleware.Language(!isDev))
		r.Use(d.authStore.Hydrate)
		r.Use(middleware.CSRF([]byte(cfg.SessionSecret), trustedOrigins...))

		// Public pages
		r.Get(handler.RouteRoot, d.frontend.Home)
		r.Get(handler.RouteCourses, d.frontend.Courses)
		r.Get(handler.RouteCourses+handler.RouteParamID, d.frontend.Course)
		r.Get(handler.RouteBlog, d.frontend.Blog)
		r.Get(handler.RouteBlog+handler.RouteParamID, d.frontend.Post)
		r.Get(handler.RouteBlog+handler.RouteParamID+"/{slug}", d.frontend.Post)
		r.Get(handler.RouteAbout, d.frontend.About)
		r.Get(handler.RouteServices, d.frontend.Services)
		r.Get(handler.RouteSuccess, d.frontend.Success)
		r.Post(handler.RouteNotices+handler.RouteParamID+"/dismiss", d.frontend.DismissNotice)

		r.Group(func(r chi.Router) {
			r.Use(d.formLimiter.Middleware())
			r.Post(handler.RouteInquiries, d.frontend.CreateInquiry)
			r.Post(handler.RouteSubscribe, d.frontend.Subscribe)
			r.Post(handler.RouteSignUp, d.auth.SignUp)
			r.Post(handler.RouteVerifyEmail+"/resend", d.auth.ResendVerification)
		})

		// Auth
		r.Get(handler.RouteSignIn, d.auth.SignInPage)
		r.With(d.loginProtection.Middleware()).Post(handler.RouteSignIn, d.auth.SignIn)
		r.Get(handler.RouteSignUp, d.auth.SignUpPage)
		r.Post(handler.RouteLogout, d.auth.Logout)
		r.Get(handler.RouteVerifyEmail, d.auth.VerifyEmail)
		r.Get(handler.RouteVerifyEmail+"/{token}", d.auth.VerifyEmail)

		// Signed-in visitors
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth())

			r.Post(handler.RouteBlog+handler.RouteParamID+"/like", d.engagement.Like)
			r.Post(handler.RouteBlog+handler.RouteParamID+"/save", d.engagement.Save)
			r.Post(handler.RouteBlog+handler.RouteParamID+"/comments", d.engagement.Comment)
			r.Post(handler.RouteCourses+handler.RouteParamID+"/comments", d.engagement.RateCourse)
			r.Post(handler.RouteCourses+handler.RouteParamID+"/enroll", d.engagement.Enroll)

			r.Get(handler.RouteProfile, d.profile.Profile)
			r.Post(handler.RouteProfile, d.profile.UpdateProfile)
			r.Get(handler.RouteSaved, d.profile.Saved)
			r.Post(handler.RouteSaved+handler.RouteParamID+"/remove", d.profile.RemoveSaved)
		})

		// Admin
		r.Route(handler.RouteAdmin, func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))

			r.Get(handler.RouteRoot, d.admin.Dashboard)
			r.Post(handler.RouteJobs+"/{name}/run", d.admin.RunJob)

			registerCRUD(r, handler.RouteCourses, crudHandlers{
				List:          d.admin.ListCourses,
				NewForm:       d.admin.NewCourseForm,
				Create:        d.admin.CreateCourse,
				EditForm:      d.admin.EditCourseForm,
				Update:        d.admin.UpdateCourse,
				DeleteConfirm: d.admin.DeleteCourseConfirm,
				Delete:        d.admin.DeleteCourse,
			})
			r.Post(handler.RouteCourses+handler.RouteParamID+handler.RouteSuffixStatus, d.admin.SetCourseStatus)

			registerCRUD(r, handler.RouteBlogs, crudHandlers{
				List:          d.admin.ListBlogs,
				NewForm:       d.admin.NewBlogForm,
				Create:        d.admin.CreateBlog,
				EditForm:      d.admin.EditBlogForm,
				Update:        d.admin.UpdateBlog,
				DeleteConfirm: d.admin.DeleteBlogConfirm,
				Delete:        d.admin.DeleteBlog,
			})
			r.Post(handler.RouteBlogs+handler.RouteParamID+handler.RouteSuffixStatus, d.admin.SetBlogStatus)
			r.Post(handler.RouteBlogs+handler.RouteParamID+"/notification", d.admin.SetBlogNotification)

			registerCRUD(r, handler.RouteSuccess, crudHandlers{
				List:          d.admin.ListSuccess,
				NewForm:       d.admin.NewSuccessForm,
				Create:        d.admin.CreateSuccess,
				EditForm:      d.admin.EditSuccessForm,
				Update:        d.admin.UpdateSuccess,
				DeleteConfirm: d.admin.DeleteSuccessConfirm,
				Delete:        d.admin.DeleteSuccess,
			})

			r.Get(handler.RouteAbout, d.admin.EditAbout)
			r.Post(handler.RouteAbout, d.admin.SaveAbout)
			r.Put(handler.RouteAbout, d.admin.SaveAbout)

			r.Get(handler.RouteInquiries, d.admin.ListInquiries)
			r.Get(handler.RouteInquiries+".json", d.admin.InquiriesJSON)
			r.Post(handler.RouteInquiries+handler.RouteParamID+handler.RouteSuffixStatus, d.admin.SetInquiryStatus)

			r.Get(handler.RouteEvents, d.events.List)
			r.Post(handler.RouteCache+"/clear", d.cache.Clear)
		})

		r.NotFound(d.frontend.NotFound)
	})

	return r
}
