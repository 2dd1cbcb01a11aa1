// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/content"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
	"github.com/olegiv/hanmaru/internal/service"
	"github.com/olegiv/hanmaru/internal/util"
)

// Home page section sizes.
const (
	homeFeaturedCourses = 3
	homeFeaturedStories = 6
	relatedPostsLimit   = 3
)

// FrontendHandler serves the public pages.
type FrontendHandler struct {
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	api            *apiclient.Client
	catalog        *service.Catalog
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer, sm *scs.SessionManager, api *apiclient.Client, catalog *service.Catalog) *FrontendHandler {
	return &FrontendHandler{
		renderer:       renderer,
		sessionManager: sm,
		api:            api,
		catalog:        catalog,
	}
}

// ServiceItem is one card on the services page. Its texts are the
// translations of services.<Key>.title and services.<Key>.desc.
type ServiceItem struct {
	Key  string
	Icon string
}

// ConsultingServices are the study-in-Korea services.
var ConsultingServices = []ServiceItem{
	{Key: "documents", Icon: "file-text"},
	{Key: "university", Icon: "school"},
	{Key: "topik_prep", Icon: "book-open-check"},
	{Key: "dormitory", Icon: "building"},
	{Key: "departure", Icon: "plane"},
	{Key: "support", Icon: "headphones"},
}

// TeachingServices are the language course services.
var TeachingServices = []ServiceItem{
	{Key: "beginner", Icon: "book-open"},
	{Key: "topik_exam", Icon: "target"},
	{Key: "group", Icon: "users"},
	{Key: "individual", Icon: "clock"},
	{Key: "certificate", Icon: "check-circle"},
	{Key: "professional", Icon: "graduation-cap"},
}

// HomeData holds data for the home page. Each section carries its own load
// error so one failing read does not hide the others.
type HomeData struct {
	Notices       []model.Notice
	NoticeType    string
	NoticeTypes   []string
	NoticesError  string
	Courses       []model.Course
	CoursesError  string
	Stories       []model.SuccessStory
	StoriesError  string
	InquiryTypes  []string
	Inquiry       model.Inquiry
	InquiryErrors model.FieldErrors
}

// CoursesData holds data for the course list.
type CoursesData struct {
	Courses    []model.Course
	Query      content.Query
	Categories []string
	Sorts      []string
	Total      int
}

// CourseData holds data for a course page.
type CourseData struct {
	Course       *model.Course
	Rating       model.CourseRating
	RatingErrors model.FieldErrors
}

// BlogListData holds data for the blog list.
type BlogListData struct {
	Posts      []model.BlogPost
	Query      content.Query
	Categories []string
	Sorts      []string
	Trending   []model.TrendingTopic
	Total      int
}

// PostData holds data for a blog post page.
type PostData struct {
	Post          *model.BlogPost
	Comments      []model.BlogComment
	CommentsError string
	Liked         bool
	Saved         bool
	Related       []model.BlogPost
	Comment       model.CommentInput
	CommentErrors model.FieldErrors
}

// ServicesData holds data for the services page.
type ServicesData struct {
	Consulting   []ServiceItem
	Teaching     []ServiceItem
	InquiryTypes []string
	Inquiry      model.Inquiry
}

// Home handles GET /.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := HomeData{
		NoticeType:   r.URL.Query().Get("notice"),
		NoticeTypes:  model.NoticeTypes,
		InquiryTypes: model.InquiryTypes,
		Inquiry:      model.Inquiry{Type: model.InquiryConsultation},
	}
	if data.NoticeType == "" {
		data.NoticeType = content.CategoryAll
	}

	if posts, err := h.catalog.Notifications(ctx); err != nil {
		slog.Warn("loading notices failed", "category", model.EventCategoryAPI, "error", err)
		data.NoticesError = errorText(r, err, "notice.load_failed")
	} else {
		data.Notices = content.Notices(posts, h.dismissed(r), data.NoticeType)
	}

	if courses, err := h.catalog.FeaturedCourses(ctx); err != nil {
		slog.Warn("loading featured courses failed", "category", model.EventCategoryAPI, "error", err)
		data.CoursesError = errorText(r, err, "course.load_failed")
	} else {
		data.Courses = firstN(service.PublicCourses(courses), homeFeaturedCourses)
	}

	if stories, err := h.catalog.FeaturedSuccess(ctx); err != nil {
		slog.Warn("loading success stories failed", "category", model.EventCategoryAPI, "error", err)
		data.StoriesError = errorText(r, err, "success.load_failed")
	} else {
		data.Stories = firstN(stories, homeFeaturedStories)
	}

	h.renderer.RenderPage(w, r, "pages/home", render.TemplateData{
		Title: i18n.T(middleware.GetLang(r), "nav.home"),
		Data:  data,
	})
}

// Courses handles GET /courses.
func (h *FrontendHandler) Courses(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	q := content.ParseQuery(r.URL.Query())
	td := render.TemplateData{Title: i18n.T(lang, "nav.courses")}

	courses, err := h.catalog.Courses(r.Context())
	if err != nil {
		slog.Warn("loading courses failed", "category", model.EventCategoryAPI, "error", err)
		td.Error = errorText(r, err, "course.load_failed")
	}

	td.Data = CoursesData{
		Courses:    content.Courses(courses, q),
		Query:      q,
		Categories: model.CourseCategories,
		Sorts:      []string{content.SortNewest, content.SortPopular},
		Total:      len(courses),
	}
	h.renderer.RenderPage(w, r, "pages/courses", td)
}

// Course handles GET /courses/{id}.
func (h *FrontendHandler) Course(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	course, err := h.api.GetCourse(r.Context(), auth.FromRequest(r).Credentials, id)
	if err != nil {
		h.renderLoadError(w, r, "pages/course", err, "course.not_found", "course_id", id)
		return
	}
	h.renderCourse(w, r, http.StatusOK, CourseData{Course: course, Rating: model.CourseRating{Rating: model.MaxRating}})
}

func (h *FrontendHandler) renderCourse(w http.ResponseWriter, r *http.Request, status int, data CourseData) {
	lang := middleware.GetLang(r)
	h.renderer.RenderPageStatus(w, r, status, "pages/course", render.TemplateData{
		Title:       data.Course.Title,
		Description: data.Course.Description,
		Data:        data,
		Errors:      data.RatingErrors,
		Breadcrumbs: trail(lang, "nav.courses", RouteCourses, data.Course.Title),
	})
}

// Blog handles GET /blog.
func (h *FrontendHandler) Blog(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	q := content.ParseQuery(r.URL.Query())
	td := render.TemplateData{Title: i18n.T(lang, "nav.blog")}

	posts, err := h.catalog.Blogs(r.Context())
	if err != nil {
		slog.Warn("loading posts failed", "category", model.EventCategoryAPI, "error", err)
		td.Error = errorText(r, err, "blog.load_failed")
	}

	trending, err := h.catalog.TrendingTopics(r.Context())
	if err != nil {
		slog.Warn("loading trending topics failed", "category", model.EventCategoryAPI, "error", err)
	}

	td.Data = BlogListData{
		Posts:      content.Posts(posts, q),
		Query:      q,
		Categories: model.BlogCategories,
		Sorts:      []string{content.SortNewest, content.SortPopular},
		Trending:   trending,
		Total:      len(posts),
	}
	h.renderer.RenderPage(w, r, "pages/blog", td)
}

// Post handles GET /blog/{id} and GET /blog/{id}/{slug}. A missing or stale
// slug redirects to the canonical address.
func (h *FrontendHandler) Post(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess := auth.FromRequest(r)

	post, err := h.api.GetBlog(r.Context(), sess.Credentials, id)
	if err != nil {
		h.renderLoadError(w, r, "pages/post", err, "blog.not_found", "post_id", id)
		return
	}

	if slug := util.Slugify(post.Title); slug != "" && chi.URLParam(r, "slug") != slug {
		target := PostURL(*post)
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	data := h.postData(r, post)
	h.renderPost(w, r, http.StatusOK, data)
}

// postData loads what a post page shows besides the post itself.
func (h *FrontendHandler) postData(r *http.Request, post *model.BlogPost) PostData {
	sess := auth.FromRequest(r)
	data := PostData{
		Post:  post,
		Liked: post.LikedBy(sess.UserID()),
		Saved: post.SavedByUser(sess.UserID()),
	}

	comments, err := h.api.BlogComments(r.Context(), sess.Credentials, post.ID)
	if err != nil {
		slog.Warn("loading comments failed", "category", model.EventCategoryAPI, "post_id", post.ID, "error", err)
		data.CommentsError = errorText(r, err, "comment.load_failed")
		comments = post.Comments
	}
	data.Comments = comments

	if posts, err := h.catalog.Blogs(r.Context()); err == nil {
		for _, p := range posts {
			if len(data.Related) == relatedPostsLimit {
				break
			}
			if p.ID != post.ID && strings.EqualFold(p.Category, post.Category) {
				data.Related = append(data.Related, p)
			}
		}
	}
	return data
}

func (h *FrontendHandler) renderPost(w http.ResponseWriter, r *http.Request, status int, data PostData) {
	lang := middleware.GetLang(r)
	h.renderer.RenderPageStatus(w, r, status, "pages/post", render.TemplateData{
		Title:       data.Post.Title,
		Description: data.Post.Excerpt,
		Data:        data,
		Errors:      data.CommentErrors,
		Breadcrumbs: trail(lang, "nav.blog", RouteBlog, data.Post.Title),
	})
}

// About handles GET /about.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	td := render.TemplateData{Title: i18n.T(middleware.GetLang(r), "nav.about")}
	about, err := h.catalog.About(r.Context())
	if err != nil {
		slog.Warn("loading about failed", "category", model.EventCategoryAPI, "error", err)
		td.Error = errorText(r, err, "about.load_failed")
	}
	td.Data = about.Normalize()
	h.renderer.RenderPage(w, r, "pages/about", td)
}

// Services handles GET /xizmatlar.
func (h *FrontendHandler) Services(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	if !slices.Contains(model.InquiryTypes, typ) {
		typ = model.InquiryConsultation
	}
	h.renderServices(w, r, http.StatusOK, model.Inquiry{Type: typ}, nil, "")
}

func (h *FrontendHandler) renderServices(w http.ResponseWriter, r *http.Request, status int, in model.Inquiry, errs model.FieldErrors, errMsg string) {
	h.renderer.RenderPageStatus(w, r, status, "pages/services", render.TemplateData{
		Title: i18n.T(middleware.GetLang(r), "nav.services"),
		Data: ServicesData{
			Consulting:   ConsultingServices,
			Teaching:     TeachingServices,
			InquiryTypes: model.InquiryTypes,
			Inquiry:      in,
		},
		Errors: errs,
		Error:  errMsg,
	})
}

// Success handles GET /success.
func (h *FrontendHandler) Success(w http.ResponseWriter, r *http.Request) {
	td := render.TemplateData{Title: i18n.T(middleware.GetLang(r), "nav.success")}
	stories, err := h.catalog.Success(r.Context())
	if err != nil {
		slog.Warn("loading success stories failed", "category", model.EventCategoryAPI, "error", err)
		td.Error = errorText(r, err, "success.load_failed")
	}
	td.Data = stories
	h.renderer.RenderPage(w, r, "pages/success", td)
}

// CreateInquiry handles POST /inquiries from the contact forms.
func (h *FrontendHandler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	if !parseFormOrRedirect(w, r, h.renderer, RouteServices) {
		return
	}

	in := model.Inquiry{
		Name:       strings.TrimSpace(r.FormValue("name")),
		Phone:      strings.TrimSpace(r.FormValue("phone")),
		University: strings.TrimSpace(r.FormValue("university")),
		Message:    strings.TrimSpace(r.FormValue("message")),
		Type:       r.FormValue("type"),
	}

	if errs := in.Validate(); !errs.Empty() {
		if middleware.WantsJSON(r) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"success": false, "errors": translateErrors(lang, errs)})
			return
		}
		h.renderServices(w, r, http.StatusUnprocessableEntity, in, errs, "")
		return
	}

	if err := h.api.CreateInquiry(r.Context(), auth.FromRequest(r).Credentials, in); err != nil {
		slog.Error("creating inquiry failed", "category", model.EventCategoryAPI, "type", in.Type, "error", err)
		msg := errorText(r, err, "inquiry.failed")
		if middleware.WantsJSON(r) {
			writeJSONError(w, http.StatusBadGateway, msg)
			return
		}
		h.renderServices(w, r, http.StatusBadGateway, in, nil, msg)
		return
	}

	slog.Info("inquiry received", "type", in.Type)
	msg := i18n.T(lang, "inquiry.sent")
	if middleware.WantsJSON(r) {
		writeJSONSuccess(w, map[string]any{"message": msg})
		return
	}
	flashSuccess(w, r, h.renderer, backTo(r, RouteServices), msg)
}

// Subscribe handles POST /subscribe from the footer.
func (h *FrontendHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	if !parseFormOrRedirect(w, r, h.renderer, RouteRoot) {
		return
	}
	back := backTo(r, RouteRoot)

	in := model.Subscription{Email: strings.TrimSpace(r.FormValue("email"))}
	if errs := in.Validate(); !errs.Empty() {
		flashError(w, r, h.renderer, back, i18n.T(lang, errs.Get("email")))
		return
	}

	msg, err := h.api.Subscribe(r.Context(), in)
	if err != nil {
		slog.Warn("subscription failed", "category", model.EventCategoryAPI, "error", err)
		flashError(w, r, h.renderer, back, errorText(r, err, "subscribe.failed"))
		return
	}
	if msg == "" {
		msg = i18n.T(lang, "subscribe.success")
	}
	flashSuccess(w, r, h.renderer, back, msg)
}

// DismissNotice handles POST /notices/{id}/dismiss. Dismissed notices stay
// hidden for the rest of the visitor's session.
func (h *FrontendHandler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id := chi.URLParam(r, "id")
	back := backTo(r, RouteRoot)

	posts, err := h.catalog.Notifications(r.Context())
	if err != nil {
		slog.Warn("loading notices failed", "category", model.EventCategoryAPI, "error", err)
		if middleware.WantsJSON(r) {
			writeJSONError(w, http.StatusBadGateway, errorText(r, err, "notice.load_failed"))
			return
		}
		flashError(w, r, h.renderer, back, errorText(r, err, "notice.load_failed"))
		return
	}
	if !content.IsNotice(posts, id) {
		if middleware.WantsJSON(r) {
			writeJSONError(w, http.StatusNotFound, i18n.T(lang, "notice.not_found"))
			return
		}
		flashError(w, r, h.renderer, back, i18n.T(lang, "notice.not_found"))
		return
	}

	dismissed := content.Dismiss(h.dismissed(r), id, posts)
	h.sessionManager.Put(r.Context(), sessionKeyDismissed, dismissed)

	if middleware.WantsJSON(r) {
		writeJSONSuccess(w, map[string]any{"dismissed": dismissed})
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// dismissed returns the notice ids the visitor closed.
func (h *FrontendHandler) dismissed(r *http.Request) []string {
	ids, _ := h.sessionManager.Get(r.Context(), sessionKeyDismissed).([]string)
	return ids
}

// renderLoadError renders a detail page whose record could not be read. The
// page keeps its layout and shows the failure inline.
func (h *FrontendHandler) renderLoadError(w http.ResponseWriter, r *http.Request, name string, err error, notFoundKey string, idKey, id string) {
	lang := middleware.GetLang(r)
	status := apiStatus(err)
	msg := errorText(r, err, "error.generic")
	if status == http.StatusNotFound {
		msg = i18n.T(lang, notFoundKey)
	} else {
		slog.Warn("loading record failed", "category", model.EventCategoryAPI, idKey, id, "error", err)
	}
	if status == http.StatusOK {
		status = http.StatusBadGateway
	}
	h.renderer.RenderPageStatus(w, r, status, name, render.TemplateData{
		Title: i18n.T(lang, "error.title"),
		Error: msg,
	})
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	h.renderer.RenderPageStatus(w, r, http.StatusNotFound, "pages/notfound", render.TemplateData{
		Title: i18n.T(lang, "error.not_found"),
	})
}

// PostURL is the canonical address of a post.
func PostURL(p model.BlogPost) string {
	return render.PostURL(p)
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// translateErrors renders field errors for a JSON answer.
func translateErrors(lang string, errs model.FieldErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for field, msg := range errs {
		out[field] = i18n.T(lang, msg)
	}
	return out
}
