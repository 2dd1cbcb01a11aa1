// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/hanmaru/internal/model"
)

// Call is one request received by the fake API.
type Call struct {
	Method string
	Path   string
	Query  string
	Body   string
	Token  string
}

type fakeAccount struct {
	user     model.User
	password string
}

type failure struct {
	status  int
	message string
}

// FakeAPI is an in-memory stand-in for the content REST API.
type FakeAPI struct {
	Server *httptest.Server

	mu          sync.Mutex
	seq         int
	accounts    map[string]*fakeAccount
	verifyToken map[string]string
	Courses     []model.Course
	Blogs       []model.BlogPost
	Comments    map[string][]model.BlogComment
	About       model.AboutContent
	Success     []model.SuccessStory
	Inquiries   []model.Inquiry
	Subscribers []string
	calls       []Call
	failures    map[string]failure
}

// NewFakeAPI starts a fake API that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		accounts:    map[string]*fakeAccount{},
		verifyToken: map[string]string{},
		Comments:    map[string][]model.BlogComment{},
		About:       model.AboutContent{}.Normalize(),
		failures:    map[string]failure{},
	}
	f.Server = httptest.NewServer(f.routes())
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// AddUser registers a verified account and returns it.
func (f *FakeAPI) AddUser(name, email, password, role string) model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := model.User{ID: f.nextID("u"), Name: name, Email: email, Role: role, IsVerified: true}
	f.accounts[email] = &fakeAccount{user: u, password: password}
	return u
}

// TokenFor returns the API session cookie value of a user.
func TokenFor(userID string) string {
	return "tok-" + userID
}

// VerificationToken returns the emailed token of a registered email.
func (f *FakeAPI) VerificationToken(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, e := range f.verifyToken {
		if e == email {
			return tok
		}
	}
	return ""
}

// Fail makes every request to method+path answer status with message.
func (f *FakeAPI) Fail(method, path string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = failure{status: status, message: message}
}

// Calls returns the requests received so far.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallCount counts requests with method whose path starts with prefix.
func (f *FakeAPI) CallCount(method, prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method && strings.HasPrefix(c.Path, prefix) {
			n++
		}
	}
	return n
}

// Blog returns a copy of a stored post.
func (f *FakeAPI) Blog(id string) (model.BlogPost, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.Blogs {
		if b.ID == id {
			return b, true
		}
	}
	return model.BlogPost{}, false
}

// InquiryList returns a copy of the stored inquiries.
func (f *FakeAPI) InquiryList() []model.Inquiry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Inquiries)
}

// SubscriberList returns a copy of the subscribed emails.
func (f *FakeAPI) SubscriberList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Subscribers)
}

// CourseList returns a copy of the stored courses.
func (f *FakeAPI) CourseList() []model.Course {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Courses)
}

func (f *FakeAPI) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq+100)
}

func (f *FakeAPI) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(f.record)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", f.login)
		r.Post("/logout", f.ok)
		r.Post("/register", f.register)
		r.Get("/verify-email/{token}", f.verify)
		r.Post("/resend-verification", f.message("Verification email sent"))
	})

	r.Route("/api/courses", func(r chi.Router) {
		r.Get("/", f.listCourses)
		r.Get("/featured", f.listCourses)
		r.With(f.requireAdmin).Post("/", f.createCourse)
		r.Get("/{id}", f.getCourse)
		r.With(f.requireAdmin).Put("/{id}", f.updateCourse)
		r.With(f.requireAdmin).Delete("/{id}", f.deleteCourse)
		r.With(f.requireUser).Post("/{id}/enroll", f.message("Enrolled"))
		r.With(f.requireUser).Post("/{id}/comments", f.addCourseComment)
	})

	r.Route("/api/blogs", func(r chi.Router) {
		r.Get("/", f.listBlogs)
		r.With(f.requireUser).Get("/saved", f.savedBlogs)
		r.Get("/notifications", f.notifications)
		r.Get("/trending-topics", f.trending)
		r.With(f.requireAdmin).Post("/", f.createBlog)
		r.Get("/{id}", f.getBlog)
		r.With(f.requireAdmin).Put("/{id}", f.updateBlog)
		r.With(f.requireAdmin).Delete("/{id}", f.deleteBlog)
		r.Get("/{id}/comments", f.blogComments)
		r.With(f.requireUser).Post("/{id}/comment", f.addBlogComment)
		r.With(f.requireUser).Post("/{id}/like", f.toggle(true, false))
		r.With(f.requireUser).Delete("/{id}/like", f.toggle(false, false))
		r.With(f.requireUser).Post("/{id}/save", f.toggle(true, true))
		r.With(f.requireUser).Delete("/{id}/save", f.toggle(false, true))
		r.With(f.requireAdmin).Put("/{id}/status", f.blogStatus)
		r.With(f.requireAdmin).Put("/{id}/notification", f.blogNotification)
	})

	r.Get("/api/about", f.getAbout)
	r.With(f.requireAdmin).Put("/api/about", f.putAbout)
	r.With(f.requireAdmin).Delete("/api/about/team/{id}", f.deleteTeamMember)

	r.Route("/api/success", func(r chi.Router) {
		r.Get("/", f.listSuccess)
		r.Get("/featured", f.featuredSuccess)
		r.Get("/{id}", f.getSuccess)
		r.With(f.requireAdmin).Post("/", f.createSuccess)
		r.With(f.requireAdmin).Put("/{id}", f.updateSuccess)
		r.With(f.requireAdmin).Delete("/{id}", f.deleteSuccess)
	})

	r.Post("/api/inquiries", f.createInquiry)
	r.With(f.requireAdmin).Get("/api/inquiries", f.listInquiries)
	r.With(f.requireUser).Get("/api/inquiries/user", f.listInquiries)
	r.With(f.requireAdmin).Put("/api/inquiries/{id}/status", f.inquiryStatus)

	r.Post("/api/subscribers", f.subscribe)
	r.With(f.requireUser).Put("/api/profile/update", f.updateProfile)
	r.With(f.requireUser).Post("/api/upload", f.upload)

	return r
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(strings.NewReader(string(body)))
		}
		token := ""
		if c, err := r.Cookie("token"); err == nil {
			token = c.Value
		}

		f.mu.Lock()
		f.calls = append(f.calls, Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body), Token: token})
		fail, failing := f.failures[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		if failing {
			writeJSON(w, fail.status, map[string]string{"message": fail.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) currentUser(r *http.Request) *model.User {
	c, err := r.Cookie("token")
	if err != nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if TokenFor(a.user.ID) == c.Value {
			u := a.user
			return &u
		}
	}
	return nil
}

func (f *FakeAPI) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.currentUser(r) == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := f.currentUser(r)
		if u == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
			return
		}
		if u.Role != model.RoleAdmin {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "Admin only"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func (f *FakeAPI) ok(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

func (f *FakeAPI) message(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
	}
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
}

// --- auth ---

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var in model.SignIn
	if !decode(r, &in) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad request"})
		return
	}
	f.mu.Lock()
	a, ok := f.accounts[in.Email]
	f.mu.Unlock()
	if !ok || a.password != in.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Email yoki parol noto'g'ri"})
		return
	}
	if !a.user.IsVerified {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Email tasdiqlanmagan"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "token", Value: TokenFor(a.user.ID), Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, a.user)
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if !decode(r, &in) || in.ConfirmPassword != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[in.Email]; exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bu email allaqachon ro'yxatdan o'tgan"})
		return
	}
	u := model.User{ID: f.nextID("u"), Name: in.Name, Email: in.Email, Role: model.RoleUser}
	f.accounts[in.Email] = &fakeAccount{user: u, password: in.Password}
	f.verifyToken["verify-"+u.ID] = in.Email
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Tasdiqlash xati yuborildi"})
}

func (f *FakeAPI) verify(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	f.mu.Lock()
	email, ok := f.verifyToken[token]
	var a *fakeAccount
	if ok {
		a = f.accounts[email]
		a.user.IsVerified = true
		delete(f.verifyToken, token)
	}
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Token yaroqsiz yoki muddati o'tgan"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Email tasdiqlandi",
		"user":    a.user,
		"token":   TokenFor(a.user.ID),
	})
}

// --- courses ---

func (f *FakeAPI) listCourses(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.Courses)
}

func (f *FakeAPI) courseIndex(id string) int {
	return slices.IndexFunc(f.Courses, func(c model.Course) bool { return c.ID == id })
}

func (f *FakeAPI) getCourse(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.courseIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, f.Courses[i])
}

func (f *FakeAPI) createCourse(w http.ResponseWriter, r *http.Request) {
	var c model.Course
	if !decode(r, &c) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.nextID("c")
	c.CreatedAt = time.Now().UTC()
	f.Courses = append(f.Courses, c)
	writeJSON(w, http.StatusCreated, c)
}

func (f *FakeAPI) updateCourse(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if !decode(r, &patch) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.courseIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w)
		return
	}
	merged, _ := json.Marshal(f.Courses[i])
	var current map[string]json.RawMessage
	_ = json.Unmarshal(merged, &current)
	for k, v := range patch {
		current[k] = v
	}
	merged, _ = json.Marshal(current)
	var c model.Course
	_ = json.Unmarshal(merged, &c)
	c.ID = f.Courses[i].ID
	f.Courses[i] = c
	writeJSON(w, http.StatusOK, c)
}

func (f *FakeAPI) deleteCourse(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.courseIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w)
		return
	}
	f.Courses = slices.Delete(f.Courses, i, i+1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (f *FakeAPI) addCourseComment(w http.ResponseWriter, r *http.Request) {
	var in model.CourseRating
	if !decode(r, &in) || in.Rating < 1 || in.Rating > 5 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad request"})
		return
	}
	u := f.currentUser(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.courseIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w)
		return
	}
	c := &f.Courses[i]
	c.Comments = append(c.Comments, model.CourseComment{
		ID: f.nextID("cc"), User: model.UserRef{ID: u.ID, Name: u.Name}, Rating: in.Rating, Text: in.Text, CreatedAt: time.Now().UTC(),
	})
	total := 0
	for _, cm := range c.Comments {
		total += cm.Rating
	}
	c.Rating = float64(total) / float64(len(c.Comments))
	writeJSON(w, http.StatusCreated, map[string]string{"message": "ok"})
}

// --- blogs ---

func (f *FakeAPI) blogIndex(id string) int {
	return slices.IndexFunc(f.Blogs, func(b model.BlogPost) bool { return b.ID == id })
}

func (f *FakeAPI) listBlogs(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	status := r.URL.Query().Get("status")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.BlogPost{}
	for _, b := range f.Blogs {
		if category != "" && !strings.EqualFold(b.Category, category) {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, b)
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) savedBlogs(w http.ResponseWriter, r *http.Request) {
	u := f.currentUser(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.BlogPost{}
	for _, b := range f.Blogs {
		if slices.Contains(b.SavedBy, u.ID) {
			out = append(out, b)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) notifications(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.BlogPost{}
	for _, b := range f.Blogs {
		if b.IsNotification {
			out = append(out, b)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) trending(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, b := range f.Blogs {
		for _, t := range b.Tags {
			counts[t]++
		}
	}
	out := []model.TrendingTopic{}
	for tag, n := range counts {
		out = append(out, model.TrendingTopic{Tag: tag, Count: n})
	}
	slices.SortFunc(out, func(a, b model.TrendingTopic) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Tag, b.Tag)
	})
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) getBlog(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.blogIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w)
		return
	}
	f.Blogs[i].Views++
	writeJSON(w, http.StatusOK, f.Blogs[i])
}

func (f *FakeAPI) createBlog(w http.ResponseWriter, r *http.Request) {
	var b model.BlogPost
	if !decode(r, &b) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad request"})
		return
	}
	u := f.currentUser(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.nextID("b")
	b.Author = model.UserRef{ID: u.ID, Name: u.Name}
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	f.Blogs = append(f.Blogs, b)
	writeJSON(w, http.StatusCreated, b)
}

func (f *FakeAPI) updateBlog(w http.ResponseWriter, r *http.Request) {
	var in model.BlogPost
	if !decode(r, &in) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.blogIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w)
		return
	}
	b := &f.Blogs[i]
	b.Title, b.Content, b.Excerpt, b.Category = in.Title, in.Content, in.Excerpt, in.Category
	b.Tags, b.CoverImage, b.IsNotification, b.Status = in.Tags, in.CoverImage, in.IsNotification, in.Status
	b.UpdatedAt = time.Now().UTC()
	writeJSON(w, http.StatusOK, *b)
}

func (f *FakeAPI) deleteBlog(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.blogIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w)
		return
	}
	f.Blogs = slices.Delete(f.Blogs, i, i+1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (f *FakeAPI) blogComments(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.Comments[chi.URLParam(r, "id")]
	if out == nil {
		out = []model.BlogComment{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) addBlogComment(w http.ResponseWriter, r *http.Request) {
	var in model.CommentInput
	if !decode(r, &in) || strings.TrimSpace(in.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Izoh bo'sh bo'lmasligi kerak"})
		return
	}
	u := f.currentUser(r)
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blogIndex(id) < 0 {
		notFound(w)
		return
	}
	c := model.BlogComment{ID: f.nextID("m"), User: model.UserRef{ID: u.ID, Name: u.Name}, Content: in.Content, CreatedAt: time.Now().UTC()}
	f.Comments[id] = append(f.Comments[id], c)
	writeJSON(w, http.StatusCreated, c)
}

func (f *FakeAPI) toggle(on, saved bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := f.currentUser(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		i := f.blogIndex(chi.URLParam(r, "id"))
		if i < 0 {
			notFound(w)
			return
		}
		set := &f.Blogs[i].Likes
		key := "isLiked"
		if saved {
			set = &f.Blogs[i].SavedBy
			key = "isSaved"
		}
		*set = slices.DeleteFunc(*set, func(id string) bool { return id == u.ID })
		if on {
			*set = append(*set, u.ID)
		}
		writeJSON(w, http.StatusOK, map[string]bool{key: on})
	}
}

func (f *FakeAPI) blogStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if !decode(r, &in) || !slices.Contains(model.BlogStatuses, in.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad status"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.blogIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w)
		return
	}
	f.Blogs[i].Status = in.Status
	writeJSON(w, http.StatusOK, f.Blogs[i])
}

func (f *FakeAPI) blogNotification(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IsNotification bool `json:"isNotification"`
	}
	if !decode(r, &in) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.blogIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w)
		return
	}
	f.Blogs[i].IsNotification = in.IsNotification
	writeJSON(w, http.StatusOK, f.Blogs[i])
}

// --- about ---

func (f *FakeAPI) getAbout(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.About)
}

func (f *FakeAPI) putAbout(w http.ResponseWriter, r *http.Request) {
	var in model.AboutContent
	if !decode(r, &in) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range in.Team {
		if in.Team[i].ID == "" {
			in.Team[i].ID = f.nextID("t")
		}
	}
	f.About = in.Normalize()
	writeJSON(w, http.StatusOK, f.About)
}

func (f *FakeAPI) deleteTeamMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.About.Team, func(m model.TeamMember) bool { return m.ID == id })
	if i < 0 {
		notFound(w)
		return
	}
	f.About.Team = slices.Delete(f.About.Team, i, i+1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// --- success stories ---

func (f *FakeAPI) successIndex(id string) int {
	return slices.IndexFunc(f.Success, func(s model.SuccessStory) bool { return s.ID == id })
}

func (f *FakeAPI) listSuccess(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.Success)
}

func (f *FakeAPI) featuredSuccess(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.SuccessStory{}
	for _, s := range f.Success {
		if s.Featured {
			out = append(out, s)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) getSuccess(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.successIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, f.Success[i])
}

func (f *FakeAPI) createSuccess(w http.ResponseWriter, r *http.Request) {
	var s model.SuccessStory
	if !decode(r, &s) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.nextID("s")
	f.Success = append(f.Success, s)
	writeJSON(w, http.StatusCreated, s)
}

func (f *FakeAPI) updateSuccess(w http.ResponseWriter, r *http.Request) {
	var s model.SuccessStory
	if !decode(r, &s) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.successIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w)
		return
	}
	s.ID = f.Success[i].ID
	f.Success[i] = s
	writeJSON(w, http.StatusOK, s)
}

func (f *FakeAPI) deleteSuccess(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.successIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w)
		return
	}
	f.Success = slices.Delete(f.Success, i, i+1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// --- inquiries, subscribers, profile ---

func (f *FakeAPI) createInquiry(w http.ResponseWriter, r *http.Request) {
	var in model.Inquiry
	if !decode(r, &in) || in.Name == "" || in.Phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Ism va telefon raqam majburiy"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	in.ID = f.nextID("q")
	in.Status = model.InquiryPending
	in.CreatedAt = time.Now().UTC()
	f.Inquiries = append(f.Inquiries, in)
	writeJSON(w, http.StatusCreated, in)
}

func (f *FakeAPI) listInquiries(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Inquiry{}
	for _, q := range f.Inquiries {
		if typ == "" || q.Type == typ {
			out = append(out, q)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) inquiryStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if !decode(r, &in) || !model.ValidInquiryStatus(in.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad status"})
		return
	}
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.Inquiries, func(q model.Inquiry) bool { return q.ID == id })
	if i < 0 {
		notFound(w)
		return
	}
	f.Inquiries[i].Status = in.Status
	writeJSON(w, http.StatusOK, f.Inquiries[i])
}

func (f *FakeAPI) subscribe(w http.ResponseWriter, r *http.Request) {
	var in model.Subscription
	if !decode(r, &in) || !model.ValidEmail(in.Email) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email noto'g'ri"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if slices.Contains(f.Subscribers, in.Email) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Siz allaqachon obuna bo'lgansiz"})
		return
	}
	f.Subscribers = append(f.Subscribers, in.Email)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Obuna bo'ldingiz"})
}

func (f *FakeAPI) updateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad form"})
		return
	}
	u := f.currentUser(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.accounts[u.Email]
	a.user.Name = r.FormValue("name")
	if _, hdr, err := r.FormFile("profilePicture"); err == nil {
		a.user.ProfilePicture = "/uploads/profiles/" + hdr.Filename
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": a.user})
}

func (f *FakeAPI) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad form"})
		return
	}
	_, hdr, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "No image"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": "/uploads/" + hdr.Filename})
}
