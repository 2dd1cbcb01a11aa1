// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the page templates once at startup and executes
// them with the per-request data every page needs.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/sanitize"
	"github.com/olegiv/hanmaru/internal/uikit"
	"github.com/olegiv/hanmaru/internal/util"
)

// Session keys for flash messages.
const (
	sessionKeyFlash     = "flash"
	sessionKeyFlashType = "flash_type"
)

// Flash types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// blankLinesRegex matches runs of blank lines left behind by template actions.
var blankLinesRegex = regexp.MustCompile(`(\r?\n[ \t]*)+\r?\n`)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	logger         *slog.Logger
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	Logger         *slog.Logger
	IsDev          bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		logger:         logger,
		isDev:          cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// layoutSet describes which layouts a template directory is parsed with.
type layoutSet struct {
	dir     string
	layouts []string
}

// parseTemplates parses every page template together with its layouts and
// all partials. Templates are addressed as "<dir>/<name>".
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	const (
		baseLayout  = "layouts/base.html"
		adminLayout = "layouts/admin.html"
	)
	sets := []layoutSet{
		{dir: "pages", layouts: []string{baseLayout}},
		{dir: "auth", layouts: []string{baseLayout}},
		{dir: "admin", layouts: []string{baseLayout, adminLayout}},
	}

	funcs := r.TemplateFuncs()
	for _, set := range sets {
		pages, err := getTemplateFiles(templatesFS, set.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", set.dir, err)
		}
		for _, tmplPath := range pages {
			name := set.dir + "/" + strings.TrimSuffix(path.Base(tmplPath), ".html")

			files := append([]string{}, set.layouts...)
			files = append(files, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(funcs).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	r.logger.Debug("templates parsed", "count", len(r.templates))
	return nil
}

// getTemplateFiles lists the .html files directly inside dir. A missing
// directory has none.
func getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	return fs.Glob(templatesFS, path.Join(dir, "*.html"))
}

// Has reports whether a template named name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateFuncs returns the uikit helpers plus the site-specific ones.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	funcs := uikit.TemplateFuncs()

	funcs["t"] = i18n.T
	funcs["formatNumber"] = formatNumber
	funcs["slug"] = util.Slugify
	funcs["postURL"] = PostURL
	funcs["sanitizeHTML"] = func(s string) template.HTML {
		return keepNewlines(string(sanitize.HTML(s)))
	}
	funcs["textarea"] = func(s string) template.HTML {
		return keepNewlines(template.HTMLEscapeString(s))
	}
	funcs["plainText"] = sanitize.Text
	funcs["truncate"] = sanitize.Truncate
	funcs["excerpt"] = sanitize.Excerpt
	funcs["fieldError"] = fieldError
	funcs["stars"] = stars
	funcs["navActive"] = navActive
	funcs["langURL"] = langURL
	funcs["isAdminPath"] = func(p string) bool {
		return p == "/admin" || strings.HasPrefix(p, "/admin/")
	}

	return funcs
}

// keepNewlines encodes line breaks as character references so that blank
// line compaction leaves authored text intact.
func keepNewlines(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(s, "\n", "&#10;")) //nolint:gosec // input is escaped or sanitized
}

// formatNumber groups the digits of a number the way lang writes them.
func formatNumber(lang string, v any) string {
	switch n := v.(type) {
	case model.Number:
		return i18n.FormatNumber(lang, float64(n))
	case float64:
		return i18n.FormatNumber(lang, n)
	case int:
		return i18n.FormatNumber(lang, float64(n))
	case int64:
		return i18n.FormatNumber(lang, float64(n))
	default:
		return fmt.Sprint(v)
	}
}

// fieldError returns the translated validation message for field or "".
func fieldError(lang string, errs model.FieldErrors, field string) string {
	msg := errs.Get(field)
	if msg == "" {
		return ""
	}
	return i18n.T(lang, msg)
}

// stars maps a rating to five filled/empty flags.
func stars(rating any) []bool {
	var v float64
	switch n := rating.(type) {
	case float64:
		v = n
	case int:
		v = float64(n)
	}
	out := make([]bool, model.MaxRating)
	for i := range out {
		out[i] = float64(i)+0.5 <= v
	}
	return out
}

// navActive reports whether the navigation entry for prefix is the current
// page. The root entry only matches itself.
func navActive(current, prefix string) bool {
	if prefix == "/" {
		return current == "/"
	}
	return current == prefix || strings.HasPrefix(current, prefix+"/")
}

// PostURL is the canonical address of a post: its id followed by the slug
// of its title.
func PostURL(p model.BlogPost) string {
	if slug := util.Slugify(p.Title); slug != "" {
		return "/blog/" + p.ID + "/" + slug
	}
	return "/blog/" + p.ID
}

// langURL returns the current path with the language switch parameter.
func langURL(current, lang string) string {
	return current + "?lang=" + lang
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Description string
	Lang        string
	Languages   []string
	Path        string
	Session     auth.Session
	User        *model.User
	Data        any
	Form        any
	Errors      model.FieldErrors
	Error       string
	Flash       string
	FlashType   string
	Breadcrumbs []uikit.Breadcrumb
	CurrentYear int
	IsDev       bool
}

// T translates key into the page language.
func (d TemplateData) T(key string, args ...any) string {
	return i18n.T(d.Lang, key, args...)
}

// Render renders a template with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus fills in the request-level data, executes the template into a
// buffer and writes it with status.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	r.fill(req, &data)

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	out := blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(out)
	return nil
}

// RenderPage renders a template and answers 500 if that fails.
func (r *Renderer) RenderPage(w http.ResponseWriter, req *http.Request, name string, data TemplateData) {
	r.RenderPageStatus(w, req, http.StatusOK, name, data)
}

// RenderPageStatus is RenderPage with an explicit status code.
func (r *Renderer) RenderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) {
	if err := r.RenderStatus(w, req, status, name, data); err != nil {
		r.logger.Error("render failed", "category", "system", "template", name, "error", err)
		http.Error(w, i18n.T(middleware.GetLang(req), "error.generic"), http.StatusInternalServerError)
	}
}

// fill sets the data every page shows: language, session, flash message.
func (r *Renderer) fill(req *http.Request, data *TemplateData) {
	data.CurrentYear = time.Now().Year()
	data.IsDev = r.isDev
	data.Path = req.URL.Path
	if data.Lang == "" {
		data.Lang = middleware.GetLang(req)
	}
	data.Languages = i18n.SupportedLanguages

	data.Session = auth.FromRequest(req)
	if data.User == nil {
		data.User = data.Session.User
	}
	if data.Errors == nil {
		data.Errors = model.FieldErrors{}
	}

	if data.Flash == "" && r.sessionManager != nil {
		if flash := r.sessionManager.PopString(req.Context(), sessionKeyFlash); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), sessionKeyFlashType)
		}
	}
	if data.Flash != "" && data.FlashType == "" {
		data.FlashType = FlashInfo
	}
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), sessionKeyFlash, message)
		r.sessionManager.Put(req.Context(), sessionKeyFlashType, flashType)
	}
}
