// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/seo"
	"github.com/olegiv/hanmaru/internal/service"
)

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	catalog     *service.Catalog
	disallowAll bool
}

// NewSEOHandler creates a new SEOHandler. With disallowAll set, robots.txt
// asks crawlers to stay away from the whole site.
func NewSEOHandler(catalog *service.Catalog, disallowAll bool) *SEOHandler {
	return &SEOHandler{catalog: catalog, disallowAll: disallowAll}
}

// siteURL is the origin the request was made to.
func siteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// Sitemap handles GET /sitemap.xml. Sections whose read fails are left
// out rather than failing the whole sitemap.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var entries []seo.Entry

	if courses, err := h.catalog.Courses(ctx); err == nil {
		for _, c := range courses {
			entries = append(entries, seo.Entry{Path: RouteCourses + "/" + c.ID, UpdatedAt: c.CreatedAt})
		}
	} else {
		slog.Warn("sitemap: listing courses failed", "category", model.EventCategoryAPI, "error", err)
	}

	if posts, err := h.catalog.Blogs(ctx); err == nil {
		for _, p := range posts {
			updated := p.UpdatedAt
			if updated.IsZero() {
				updated = p.CreatedAt
			}
			entries = append(entries, seo.Entry{Path: PostURL(p), UpdatedAt: updated})
		}
	} else {
		slog.Warn("sitemap: listing blogs failed", "category", model.EventCategoryAPI, "error", err)
	}

	body, err := seo.Sitemap(siteURL(r), entries)
	if err != nil {
		logAndInternalError(w, "failed to generate sitemap", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(body)
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.Robots(siteURL(r), !h.disallowAll)))
}
