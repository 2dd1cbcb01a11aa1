// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/cache"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
	"github.com/olegiv/hanmaru/internal/service"
)

// CacheHandler serves the admin button that empties the read cache.
type CacheHandler struct {
	renderer *render.Renderer
	cache    *cache.Manager
	events   *service.EventService
}

// NewCacheHandler returns a CacheHandler. es may be nil.
func NewCacheHandler(renderer *render.Renderer, cm *cache.Manager, es *service.EventService) *CacheHandler {
	return &CacheHandler{renderer: renderer, cache: cm, events: es}
}

// Clear handles POST /admin/cache/clear. The next public read refetches
// from the API.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	back := backTo(r, redirectAdmin)

	if h.cache == nil {
		flashError(w, r, h.renderer, back, i18n.T(lang, "cache.not_initialized"))
		return
	}
	if err := h.cache.ClearAll(r.Context()); err != nil {
		slog.Error("clearing cache failed", "category", model.EventCategoryCache, "error", err)
		flashError(w, r, h.renderer, back, i18n.T(lang, "cache.clear_failed"))
		return
	}

	userID := auth.FromRequest(r).UserID()
	slog.Info("cache cleared", "category", model.EventCategoryCache, "cleared_by", userID)
	if h.events != nil {
		_ = h.events.LogInfo(r.Context(), model.EventCategoryCache, "All caches cleared", chimw.GetReqID(r.Context()), map[string]any{
			"user_id":   userID,
			"client_ip": middleware.GetClientIP(r),
		})
	}
	flashSuccess(w, r, h.renderer, back, i18n.T(lang, "cache.cleared"))
}
