// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"cmp"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/content"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
)

// InquiryPollSeconds is how often the dashboard refreshes its list.
const InquiryPollSeconds = 5

// InquiryListData holds data for the inquiries dashboard.
type InquiryListData struct {
	Inquiries   []model.Inquiry
	Type        string
	Types       []string
	Statuses    []string
	Counts      map[string]int
	PollSeconds int
	PollURL     string
}

// inquiryType reads the type filter; anything unknown lists all.
func inquiryType(r *http.Request) string {
	typ := r.URL.Query().Get("type")
	if !slices.Contains(model.InquiryTypes, typ) {
		return content.CategoryAll
	}
	return typ
}

// sortInquiries orders inquiries newest first without touching the input.
func sortInquiries(in []model.Inquiry) []model.Inquiry {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b model.Inquiry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// countStatuses counts inquiries per status; a missing status is pending.
func countStatuses(in []model.Inquiry) map[string]int {
	counts := make(map[string]int, len(model.InquiryStatuses))
	for _, s := range model.InquiryStatuses {
		counts[s] = 0
	}
	for _, i := range in {
		counts[cmp.Or(i.Status, model.InquiryPending)]++
	}
	return counts
}

// ListInquiries handles GET /admin/inquiries.
func (h *AdminHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	typ := inquiryType(r)
	td := render.TemplateData{
		Title:       i18n.T(lang, "admin.inquiries"),
		Breadcrumbs: adminTrail(lang, "admin.inquiries", redirectAdminInquiries, ""),
	}

	inquiries, err := h.api.ListInquiries(r.Context(), auth.FromRequest(r).Credentials, typ)
	if err != nil {
		slog.Warn("listing inquiries failed", "category", model.EventCategoryAPI, "error", err)
		td.Error = errorText(r, err, "inquiry.load_failed")
	}
	inquiries = sortInquiries(inquiries)

	pollURL := redirectAdminInquiries + ".json"
	if typ != content.CategoryAll {
		pollURL += "?type=" + typ
	}
	td.Data = InquiryListData{
		Inquiries:   inquiries,
		Type:        typ,
		Types:       model.InquiryTypes,
		Statuses:    model.InquiryStatuses,
		Counts:      countStatuses(inquiries),
		PollSeconds: InquiryPollSeconds,
		PollURL:     pollURL,
	}
	h.renderer.RenderPage(w, r, "admin/inquiries", td)
}

// InquiriesJSON handles GET /admin/inquiries.json, the polling endpoint of
// the dashboard.
func (h *AdminHandler) InquiriesJSON(w http.ResponseWriter, r *http.Request) {
	inquiries, err := h.api.ListInquiries(r.Context(), auth.FromRequest(r).Credentials, inquiryType(r))
	if err != nil {
		status := apiStatus(err)
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
		writeJSONError(w, status, errorText(r, err, "inquiry.load_failed"))
		return
	}
	inquiries = sortInquiries(inquiries)
	writeJSONSuccess(w, map[string]any{
		"inquiries": inquiries,
		"counts":    countStatuses(inquiries),
	})
}

// SetInquiryStatus handles POST /admin/inquiries/{id}/status.
func (h *AdminHandler) SetInquiryStatus(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	id := chi.URLParam(r, "id")
	status := r.FormValue("status")
	back := backTo(r, redirectAdminInquiries)

	if !model.ValidInquiryStatus(status) {
		if middleware.WantsJSON(r) {
			writeJSONError(w, http.StatusUnprocessableEntity, i18n.T(lang, model.MsgStatusInvalid))
			return
		}
		flashError(w, r, h.renderer, back, i18n.T(lang, model.MsgStatusInvalid))
		return
	}

	if err := h.api.SetInquiryStatus(r.Context(), auth.FromRequest(r).Credentials, id, status); err != nil {
		slog.Warn("changing inquiry status failed", "category", model.EventCategoryAPI, "inquiry_id", id, "error", err)
		msg := errorText(r, err, "inquiry.status_failed")
		if middleware.WantsJSON(r) {
			writeJSONError(w, http.StatusBadGateway, msg)
			return
		}
		flashError(w, r, h.renderer, back, msg)
		return
	}

	h.logEvent(r, model.EventLevelInfo, model.EventCategoryContent, "Inquiry status changed", map[string]any{"inquiry_id": id, "status": status})
	if middleware.WantsJSON(r) {
		writeJSONSuccess(w, map[string]any{"id": id, "status": status})
		return
	}
	flashSuccess(w, r, h.renderer, back, i18n.T(lang, "inquiry.status_changed"))
}
