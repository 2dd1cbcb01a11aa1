// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/render"
	"github.com/olegiv/hanmaru/internal/service"
	"github.com/olegiv/hanmaru/internal/store"
	"github.com/olegiv/hanmaru/internal/uikit"
)

const (
	// EventsPerPage is the page size of /admin/events.
	EventsPerPage = 25
	// detailsFold is the details length above which a row folds them away.
	detailsFold = 80
)

// EventsHandler serves the admin event log.
type EventsHandler struct {
	renderer *render.Renderer
	events   *service.EventService
}

// NewEventsHandler returns an EventsHandler.
func NewEventsHandler(renderer *render.Renderer, es *service.EventService) *EventsHandler {
	return &EventsHandler{renderer: renderer, events: es}
}

// eventRow is a stored event with its metadata flattened for a table cell.
type eventRow struct {
	store.Event
	Details     string
	DetailsLong bool
}

func eventRows(events []store.Event) []eventRow {
	rows := make([]eventRow, 0, len(events))
	for _, e := range events {
		d := describeMetadata(e.Metadata)
		rows = append(rows, eventRow{Event: e, Details: d, DetailsLong: len(d) > detailsFold})
	}
	return rows
}

// describeMetadata turns a metadata object into "key: value" pairs sorted by
// key, so {"path":"/admin","error":"x"} reads "error: x, path: /admin".
// Text that is not a JSON object comes back unchanged.
func describeMetadata(raw string) string {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return raw
	}

	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		switch v := fields[k].(type) {
		case string, float64, bool:
			fmt.Fprint(&b, v)
		default:
			enc, _ := json.Marshal(v)
			b.Write(enc)
		}
	}
	return b.String()
}

// EventsListData is the view model of admin/events.
type EventsListData struct {
	Events     []eventRow
	Total      int64
	Level      string
	Levels     []string
	Pagination uikit.Pagination
}

// List handles GET /admin/events. An unknown ?level= shows every level.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)

	query := url.Values{}
	level := r.URL.Query().Get("level")
	if model.IsEventLevel(level) {
		query.Set("level", level)
	} else {
		level = ""
	}

	page, err := h.events.List(r.Context(), level, uikit.ParsePage(r), EventsPerPage)
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	h.renderer.RenderPage(w, r, "admin/events", render.TemplateData{
		Title: i18n.T(lang, "admin.events"),
		Data: EventsListData{
			Events:     eventRows(page.Events),
			Total:      page.Total,
			Level:      level,
			Levels:     model.EventLevels,
			Pagination: uikit.NewPagination(page.Page, int(page.Total), EventsPerPage, redirectAdminEvents, query),
		},
		Breadcrumbs: adminTrail(lang, "admin.events", redirectAdminEvents, ""),
	})
}
