// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging mirrors warnings and errors into the event log table so
// administrators can review them on the events page.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/store"
)

// writeTimeout bounds one event insert.
const writeTimeout = 2 * time.Second

// categoryHints guess the category of records logged without one. The
// first entry with a word found in the message wins.
var categoryHints = []struct {
	category string
	words    []string
}{
	{model.EventCategoryAuth, []string{"auth", "login", "logout", "sign", "verif", "access denied"}},
	{model.EventCategoryAPI, []string{"api", "backend", "upstream"}},
	{model.EventCategoryContent, []string{"blog", "course", "about", "success", "inquir", "content"}},
	{model.EventCategoryCache, []string{"cache"}},
	{model.EventCategoryConfig, []string{"config", "setting"}},
}

// EventLogHandler passes every record to the wrapped handler and also
// stores records at or above its level in the event log.
type EventLogHandler struct {
	next    slog.Handler
	queries *store.Queries
	min     slog.Level
	attrs   []slog.Attr
	prefix  string
}

// NewEventLogHandler stores warnings and errors.
func NewEventLogHandler(next slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(next, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel stores records at or above level.
func NewEventLogHandlerWithLevel(next slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{next: next, queries: store.New(db), min: level}
}

func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min || h.next.Enabled(ctx, level)
}

func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if h.next.Enabled(ctx, r.Level) {
		err = h.next.Handle(ctx, r)
	}
	if r.Level >= h.min {
		h.store(ctx, r)
	}
	return err
}

func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.next = h.next.WithAttrs(attrs)
	c.attrs = flatten(append([]slog.Attr(nil), h.attrs...), h.prefix, attrs)
	return &c
}

func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.next = h.next.WithGroup(name)
	c.prefix = h.prefix + name + "."
	return &c
}

// flatten appends attrs to dst with group names folded into dotted keys.
func flatten(dst []slog.Attr, prefix string, attrs []slog.Attr) []slog.Attr {
	for _, a := range attrs {
		v := a.Value.Resolve()
		if v.Kind() == slog.KindGroup {
			p := prefix
			if a.Key != "" {
				p += a.Key + "."
			}
			dst = flatten(dst, p, v.Group())
			continue
		}
		dst = append(dst, slog.Attr{Key: prefix + a.Key, Value: v})
	}
	return dst
}

// store inserts r. The request may be over by now, so the insert keeps
// the context values but not its cancellation.
func (h *EventLogHandler) store(ctx context.Context, r slog.Record) {
	attrs := append([]slog.Attr(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = flatten(attrs, h.prefix, []slog.Attr{a})
		return true
	})

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	_, _ = h.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     eventLevel(r.Level),
		Category:  category(r.Message, attrs),
		Message:   r.Message,
		RequestID: middleware.GetReqID(ctx),
		Metadata:  metadata(attrs),
		CreatedAt: r.Time,
	})
}

func eventLevel(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return model.EventLevelError
	case l >= slog.LevelWarn:
		return model.EventLevelWarning
	}
	return model.EventLevelInfo
}

// category is the "category" attribute, or a guess from the message.
func category(msg string, attrs []slog.Attr) string {
	for _, a := range attrs {
		if a.Key == "category" {
			return a.Value.String()
		}
	}
	msg = strings.ToLower(msg)
	for _, hint := range categoryHints {
		for _, w := range hint.words {
			if strings.Contains(msg, w) {
				return hint.category
			}
		}
	}
	return model.EventCategorySystem
}

// metadata is the attributes other than category as a JSON object of
// strings.
func metadata(attrs []slog.Attr) string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Key != "category" {
			m[a.Key] = a.Value.String()
		}
	}
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}
