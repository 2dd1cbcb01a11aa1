// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the operations that sit between the HTTP handlers
// and the content API: engagement actions, cached public reads, image
// uploads and the local event log.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/store"
)

// DefaultEventsPerPage is the page size of the admin event log.
const DefaultEventsPerPage = 50

// EventService writes to and reads from the local event log.
type EventService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewEventService returns an EventService over db.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db), now: time.Now}
}

// LogEvent stores one event. Metadata that cannot be encoded is stored as
// an empty object.
func (s *EventService) LogEvent(ctx context.Context, level, category, message, requestID string, metadata map[string]any) error {
	meta := []byte("{}")
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			meta = b
		}
	}

	if _, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		RequestID: requestID,
		Metadata:  string(meta),
		CreatedAt: s.now(),
	}); err != nil {
		slog.Debug("event not stored", "category", category, "error", err)
		return err
	}
	return nil
}

func (s *EventService) LogInfo(ctx context.Context, category, message, requestID string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, requestID, metadata)
}

func (s *EventService) LogWarning(ctx context.Context, category, message, requestID string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, requestID, metadata)
}

func (s *EventService) LogError(ctx context.Context, category, message, requestID string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelError, category, message, requestID, metadata)
}

// EventPage is one page of the event log.
type EventPage struct {
	Events  []store.Event
	Total   int64
	Page    int
	PerPage int
}

// TotalPages returns the number of pages, at least one.
func (p EventPage) TotalPages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// List returns a page of events, newest first. An unknown level lists all
// levels, and Total counts only what the filter matches.
func (s *EventService) List(ctx context.Context, level string, page, perPage int) (EventPage, error) {
	p := EventPage{Page: max(page, 1), PerPage: perPage}
	if p.PerPage <= 0 {
		p.PerPage = DefaultEventsPerPage
	}
	limit, offset := int64(p.PerPage), int64((p.Page-1)*p.PerPage)

	var err error
	if model.IsEventLevel(level) {
		if p.Total, err = s.queries.CountEventsByLevel(ctx, level); err == nil {
			p.Events, err = s.queries.ListEventsByLevel(ctx, store.ListEventsByLevelParams{
				Level: level, Limit: limit, Offset: offset,
			})
		}
	} else {
		if p.Total, err = s.queries.CountEvents(ctx); err == nil {
			p.Events, err = s.queries.ListEvents(ctx, store.ListEventsParams{Limit: limit, Offset: offset})
		}
	}
	if err != nil {
		return EventPage{}, fmt.Errorf("listing events: %w", err)
	}
	return p, nil
}

// DeleteOldEvents drops events older than olderThan and returns how many
// went.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, s.now().Add(-olderThan))
}
