// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/testutil"
)

type storedEvent struct {
	level, category, message, requestID, metadata string
}

func onlyEvent(t *testing.T, db *sql.DB) storedEvent {
	t.Helper()
	var e storedEvent
	require.NoError(t, db.QueryRow(
		"SELECT level, category, message, request_id, metadata FROM events",
	).Scan(&e.level, &e.category, &e.message, &e.requestID, &e.metadata))
	return e
}

func TestLogEventStoresRow(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db)

	require.NoError(t, svc.LogEvent(context.Background(), model.EventLevelInfo, model.EventCategoryContent,
		"Course published", "req-1", map[string]any{"course_id": "c1"}))

	assert.Equal(t, storedEvent{
		level:     model.EventLevelInfo,
		category:  model.EventCategoryContent,
		message:   "Course published",
		requestID: "req-1",
		metadata:  `{"course_id":"c1"}`,
	}, onlyEvent(t, db))
}

func TestLogEventMetadataFallsBackToEmptyObject(t *testing.T) {
	tests := map[string]map[string]any{
		"nil":         nil,
		"empty":       {},
		"unencodable": {"ch": make(chan int)},
	}
	for name, meta := range tests {
		t.Run(name, func(t *testing.T) {
			db := testutil.TestDB(t)
			require.NoError(t, NewEventService(db).LogEvent(context.Background(),
				model.EventLevelWarning, model.EventCategoryAPI, "x", "", meta))
			assert.Equal(t, "{}", onlyEvent(t, db).metadata)
		})
	}
}

func TestLogHelpersSetLevel(t *testing.T) {
	tests := []struct {
		level string
		log   func(*EventService, context.Context) error
	}{
		{model.EventLevelInfo, func(s *EventService, ctx context.Context) error {
			return s.LogInfo(ctx, model.EventCategoryContent, "Course created", "", nil)
		}},
		{model.EventLevelWarning, func(s *EventService, ctx context.Context) error {
			return s.LogWarning(ctx, model.EventCategoryAPI, "Slow API", "", nil)
		}},
		{model.EventLevelError, func(s *EventService, ctx context.Context) error {
			return s.LogError(ctx, model.EventCategoryAuth, "Sign-in failed", "", nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			db := testutil.TestDB(t)
			require.NoError(t, tt.log(NewEventService(db), context.Background()))
			assert.Equal(t, tt.level, onlyEvent(t, db).level)
		})
	}
}

func TestListPagesAndFilters(t *testing.T) {
	svc := NewEventService(testutil.TestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := range 5 {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		level := model.EventLevelInfo
		if i%2 == 0 {
			level = model.EventLevelError
		}
		require.NoError(t, svc.LogEvent(ctx, level, model.EventCategorySystem, "event", "", map[string]any{"n": i}))
	}

	page, err := svc.List(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Len(t, page.Events, 2)
	assert.Equal(t, 3, page.TotalPages())
	assert.Equal(t, `{"n":4}`, page.Events[0].Metadata, "newest first")

	page, err = svc.List(ctx, model.EventLevelError, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Events, 3)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultEventsPerPage, page.PerPage)

	page, err = svc.List(ctx, "bogus", 3, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Len(t, page.Events, 1)
}

func TestEventPageTotalPages(t *testing.T) {
	assert.Equal(t, 1, EventPage{}.TotalPages())
	assert.Equal(t, 1, EventPage{Total: 3}.TotalPages())
	assert.Equal(t, 2, EventPage{Total: 51, PerPage: 50}.TotalPages())
}

func TestDeleteOldEvents(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{now.Add(-72 * time.Hour), now.Add(-48 * time.Hour), now.Add(-time.Hour)} {
		svc.now = func() time.Time { return at }
		require.NoError(t, svc.LogInfo(ctx, model.EventCategorySystem, "e", "", nil))
	}
	svc.now = func() time.Time { return now }

	n, err := svc.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var left int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM events").Scan(&left))
	assert.Equal(t, 1, left)
}
