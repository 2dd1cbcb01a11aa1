// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// Event is one row of the event log.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

const createEvent = `-- name: CreateEvent :one
INSERT INTO events (level, category, message, request_id, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, level, category, message, request_id, metadata, created_at
`

// CreateEventParams holds the columns of a new event.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	RequestID string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts an event and returns the stored row.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, createEvent,
		arg.Level,
		arg.Category,
		arg.Message,
		arg.RequestID,
		arg.Metadata,
		arg.CreatedAt.UTC(),
	)
	var i Event
	err := row.Scan(
		&i.ID,
		&i.Level,
		&i.Category,
		&i.Message,
		&i.RequestID,
		&i.Metadata,
		&i.CreatedAt,
	)
	return i, err
}

const listEvents = `-- name: ListEvents :many
SELECT id, level, category, message, request_id, metadata, created_at
FROM events
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

// ListEventsParams pages through the event log.
type ListEventsParams struct {
	Limit  int64
	Offset int64
}

// ListEvents returns events newest first.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]Event, error) {
	return q.queryEvents(ctx, listEvents, arg.Limit, arg.Offset)
}

const listEventsByLevel = `-- name: ListEventsByLevel :many
SELECT id, level, category, message, request_id, metadata, created_at
FROM events
WHERE level = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

// ListEventsByLevelParams pages through events of one level.
type ListEventsByLevelParams struct {
	Level  string
	Limit  int64
	Offset int64
}

// ListEventsByLevel returns events of the given level newest first.
func (q *Queries) ListEventsByLevel(ctx context.Context, arg ListEventsByLevelParams) ([]Event, error) {
	return q.queryEvents(ctx, listEventsByLevel, arg.Level, arg.Limit, arg.Offset)
}

func (q *Queries) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Event
	for rows.Next() {
		var i Event
		if err := rows.Scan(
			&i.ID,
			&i.Level,
			&i.Category,
			&i.Message,
			&i.RequestID,
			&i.Metadata,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countEvents = `-- name: CountEvents :one
SELECT COUNT(*) FROM events
`

// CountEvents returns the number of stored events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countEvents).Scan(&count)
	return count, err
}

const countEventsByLevel = `-- name: CountEventsByLevel :one
SELECT COUNT(*) FROM events WHERE level = ?
`

// CountEventsByLevel returns the number of stored events of level.
func (q *Queries) CountEventsByLevel(ctx context.Context, level string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countEventsByLevel, level).Scan(&count)
	return count, err
}

const deleteEventsBefore = `-- name: DeleteEventsBefore :execrows
DELETE FROM events WHERE created_at < ?
`

// DeleteEventsBefore removes events created before cutoff and reports how
// many rows were deleted.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteEventsBefore, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
