// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchTimeout bounds a shared fetch once it no longer follows the
// context of the caller that started it.
const FetchTimeout = 30 * time.Second

// Loader reads values of type T through a cache, JSON encoded. Concurrent
// misses on the same key share one fetch.
type Loader[T any] struct {
	backend Cacher
	ttl     time.Duration
	group   singleflight.Group
}

// NewLoader creates a loader over backend. Entries live for ttl.
func NewLoader[T any](backend Cacher, ttl time.Duration) *Loader[T] {
	return &Loader[T]{backend: backend, ttl: ttl}
}

// Load returns the cached value for key, or calls fetch and stores what it
// returns. A fetch error is returned as is and nothing is stored. A cache
// that fails to read or write is treated as a miss.
//
// The shared fetch runs detached from ctx, so a caller that goes away does
// not fail the others waiting on the same key; each caller still stops
// waiting when its own ctx is done.
func (l *Loader[T]) Load(ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := l.lookup(ctx, key); ok {
		return v, nil
	}

	ch := l.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FetchTimeout)
		defer cancel()

		if v, ok := l.lookup(fctx, key); ok {
			return v, nil
		}
		v, err := fetch(fctx)
		if err != nil {
			return v, err
		}
		l.store(fctx, key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (l *Loader[T]) lookup(ctx context.Context, key string) (T, bool) {
	var v T
	data, err := l.backend.Get(ctx, key)
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		slog.Warn("dropping undecodable cache entry", "category", "cache", "key", key, "error", err)
		_ = l.backend.Delete(ctx, key)
		return v, false
	}
	return v, true
}

func (l *Loader[T]) store(ctx context.Context, key string, v T) {
	data, err := json.Marshal(v)
	if err == nil {
		err = l.backend.Set(ctx, key, data, l.ttl)
	}
	if err != nil {
		slog.Warn("cache write failed", "category", "cache", "key", key, "error", err)
	}
}
