// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache keeps public API reads for a short time so that list pages
// do not hit the content API on every request. Values are stored as bytes
// so the same code serves the in-memory and the Redis backend.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss is returned by Get for absent and expired keys.
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheClosed is returned by every call after Close.
	ErrCacheClosed = errors.New("cache closed")
)

// Cacher is a byte-valued cache backend safe for concurrent use.
type Cacher interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value for ttl; ttl <= 0 means the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) (bool, error)
	Close() error
}

// StatsProvider is a backend that counts its traffic.
type StatsProvider interface {
	Stats() Stats
	ResetStats()
}

// Stats is shown on the admin dashboard. Size is only known to the memory
// backend.
type Stats struct {
	Hits, Misses, Sets int64
	Items              int
	HitRate            float64
	Size               int64
}

// hitRate is hits as a percentage of all lookups.
func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return 100 * float64(hits) / float64(total)
}
