// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Manager owns the cache backend and records when it was last cleared.
type Manager struct {
	backend     Cacher
	backendType string
	defaultTTL  time.Duration

	mu          sync.RWMutex
	lastCleared time.Time
}

// NewManager wraps a backend.
func NewManager(backend Cacher, backendType string, defaultTTL time.Duration) *Manager {
	return &Manager{backend: backend, backendType: backendType, defaultTTL: defaultTTL}
}

// Backend returns the underlying cache.
func (m *Manager) Backend() Cacher {
	return m.backend
}

// BackendType returns "memory" or "redis".
func (m *Manager) BackendType() string {
	return m.backendType
}

// DefaultTTL returns the configured entry lifetime.
func (m *Manager) DefaultTTL() time.Duration {
	return m.defaultTTL
}

// ClearAll drops every cached entry.
func (m *Manager) ClearAll(ctx context.Context) error {
	if err := m.backend.Clear(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.lastCleared = time.Now()
	m.mu.Unlock()
	slog.Info("cache cleared", "category", "cache", "backend", m.backendType)
	return nil
}

// Invalidate drops keys and every key under prefixes. Failures are logged
// only; a stale entry expires on its own.
func (m *Manager) Invalidate(ctx context.Context, keys []string, prefixes ...string) {
	for _, key := range keys {
		if err := m.backend.Delete(ctx, key); err != nil {
			slog.Warn("cache delete failed", "category", "cache", "key", key, "error", err)
		}
	}
	for _, prefix := range prefixes {
		if err := m.backend.DeleteByPrefix(ctx, prefix); err != nil {
			slog.Warn("cache delete failed", "category", "cache", "prefix", prefix, "error", err)
		}
	}
}

// Info summarises the cache for the admin dashboard.
type Info struct {
	Backend     string
	Stats       Stats
	HasStats    bool
	LastCleared time.Time
}

// Info returns usage statistics when the backend provides them.
func (m *Manager) Info() Info {
	m.mu.RLock()
	info := Info{Backend: m.backendType, LastCleared: m.lastCleared}
	m.mu.RUnlock()
	if sp, ok := m.backend.(StatsProvider); ok {
		info.Stats = sp.Stats()
		info.HasStats = true
	}
	return info
}

// Ping checks a networked backend. The memory backend always answers.
func (m *Manager) Ping(ctx context.Context) error {
	if p, ok := m.backend.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
