// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

// Backend names.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// CacheConfig holds configuration for cache creation.
type CacheConfig struct {
	// Type is "memory" or "redis".
	Type string

	// RedisURL is used when Type is "redis", e.g. redis://localhost:6379/0.
	RedisURL string

	// Prefix is prepended to Redis keys.
	Prefix string

	DefaultTTL time.Duration

	// MaxSize bounds the memory cache (0 = unlimited).
	MaxSize int

	CleanupInterval time.Duration

	// FallbackToMemory uses the memory cache when Redis is unreachable.
	FallbackToMemory bool
}

// DefaultCacheConfig returns default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Type:             CacheBackendMemory,
		Prefix:           "hanmaru:",
		DefaultTTL:       5 * time.Minute,
		MaxSize:          1000,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
}

// Result is a created cache and the backend actually in use.
type Result struct {
	Cache       Cacher
	BackendType string
	IsFallback  bool
}

// NewCacheWithInfo creates the configured backend. When Redis cannot be
// reached and fallback is enabled, a memory cache is returned instead.
func NewCacheWithInfo(cfg CacheConfig) (Result, error) {
	if cfg.Type == CacheBackendRedis && cfg.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			return Result{Cache: rc, BackendType: CacheBackendRedis}, nil
		}
		if !cfg.FallbackToMemory {
			return Result{}, fmt.Errorf("connecting to redis at %s: %w", SanitizeRedisURL(cfg.RedisURL), err)
		}
		slog.Warn("redis unavailable, using memory cache",
			"category", "cache",
			"url", SanitizeRedisURL(cfg.RedisURL),
			"error", err,
		)
		return Result{Cache: newMemory(cfg), BackendType: CacheBackendMemory, IsFallback: true}, nil
	}
	return Result{Cache: newMemory(cfg), BackendType: CacheBackendMemory}, nil
}

func newMemory(cfg CacheConfig) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// SanitizeRedisURL masks the password of a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}
