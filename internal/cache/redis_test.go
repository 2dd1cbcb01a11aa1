// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// newTestRedis connects to HANMARU_TEST_REDIS_URL or skips.
func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("HANMARU_TEST_REDIS_URL")
	if url == "" {
		t.Skip("HANMARU_TEST_REDIS_URL not set")
	}
	c, err := NewRedisCacheFromURL(url, "hanmaru-test:", time.Minute)
	if err != nil {
		t.Fatalf("connecting to redis: %v", err)
	}
	ctx := context.Background()
	_ = c.Clear(ctx)
	t.Cleanup(func() {
		_ = c.Clear(ctx)
		_ = c.Close()
	})
	return c
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if _, err := c.Get(ctx, "about"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get on empty cache: %v", err)
	}
	if err := c.Set(ctx, "about", []byte(`{"mainTitle":"Hanmaru"}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "about")
	if err != nil || string(got) != `{"mainTitle":"Hanmaru"}` {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := c.Delete(ctx, "about"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if has, _ := c.Has(ctx, "about"); has {
		t.Error("entry still present after Delete")
	}
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	for _, key := range []string{"courses:all", "courses:featured", "blogs:published"} {
		_ = c.Set(ctx, key, []byte("[]"), 0)
	}
	if err := c.DeleteByPrefix(ctx, "courses:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if st := c.Stats(); st.Items != 1 {
		t.Errorf("Items = %d, want 1", st.Items)
	}
	if has, _ := c.Has(ctx, "blogs:published"); !has {
		t.Error("unrelated key removed")
	}
}

func TestRedisCache_Closed(t *testing.T) {
	c := newTestRedis(t)
	_ = c.Close()

	if _, err := c.Get(context.Background(), "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after close: %v", err)
	}
}

func TestNewRedisCacheFromURL_Invalid(t *testing.T) {
	if _, err := NewRedisCacheFromURL("", "", 0); err == nil {
		t.Error("empty URL accepted")
	}
	if _, err := NewRedisCacheFromURL("http://localhost", "", 0); err == nil {
		t.Error("non-redis URL accepted")
	}
}
