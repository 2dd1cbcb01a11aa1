// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/cache"
	"github.com/olegiv/hanmaru/internal/handler"
	"github.com/olegiv/hanmaru/internal/model"
	"github.com/olegiv/hanmaru/internal/testutil"
)

func newHealthHandler(t *testing.T) (*handler.HealthHandler, func()) {
	t.Helper()
	db := testutil.TestDB(t)
	mem := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = mem.Close() })
	cm := cache.NewManager(mem, cache.CacheBackendMemory, time.Minute)
	return handler.NewHealthHandler(db, cm, "v1.0.0"), func() { _ = db.Close() }
}

func getHealth(t *testing.T, h *handler.HealthHandler, target string, admin bool) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if admin {
		req = req.WithContext(auth.WithSession(req.Context(), auth.Session{
			Status: auth.StatusReady,
			User:   &model.User{ID: "u1", Role: model.RoleAdmin},
		}))
	}
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthAnonymousGetsStatusOnly(t *testing.T) {
	h, _ := newHealthHandler(t)

	code, body := getHealth(t, h, "/health?verbose=true", false)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"status": "healthy"}, body)
}

func TestHealthAdminGetsChecks(t *testing.T) {
	h, _ := newHealthHandler(t)

	code, body := getHealth(t, h, "/health", true)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "v1.0.0", body["version"])
	assert.NotContains(t, body, "system")

	checks, ok := body["checks"].(map[string]any)
	require.True(t, ok, "checks = %v", body["checks"])
	for _, name := range []string{"database", "cache"} {
		c, _ := checks[name].(map[string]any)
		assert.Equal(t, "healthy", c["status"], name)
	}

	_, body = getHealth(t, h, "/health?verbose=true", true)
	assert.Contains(t, body, "system")
}

func TestHealthDegradedWhenDatabaseDown(t *testing.T) {
	h, closeDB := newHealthHandler(t)
	closeDB()

	code, body := getHealth(t, h, "/health", true)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body["status"])

	checks := body["checks"].(map[string]any)
	db := checks["database"].(map[string]any)
	assert.Equal(t, "unhealthy", db["status"])
	assert.Equal(t, "database unreachable", db["message"])
}
