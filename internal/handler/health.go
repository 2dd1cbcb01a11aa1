// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/cache"
)

// checkTimeout bounds each dependency check.
const checkTimeout = 2 * time.Second

// HealthHandler serves /health for load balancers and admins.
type HealthHandler struct {
	db      *sql.DB
	cache   *cache.Manager
	version string
	started time.Time
}

// NewHealthHandler returns a HealthHandler reporting version.
func NewHealthHandler(db *sql.DB, cm *cache.Manager, version string) *HealthHandler {
	return &HealthHandler{db: db, cache: cm, version: version, started: time.Now()}
}

// HealthStatus is the /health body. Anonymous callers only get Status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp,omitzero"`
	Uptime    string           `json:"uptime,omitempty"`
	Version   string           `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check is the outcome of one dependency check.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo is added with ?verbose=true.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
}

type dependency struct {
	name    string
	ping    func(context.Context) error
	failure string
}

// Health handles GET /health. Any failing check makes it 503 "degraded".
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := h.runChecks(r.Context(), []dependency{
		{"database", h.db.PingContext, "database unreachable"},
		{"cache", h.cache.Ping, h.cache.BackendType() + " unreachable"},
	})

	status := HealthStatus{Status: "healthy"}
	code := http.StatusOK
	for _, c := range checks {
		if c.Status != "healthy" {
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	if auth.FromRequest(r).IsAdmin() {
		status.Timestamp = time.Now().UTC()
		status.Uptime = time.Since(h.started).Round(time.Second).String()
		status.Version = h.version
		status.Checks = checks
		if r.URL.Query().Get("verbose") == "true" {
			status.System = &SystemInfo{
				GoVersion:    runtime.Version(),
				NumGoroutine: runtime.NumGoroutine(),
				NumCPU:       runtime.NumCPU(),
			}
		}
	}

	writeJSON(w, code, status)
}

// runChecks pings every dependency at once.
func (h *HealthHandler) runChecks(ctx context.Context, deps []dependency) map[string]Check {
	results := make([]Check, len(deps))
	var g errgroup.Group
	for i, p := range deps {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()

			start := time.Now()
			err := p.ping(pctx)
			results[i] = Check{Status: "healthy", Latency: time.Since(start).String()}
			if err != nil {
				results[i].Status, results[i].Message = "unhealthy", p.failure
			}
			return nil
		})
	}
	_ = g.Wait()

	checks := make(map[string]Check, len(deps))
	for i, p := range deps {
		checks[p.name] = results[i]
	}
	return checks
}
