// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the background jobs: refreshing the public content
// cache, pruning the event log and forgetting idle rate limits.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job names.
const (
	JobCacheRefresh = "cache_refresh"
	JobEventCleanup = "event_cleanup"
	JobLimiterPrune = "limiter_prune"
)

// Default schedules.
const (
	DefaultRefreshSchedule = "*/5 * * * *"
	DefaultCleanupSchedule = "@daily"
	DefaultPruneSchedule   = "@every 10m"
)

// jobTimeout bounds a single run.
const jobTimeout = 2 * time.Minute

// Refresher reloads cached content.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// EventPruner deletes old event log entries.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Pruner forgets idle in-memory state, such as per-IP rate limiters.
type Pruner interface {
	Prune(now time.Time) int
}

// Config selects the schedules and the event retention.
type Config struct {
	RefreshSchedule string
	CleanupSchedule string
	EventRetention  time.Duration
}

// Scheduler owns the cron instance and its registry.
type Scheduler struct {
	cron     *cron.Cron
	registry *Registry
	logger   *slog.Logger
}

// New creates a new scheduler instance.
func New(logger *slog.Logger) *Scheduler {
	c := cron.New()
	return &Scheduler{
		cron:     c,
		registry: NewRegistry(c, logger),
		logger:   logger,
	}
}

// Registry returns the job registry.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// RegisterDefaults adds the cache refresh and event cleanup jobs.
func (s *Scheduler) RegisterDefaults(cfg Config, refresher Refresher, pruner EventPruner) error {
	if cfg.RefreshSchedule == "" {
		cfg.RefreshSchedule = DefaultRefreshSchedule
	}
	if cfg.CleanupSchedule == "" {
		cfg.CleanupSchedule = DefaultCleanupSchedule
	}

	if refresher != nil {
		err := s.registry.Register(JobCacheRefresh, "Reload public content into the cache", cfg.RefreshSchedule, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			return refresher.Refresh(ctx)
		})
		if err != nil {
			return err
		}
	}

	if pruner != nil && cfg.EventRetention > 0 {
		err := s.registry.Register(JobEventCleanup, "Delete old event log entries", cfg.CleanupSchedule, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			n, err := pruner.DeleteOldEvents(ctx, cfg.EventRetention)
			if err != nil {
				return err
			}
			if n > 0 {
				s.logger.Info("old events deleted", "count", n)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RegisterPruners adds one job that prunes every p on schedule.
func (s *Scheduler) RegisterPruners(schedule string, ps ...Pruner) error {
	if schedule == "" {
		schedule = DefaultPruneSchedule
	}
	return s.registry.Register(JobLimiterPrune, "Forget idle rate limits and sign-in failures", schedule, func() error {
		now := time.Now()
		dropped := 0
		for _, p := range ps {
			dropped += p.Prune(now)
		}
		if dropped > 0 {
			s.logger.Debug("limiters pruned", "count", dropped)
		}
		return nil
	})
}

// Start begins running the registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
