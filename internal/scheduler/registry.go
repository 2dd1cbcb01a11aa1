// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// registeredJob holds metadata about a registered cron job.
type registeredJob struct {
	name        string
	description string
	schedule    string
	entryID     cron.EntryID
	run         func() error

	lastRun   time.Time
	lastError string
	running   bool
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string
	Description string
	Schedule    string
	LastRun     time.Time
	NextRun     time.Time
	LastError   string
	Running     bool
}

// Registry keeps the jobs of one cron instance and the outcome of their
// last run.
type Registry struct {
	cron   *cron.Cron
	logger *slog.Logger
	mu     sync.RWMutex
	jobs   map[string]*registeredJob
}

// NewRegistry creates a registry over cronInst.
func NewRegistry(cronInst *cron.Cron, logger *slog.Logger) *Registry {
	return &Registry{
		cron:   cronInst,
		logger: logger,
		jobs:   make(map[string]*registeredJob),
	}
}

// Register validates schedule and adds run to the cron instance under name.
func (r *Registry) Register(name, description, schedule string, run func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[name]; exists {
		return fmt.Errorf("job already registered: %s", name)
	}

	job := &registeredJob{
		name:        name,
		description: description,
		schedule:    schedule,
		run:         run,
	}

	entryID, err := r.cron.AddFunc(schedule, func() { _ = r.execute(job) })
	if err != nil {
		return fmt.Errorf("invalid cron expression %q for %s: %w", schedule, name, err)
	}
	job.entryID = entryID
	r.jobs[name] = job

	r.logger.Debug("registered scheduled job", "name", name, "schedule", schedule)
	return nil
}

// execute runs job unless a previous run is still going.
func (r *Registry) execute(job *registeredJob) error {
	r.mu.Lock()
	if job.running {
		r.mu.Unlock()
		r.logger.Warn("skipping job, previous run still active", "category", "system", "name", job.name)
		return fmt.Errorf("job is already running: %s", job.name)
	}
	job.running = true
	r.mu.Unlock()

	start := time.Now()
	err := job.run()

	r.mu.Lock()
	job.running = false
	job.lastRun = start
	job.lastError = ""
	if err != nil {
		job.lastError = err.Error()
	}
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("scheduled job failed", "category", "system", "name", job.name, "error", err)
		return err
	}
	r.logger.Debug("scheduled job finished", "name", job.name, "duration", time.Since(start))
	return nil
}

// List returns all registered jobs sorted by name.
func (r *Registry) List() []JobInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]JobInfo, 0, len(r.jobs))
	for _, job := range r.jobs {
		info := JobInfo{
			Name:        job.name,
			Description: job.description,
			Schedule:    job.schedule,
			LastRun:     job.lastRun,
			LastError:   job.lastError,
			Running:     job.running,
		}
		if entry := r.cron.Entry(job.entryID); entry.Valid() {
			info.NextRun = entry.Next
		}
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// TriggerNow runs a job immediately in the caller's goroutine.
func (r *Registry) TriggerNow(name string) error {
	r.mu.RLock()
	job, ok := r.jobs[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}

	r.logger.Info("manually triggering job", "name", name)
	return r.execute(job)
}

// Unregister removes a job and its cron entry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[name]
	if !ok {
		return
	}
	r.cron.Remove(job.entryID)
	delete(r.jobs, name)

	r.logger.Debug("unregistered scheduled job", "name", name)
}
