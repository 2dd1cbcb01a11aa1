// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"testing"
	"time"
)

type fakeRefresher struct{ calls int }

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		panic("refresh called without deadline")
	}
	return nil
}

type fakePruner struct {
	olderThan time.Duration
}

func (f *fakePruner) DeleteOldEvents(_ context.Context, olderThan time.Duration) (int64, error) {
	f.olderThan = olderThan
	return 3, nil
}

func TestNew(t *testing.T) {
	logger := testLogger()

	s := New(logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.logger != logger {
		t.Error("New() scheduler has wrong logger")
	}
	if s.Registry() == nil {
		t.Error("New() scheduler has nil registry")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testLogger())
	s.Start()
	s.Stop()
}

func TestRegisterDefaults(t *testing.T) {
	s := New(testLogger())
	refresher := &fakeRefresher{}
	pruner := &fakePruner{}

	err := s.RegisterDefaults(Config{EventRetention: 30 * 24 * time.Hour}, refresher, pruner)
	if err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}

	jobs := s.Registry().List()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Name != JobCacheRefresh || jobs[0].Schedule != DefaultRefreshSchedule {
		t.Errorf("unexpected first job: %+v", jobs[0])
	}
	if jobs[1].Name != JobEventCleanup || jobs[1].Schedule != DefaultCleanupSchedule {
		t.Errorf("unexpected second job: %+v", jobs[1])
	}

	if err := s.Registry().TriggerNow(JobCacheRefresh); err != nil {
		t.Fatalf("TriggerNow(refresh): %v", err)
	}
	if refresher.calls != 1 {
		t.Errorf("refresh calls = %d, want 1", refresher.calls)
	}

	if err := s.Registry().TriggerNow(JobEventCleanup); err != nil {
		t.Fatalf("TriggerNow(cleanup): %v", err)
	}
	if pruner.olderThan != 30*24*time.Hour {
		t.Errorf("retention = %v, want 720h", pruner.olderThan)
	}
}

func TestRegisterDefaultsWithoutRetention(t *testing.T) {
	s := New(testLogger())
	if err := s.RegisterDefaults(Config{RefreshSchedule: "@every 1m"}, &fakeRefresher{}, &fakePruner{}); err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}
	jobs := s.Registry().List()
	if len(jobs) != 1 || jobs[0].Schedule != "@every 1m" {
		t.Errorf("unexpected jobs: %+v", jobs)
	}
}

func TestRegisterDefaultsBadSchedule(t *testing.T) {
	s := New(testLogger())
	if err := s.RegisterDefaults(Config{RefreshSchedule: "every now and then"}, &fakeRefresher{}, nil); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

type countingPruner struct {
	n     int
	calls int
}

func (p *countingPruner) Prune(time.Time) int {
	p.calls++
	return p.n
}

func TestRegisterPruners(t *testing.T) {
	s := New(testLogger())
	a, b := &countingPruner{n: 2}, &countingPruner{}

	if err := s.RegisterPruners("", a, b); err != nil {
		t.Fatalf("RegisterPruners: %v", err)
	}
	jobs := s.Registry().List()
	if len(jobs) != 1 || jobs[0].Name != JobLimiterPrune || jobs[0].Schedule != DefaultPruneSchedule {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}

	if err := s.Registry().TriggerNow(JobLimiterPrune); err != nil {
		t.Fatalf("TriggerNow: %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d, %d, want 1, 1", a.calls, b.calls)
	}
}
