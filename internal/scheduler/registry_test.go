// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/robfig/cron/v3"
)

// testLogger creates a test logger that discards output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

func TestRegister(t *testing.T) {
	cronInst := cron.New()
	registry := NewRegistry(cronInst, testLogger())

	if err := registry.Register("test-job", "Test job description", "@every 1h", func() error { return nil }); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	jobs := registry.List()
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	job := jobs[0]
	if job.Name != "test-job" {
		t.Errorf("job.Name = %q, want %q", job.Name, "test-job")
	}
	if job.Description != "Test job description" {
		t.Errorf("job.Description = %q, want %q", job.Description, "Test job description")
	}
	if job.Schedule != "@every 1h" {
		t.Errorf("job.Schedule = %q, want %q", job.Schedule, "@every 1h")
	}
	if !job.LastRun.IsZero() {
		t.Error("job.LastRun should be zero before the first run")
	}
	if len(cronInst.Entries()) != 1 {
		t.Errorf("cron entries = %d, want 1", len(cronInst.Entries()))
	}
}

func TestRegisterRejects(t *testing.T) {
	registry := NewRegistry(cron.New(), testLogger())

	if err := registry.Register("bad", "", "not a schedule", func() error { return nil }); err == nil {
		t.Error("expected error for invalid schedule")
	}
	if err := registry.Register("job", "", "@hourly", func() error { return nil }); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := registry.Register("job", "", "@hourly", func() error { return nil }); err == nil {
		t.Error("expected error for duplicate name")
	}
}

func TestListSortedByName(t *testing.T) {
	registry := NewRegistry(cron.New(), testLogger())
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := registry.Register(name, "", "@hourly", func() error { return nil }); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}

	jobs := registry.List()
	want := []string{"alpha", "mid", "zeta"}
	for i, j := range jobs {
		if j.Name != want[i] {
			t.Errorf("jobs[%d] = %q, want %q", i, j.Name, want[i])
		}
	}
}

func TestTriggerNow(t *testing.T) {
	registry := NewRegistry(cron.New(), testLogger())

	calls := 0
	fail := false
	if err := registry.Register("job", "", "@hourly", func() error {
		calls++
		if fail {
			return errors.New("boom")
		}
		return nil
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := registry.TriggerNow("job"); err != nil {
		t.Fatalf("TriggerNow failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	info := registry.List()[0]
	if info.LastRun.IsZero() || info.LastError != "" {
		t.Errorf("unexpected job info after success: %+v", info)
	}

	fail = true
	if err := registry.TriggerNow("job"); err == nil {
		t.Error("expected error from failing job")
	}
	if got := registry.List()[0].LastError; got != "boom" {
		t.Errorf("LastError = %q, want %q", got, "boom")
	}

	if err := registry.TriggerNow("missing"); err == nil {
		t.Error("expected error for unknown job")
	}
}

func TestUnregister(t *testing.T) {
	cronInst := cron.New()
	registry := NewRegistry(cronInst, testLogger())
	if err := registry.Register("job", "", "@hourly", func() error { return nil }); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	registry.Unregister("job")
	registry.Unregister("job")

	if len(registry.List()) != 0 {
		t.Error("job should be removed from registry")
	}
	if len(cronInst.Entries()) != 0 {
		t.Error("job should be removed from cron")
	}
}
