// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import (
	"runtime/debug"
	"testing"
	"time"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{}, "dev"},
		{Info{Version: "v1.4.0"}, "v1.4.0"},
		{Info{Version: "v1.4.0", Commit: "3f2c9ab"}, "v1.4.0 (3f2c9ab)"},
		{Info{Commit: "3f2c9ab", Dirty: true}, "dev (3f2c9ab-dirty)"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.info, got, tt.want)
		}
	}
}

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "3f2c9ab51e0d77c1"},
			{Key: "vcs.time", Value: "2026-02-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	var info Info
	info.fill(bi)

	if info.Version != "" {
		t.Errorf("Version = %q, (devel) should be ignored", info.Version)
	}
	if info.Commit != "3f2c9ab" {
		t.Errorf("Commit = %q", info.Commit)
	}
	if !info.Built.Equal(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Built = %v", info.Built)
	}
	if !info.Dirty {
		t.Error("Dirty not set")
	}
}

func TestFillKeepsLinkerValues(t *testing.T) {
	info := Info{Version: "v1.4.0", Commit: "aaaaaaa"}
	info.fill(&debug.BuildInfo{
		Main:     debug.Module{Version: "v0.0.0-2026"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "bbbbbbbbbb"}},
	})
	if info.Version != "v1.4.0" || info.Commit != "aaaaaaa" {
		t.Errorf("linker values overwritten: %+v", info)
	}
}

func TestNewParsesBuildTime(t *testing.T) {
	info := New("v1.4.0", "unknown", "2026-03-01T08:30:00Z")
	if info.Version != "v1.4.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Built.IsZero() {
		t.Error("Built not parsed")
	}
}
