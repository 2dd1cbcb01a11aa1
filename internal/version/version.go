// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version reports which build of hanmaru is running.
package version

import (
	"runtime/debug"
	"time"
)

// Info describes one build.
type Info struct {
	Version string
	Commit  string
	Built   time.Time
	// Dirty is set when the binary was built from a modified work tree.
	Dirty bool
}

// New builds Info from the strings the release build passes with -X.
// Values left at "", "dev" or "unknown" are taken from the VCS stamp the Go
// toolchain embeds, when there is one.
func New(ver, commit, built string) Info {
	info := Info{Version: known(ver), Commit: known(commit)}
	if t, err := time.Parse(time.RFC3339, built); err == nil {
		info.Built = t
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fill(bi)
	}
	return info
}

func (i *Info) fill(bi *debug.BuildInfo) {
	if i.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.Commit == "" {
				i.Commit = s.Value
			}
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil && i.Built.IsZero() {
				i.Built = t
			}
		case "vcs.modified":
			i.Dirty = s.Value == "true"
		}
	}
	if len(i.Commit) > 7 {
		i.Commit = i.Commit[:7]
	}
}

func known(s string) string {
	if s == "dev" || s == "unknown" {
		return ""
	}
	return s
}

// String is the version as shown on the health page, such as
// "v1.4.0 (3f2c9ab)". Builds without a version are "dev".
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	if i.Commit != "" {
		c := i.Commit
		if i.Dirty {
			c += "-dirty"
		}
		v += " (" + c + ")"
	}
	return v
}
