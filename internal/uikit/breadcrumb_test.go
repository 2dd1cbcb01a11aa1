// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import "testing"

func TestTrail(t *testing.T) {
	crumbs := Trail("Home", "/", "Courses", "/courses", "TOPIK I", "")
	if len(crumbs) != 3 {
		t.Fatalf("len = %d, want 3", len(crumbs))
	}
	for i, c := range crumbs {
		if c.Active != (i == 2) {
			t.Errorf("crumb %d Active = %v", i, c.Active)
		}
	}
	if crumbs[1].URL != "/courses" {
		t.Errorf("URL = %q", crumbs[1].URL)
	}

	if got := Trail("Dangling"); len(got) != 0 {
		t.Errorf("odd pair gave %v", got)
	}
}
