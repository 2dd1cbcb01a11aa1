// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestRobotsOpen(t *testing.T) {
	out := Robots("https://hanmaru.uz/", true)

	for _, want := range []string{
		"User-agent: *\n",
		"Disallow: /admin\n",
		"Disallow: /saved\n",
		"Allow: /\n",
		"Sitemap: https://hanmaru.uz/sitemap.xml\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("robots.txt missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Disallow: /\n") {
		t.Error("open site disallows everything")
	}
}

func TestRobotsClosed(t *testing.T) {
	if out := Robots("https://hanmaru.uz", false); out != "User-agent: *\nDisallow: /\n" {
		t.Errorf("robots.txt = %q", out)
	}
}

func TestRobotsWithoutSiteURL(t *testing.T) {
	if out := Robots("", true); strings.Contains(out, "Sitemap:") {
		t.Errorf("sitemap line without a site URL:\n%s", out)
	}
}
