// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"fmt"
	"strings"
)

// privatePaths hold account and admin pages.
var privatePaths = []string{"/admin", "/signin", "/signup", "/profile", "/saved", "/verify-email"}

// Robots renders robots.txt. A closed site turns every crawler away, which
// is what non-production deployments serve; an open one hides privatePaths
// and points at the sitemap of siteURL.
func Robots(siteURL string, open bool) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	if !open {
		b.WriteString("Disallow: /\n")
		return b.String()
	}
	for _, p := range privatePaths {
		fmt.Fprintf(&b, "Disallow: %s\n", p)
	}
	b.WriteString("Allow: /\n")
	if siteURL != "" {
		fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", strings.TrimSuffix(siteURL, "/"))
	}
	return b.String()
}
