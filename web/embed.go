// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web carries the page templates and the built front-end assets
// inside the binary.
package web

import "embed"

var (
	// Templates holds templates/ with layouts, partials and pages.
	//go:embed all:templates
	Templates embed.FS

	// Static holds the bundled CSS, JS and images from static/dist.
	//go:embed all:static/dist
	Static embed.FS
)
