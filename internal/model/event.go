// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// Severity of an entry in the admin event log.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories. The slog bridge files log records under the same names.
const (
	EventCategoryAuth    = "auth"
	EventCategoryAPI     = "api"
	EventCategoryContent = "content"
	EventCategoryConfig  = "config"
	EventCategorySystem  = "system"
	EventCategoryCache   = "cache"
)

// EventLevels is the order of the level filter on the event log page.
var EventLevels = []string{EventLevelInfo, EventLevelWarning, EventLevelError}

// IsEventLevel reports whether s is one of EventLevels.
func IsEventLevel(s string) bool {
	return slices.Contains(EventLevels, s)
}
