// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit holds the request-independent template helpers and the
// pagination and breadcrumb view models.
package uikit

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// monthsUz are the Uzbek (Latin) month names, January first.
var monthsUz = [12]string{
	"yanvar", "fevral", "mart", "aprel", "may", "iyun",
	"iyul", "avgust", "sentabr", "oktabr", "noyabr", "dekabr",
}

// TemplateFuncs returns the helpers that need no request. The renderer adds
// its own (translation, sanitizing, links) on top.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"lower":          strings.ToLower,
		"upper":          strings.ToUpper,
		"seq":            seq,
		"dict":           dict,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"isoDate":        isoDate,
		"formatBytes":    FormatBytes,
	}
}

// FormatDate writes a date the way lang does: "15-mart, 2025" or
// "Mar 15, 2025".
func FormatDate(t time.Time, lang string) string {
	if lang == "uz" {
		return fmt.Sprintf("%d-%s, %d", t.Day(), monthsUz[t.Month()-1], t.Year())
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateTime is FormatDate with the time of day, 24-hour in Uzbek.
func FormatDateTime(t time.Time, lang string) string {
	if lang == "uz" {
		return FormatDate(t, lang) + t.Format(" 15:04")
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}

// FormatBytes writes a size with a binary unit, such as "1.5 MB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	v, i := float64(n)/unit, 0
	for v >= unit && i < 4 {
		v /= unit
		i++
	}
	return fmt.Sprintf("%.1f %cB", v, "KMGTP"[i])
}

func formatDate(t any, lang string) string {
	return withTime(t, func(t time.Time) string { return FormatDate(t, lang) })
}

func formatDateTime(t any, lang string) string {
	return withTime(t, func(t time.Time) string { return FormatDateTime(t, lang) })
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// withTime applies f to a time.Time or a non-nil *time.Time. Zero times
// and other values give "".
func withTime(v any, f func(time.Time) string) string {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x != nil {
			t = *x
		}
	}
	if t.IsZero() {
		return ""
	}
	return f(t)
}

// seq returns the integers from first to last inclusive.
func seq(first, last int) []int {
	if last < first {
		return nil
	}
	out := make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		out = append(out, i)
	}
	return out
}

// dict builds a map from key/value pairs so a partial can take several
// arguments. Non-string keys are skipped; an odd count gives nil.
func dict(pairs ...any) map[string]any {
	if len(pairs)%2 != 0 {
		return nil
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		if k, ok := pairs[i].(string); ok {
			m[k] = pairs[i+1]
		}
	}
	return m
}
