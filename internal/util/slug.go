// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util turns post titles into URL slugs. Titles in any script are
// transliterated to ASCII first.
package util

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// MaxSlugLen bounds a slug; longer ones are cut at a word boundary.
const MaxSlugLen = 80

// Slugify lowercases s and joins its words with single hyphens. Apostrophes
// vanish so Uzbek words like "o'qish" stay whole.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(unidecode.Unidecode(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '\'' || r == '`':
		default:
			pendingHyphen = true
		}
	}
	return truncateSlug(b.String(), MaxSlugLen)
}

func truncateSlug(slug string, limit int) string {
	if len(slug) <= limit {
		return slug
	}
	cut := slug[:limit]
	if i := strings.LastIndexByte(cut, '-'); i > 0 && slug[limit] != '-' {
		cut = cut[:i]
	}
	return strings.TrimSuffix(cut, "-")
}
