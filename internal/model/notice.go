// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"strings"
	"time"
)

// Notice types.
const (
	NoticeCourse    = "course"
	NoticeUpdate    = "update"
	NoticePromotion = "promotion"
	NoticeEvent     = "event"
	NoticeBlog      = "blog"
)

// NoticeTypes lists the notice board filters after "all".
var NoticeTypes = []string{NoticeCourse, NoticeUpdate, NoticePromotion, NoticeEvent, NoticeBlog}

// PinnedTag marks a notification post as pinned.
const PinnedTag = "pinned"

// Notice is the notice board view of a notification post.
type Notice struct {
	ID      string
	Title   string
	Excerpt string
	Type    string
	Date    time.Time
	Link    string
	Pinned  bool
}

// NoticeFromPost projects a notification post onto a notice.
func NoticeFromPost(p BlogPost) Notice {
	typ := strings.ToLower(p.Category)
	if !slices.Contains(NoticeTypes, typ) {
		typ = NoticeBlog
	}
	return Notice{
		ID:      p.ID,
		Title:   p.Title,
		Excerpt: p.Excerpt,
		Type:    typ,
		Date:    p.CreatedAt,
		Link:    "/blog/" + p.ID,
		Pinned:  slices.ContainsFunc(p.Tags, func(t string) bool { return strings.EqualFold(t, PinnedTag) }),
	}
}
