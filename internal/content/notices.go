// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"slices"

	"github.com/olegiv/hanmaru/internal/model"
)

// Notices builds the notice board from the notification posts that were not
// dismissed, keeping only type unless it is "all" or empty. Pinned notices
// come first, then the newest.
func Notices(posts []model.BlogPost, dismissed []string, typ string) []model.Notice {
	out := make([]model.Notice, 0)
	for _, p := range posts {
		if !p.IsNotification || slices.Contains(dismissed, p.ID) {
			continue
		}
		n := model.NoticeFromPost(p)
		if typ != "" && typ != CategoryAll && n.Type != typ {
			continue
		}
		out = append(out, n)
	}
	slices.SortStableFunc(out, func(a, b model.Notice) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return b.Date.Compare(a.Date)
	})
	return out
}

// MaxDismissed bounds the dismissed notice ids kept for one visitor.
const MaxDismissed = 50

// Dismiss adds id to the dismissed set and returns a new slice. Only ids of
// notification posts in posts are kept, each once, and at most MaxDismissed
// of them with the oldest dropped first. An id that names no notice is not
// added.
func Dismiss(dismissed []string, id string, posts []model.BlogPost) []string {
	live := make(map[string]bool, len(posts))
	for _, p := range posts {
		if p.IsNotification {
			live[p.ID] = true
		}
	}

	out := make([]string, 0, len(dismissed)+1)
	for _, d := range append(slices.Clone(dismissed), id) {
		if live[d] && !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	if len(out) > MaxDismissed {
		out = out[len(out)-MaxDismissed:]
	}
	return out
}

// IsNotice reports whether id names a notification post in posts.
func IsNotice(posts []model.BlogPost, id string) bool {
	return slices.ContainsFunc(posts, func(p model.BlogPost) bool {
		return p.IsNotification && p.ID == id
	})
}
