// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content filters and orders the public course and blog lists and
// builds the notice board.
package content

import (
	"cmp"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/olegiv/hanmaru/internal/model"
)

// Sort orders.
const (
	SortNewest  = "newest"
	SortPopular = "popular"
)

// CategoryAll disables the category predicate.
const CategoryAll = "all"

// Record is the searchable projection of a list item.
type Record struct {
	Title          string
	Excerpt        string
	Content        string
	Category       string
	AuthorName     string
	IsNotification bool
	CreatedAt      time.Time
	Engagement     int
}

// PostRecord projects a blog post. Views measure engagement.
func PostRecord(p model.BlogPost) Record {
	return Record{
		Title:          p.Title,
		Excerpt:        p.Excerpt,
		Content:        p.Content,
		Category:       p.Category,
		AuthorName:     p.Author.Name,
		IsNotification: p.IsNotification,
		CreatedAt:      p.CreatedAt,
		Engagement:     p.Views,
	}
}

// CourseRecord projects a course. The description serves as both excerpt and
// content, and enrolled students measure engagement.
func CourseRecord(c model.Course) Record {
	return Record{
		Title:      c.Title,
		Excerpt:    c.Description,
		Content:    c.Description,
		Category:   c.Category,
		CreatedAt:  c.CreatedAt,
		Engagement: c.StudentsCount,
	}
}

// Query is the list state carried in the URL.
type Query struct {
	Search   string
	Category string
	Sort     string
}

// ParseQuery reads q, category and sort. Missing values become the defaults.
func ParseQuery(v url.Values) Query {
	q := Query{
		Search:   strings.TrimSpace(v.Get("q")),
		Category: strings.TrimSpace(v.Get("category")),
		Sort:     v.Get("sort"),
	}
	if q.Category == "" {
		q.Category = CategoryAll
	}
	if q.Sort != SortPopular {
		q.Sort = SortNewest
	}
	return q
}

// Values encodes the query, omitting defaults.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Category != "" && q.Category != CategoryAll {
		v.Set("category", q.Category)
	}
	if q.Sort == SortPopular {
		v.Set("sort", q.Sort)
	}
	return v
}

// URL returns path with the encoded query.
func (q Query) URL(path string) string {
	if enc := q.Values().Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// WithCategory returns a copy of q filtered by category.
func (q Query) WithCategory(category string) Query {
	q.Category = category
	return q
}

// WithSort returns a copy of q using order.
func (q Query) WithSort(order string) Query {
	q.Sort = order
	return q
}

// IsCategory reports whether category is the active filter.
func (q Query) IsCategory(category string) bool {
	active := q.Category
	if active == "" {
		active = CategoryAll
	}
	return strings.EqualFold(active, category)
}

// Matches reports whether r satisfies both the search and the category
// predicate.
func (q Query) Matches(r Record) bool {
	return q.matchesSearch(r) && q.matchesCategory(r)
}

func (q Query) matchesSearch(r Record) bool {
	term := strings.ToLower(q.Search)
	if term == "" {
		return true
	}
	for _, field := range []string{r.Title, r.Excerpt, r.Content, r.Category, r.AuthorName} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (q Query) matchesCategory(r Record) bool {
	if q.Category == "" || q.Category == CategoryAll {
		return true
	}
	return strings.EqualFold(r.Category, q.Category)
}

// Filter returns the items matching q in their original order. The input is
// not modified.
func Filter[T any](items []T, q Query, record func(T) Record) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if q.Matches(record(item)) {
			out = append(out, item)
		}
	}
	return out
}

// Sort returns a stably ordered copy of items: notification items first, then
// newest first or most engaged first. Unknown orders sort by newest.
func Sort[T any](items []T, order string, record func(T) Record) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		ra, rb := record(a), record(b)
		if ra.IsNotification != rb.IsNotification {
			if ra.IsNotification {
				return -1
			}
			return 1
		}
		if order == SortPopular {
			return cmp.Compare(rb.Engagement, ra.Engagement)
		}
		return rb.CreatedAt.Compare(ra.CreatedAt)
	})
	return out
}

// Posts filters and sorts blog posts.
func Posts(posts []model.BlogPost, q Query) []model.BlogPost {
	return Sort(Filter(posts, q, PostRecord), q.Sort, PostRecord)
}

// Courses filters and sorts courses.
func Courses(courses []model.Course, q Query) []model.Course {
	return Sort(Filter(courses, q, CourseRecord), q.Sort, CourseRecord)
}
