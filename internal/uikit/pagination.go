// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"net/http"
	"net/url"
	"strconv"
)

// pageWindow is how many numbered links surround the current page.
const pageWindow = 5

// Pagination describes one page of a list and the links around it.
type Pagination struct {
	Page       int
	TotalPages int
	PerPage    int
	Total      int
	Links      []PageLink

	path  string
	query url.Values
}

// PageLink is a numbered link, or a gap between two of them.
type PageLink struct {
	Number  int
	URL     string
	Current bool
	Gap     bool
}

// NewPagination clamps page to the available pages and builds the links.
// query is kept on every link; its "page" value is replaced.
func NewPagination(page, total, perPage int, path string, query url.Values) Pagination {
	pages := 1
	if perPage > 0 && total > perPage {
		pages = (total + perPage - 1) / perPage
	}
	page = min(max(page, 1), pages)

	q := url.Values{}
	for k, v := range query {
		if k != "page" && len(v) > 0 && v[0] != "" {
			q[k] = v
		}
	}

	p := Pagination{Page: page, TotalPages: pages, PerPage: perPage, Total: total, path: path, query: q}
	p.Links = p.window()
	return p
}

// URL links to page n.
func (p Pagination) URL(n int) string {
	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(n))
	return p.path + "?" + q.Encode()
}

func (p Pagination) HasPrev() bool    { return p.Page > 1 }
func (p Pagination) HasNext() bool    { return p.Page < p.TotalPages }
func (p Pagination) PrevURL() string  { return p.URL(p.Page - 1) }
func (p Pagination) NextURL() string  { return p.URL(p.Page + 1) }
func (p Pagination) ShouldShow() bool { return p.TotalPages > 1 }

// PageRange is the span of items shown, such as "51-100".
func (p Pagination) PageRange() string {
	if p.Total == 0 {
		return "0"
	}
	first := (p.Page-1)*p.PerPage + 1
	last := min(p.Page*p.PerPage, p.Total)
	return strconv.Itoa(first) + "-" + strconv.Itoa(last)
}

// window lists pageWindow numbers centred on the current page, plus the
// first and last page with gaps where numbers are skipped.
func (p Pagination) window() []PageLink {
	lo := max(p.Page-pageWindow/2, 1)
	hi := min(lo+pageWindow-1, p.TotalPages)
	lo = max(hi-pageWindow+1, 1)

	var links []PageLink
	if lo > 1 {
		links = append(links, p.link(1))
		if lo > 2 {
			links = append(links, PageLink{Gap: true})
		}
	}
	for n := lo; n <= hi; n++ {
		links = append(links, p.link(n))
	}
	if hi < p.TotalPages {
		if hi < p.TotalPages-1 {
			links = append(links, PageLink{Gap: true})
		}
		links = append(links, p.link(p.TotalPages))
	}
	return links
}

func (p Pagination) link(n int) PageLink {
	return PageLink{Number: n, URL: p.URL(n), Current: n == p.Page}
}

// ParsePage reads the "page" query parameter. Anything but a positive
// number gives page 1.
func ParsePage(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
