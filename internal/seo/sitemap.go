// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the sitemap and robots.txt of the public site.
package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// Sections are the public list pages that exist besides the home page.
var Sections = []string{"/courses", "/blog", "/about", "/xizmatlar", "/success"}

// Entry is a detail page: its path below the site URL and when it last
// changed. A zero UpdatedAt leaves lastmod out.
type Entry struct {
	Path      string
	UpdatedAt time.Time
}

type urlset struct {
	XMLName xml.Name   `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Sitemap renders sitemap.xml for siteURL: the home page, Sections, then
// entries in the order given. A path listed twice appears once.
func Sitemap(siteURL string, entries []Entry) ([]byte, error) {
	base := strings.TrimSuffix(siteURL, "/")
	doc := urlset{URLs: make([]urlEntry, 0, 1+len(Sections)+len(entries))}
	seen := make(map[string]bool, cap(doc.URLs))

	add := func(path, freq, prio string, updated time.Time) {
		if seen[path] {
			return
		}
		seen[path] = true
		u := urlEntry{Loc: base + path, ChangeFreq: freq, Priority: prio}
		if !updated.IsZero() {
			u.LastMod = updated.UTC().Format(time.RFC3339)
		}
		doc.URLs = append(doc.URLs, u)
	}

	add("/", "daily", "1.0", time.Time{})
	for _, p := range Sections {
		add(p, "weekly", "0.8", time.Time{})
	}
	for _, e := range entries {
		add(e.Path, "monthly", "0.6", e.UpdatedAt)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
