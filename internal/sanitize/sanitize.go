// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sanitize cleans user-authored HTML before it is rendered and
// converts Markdown authored in the blog editor.
package sanitize

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ExcerptLength is the length of generated excerpts in runes.
const ExcerptLength = 150

var (
	// contentPolicy allows the markup produced by the rich text editor.
	contentPolicy = newContentPolicy()
	textPolicy    = bluemonday.StrictPolicy()
	whitespace    = regexp.MustCompile(`\s+`)
	markdown      = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^(ql-[\w-]+\s*)+$`)).Globally()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// HTML returns s with scripts, event handlers and unsafe URLs removed, ready
// to be embedded in a page.
func HTML(s string) template.HTML {
	return template.HTML(contentPolicy.Sanitize(s)) //nolint:gosec // sanitized above
}

// Text strips all markup and collapses whitespace.
func Text(s string) string {
	plain := html.UnescapeString(textPolicy.Sanitize(s))
	return strings.TrimSpace(whitespace.ReplaceAllString(plain, " "))
}

// Excerpt returns the first ExcerptLength runes of the text of s, followed by
// "..." when the text was cut.
func Excerpt(s string) string {
	return Truncate(Text(s), ExcerptLength)
}

// Truncate cuts s to n runes and appends "..." when anything was removed.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// Markdown converts src to sanitized HTML.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return contentPolicy.Sanitize(buf.String()), nil
}
