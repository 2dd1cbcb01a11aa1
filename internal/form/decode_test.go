// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/hanmaru/internal/model"
)

func TestCourse(t *testing.T) {
	v := url.Values{
		"title":        {"  TOPIK II  "},
		"price":        {"699,000"},
		"lessonsCount": {"24"},
		"features":     {"Grammar", " ", "Listening"},
		"outcomes":     {"Level 4"},
		"status":       {"active"},
	}

	c, errs := Course(v)
	assert.Empty(t, errs)
	assert.Equal(t, "TOPIK II", c.Title)
	assert.Equal(t, "General", c.Category)
	assert.Equal(t, model.Number(699000), c.Price)
	assert.Equal(t, 24, c.LessonsCount.Int())
	assert.Equal(t, []string{"Grammar", "", "Listening"}, c.Features)
	assert.Equal(t, []string{"Grammar", "Listening"}, c.Payload().Features)
}

func TestCourseBadNumber(t *testing.T) {
	_, errs := Course(url.Values{"title": {"x"}, "price": {"abc"}})
	assert.Equal(t, model.MsgNumberInvalid, errs.Get("price"))
}

func TestCourseOp(t *testing.T) {
	c := model.NewCourse()
	c, ok := CourseOp(c, Op{Kind: OpAdd, Field: "features"})
	require.True(t, ok)
	assert.Len(t, c.Features, 2)

	c, ok = CourseOp(c, Op{Kind: OpRemove, Field: "outcomes", Index: 0})
	require.True(t, ok)
	assert.Empty(t, c.Outcomes)

	_, ok = CourseOp(c, Op{Kind: OpAdd, Field: "tags"})
	assert.False(t, ok)
}

func TestBlog(t *testing.T) {
	p, format := Blog(url.Values{
		"title":          {"Hangul"},
		"content":        {"# Hangul"},
		"tags":           {"pinned", "topik"},
		"isNotification": {"on"},
		"format":         {"markdown"},
	})
	assert.Equal(t, FormatMarkdown, format)
	assert.Equal(t, "other", p.Category)
	assert.True(t, p.IsNotification)
	assert.Equal(t, []string{"pinned", "topik"}, p.Tags)

	_, format = Blog(url.Values{"format": {"docx"}})
	assert.Equal(t, FormatHTML, format)
}

func TestSuccess(t *testing.T) {
	s := Success(url.Values{
		"name":            {"Dilnoza"},
		"review":          {"TOPIK 5!"},
		"featured":        {"true"},
		"social.telegram": {"@dilnoza"},
	})
	assert.True(t, s.Featured)
	assert.Equal(t, "@dilnoza", s.Social.Telegram)
	assert.Empty(t, s.Validate())
}

func TestAbout(t *testing.T) {
	a := About(url.Values{
		"mainTitle":           {"Hanmaru"},
		"stat.count":          {"500+", "20"},
		"stat.label":          {"Students"},
		"feature.title":       {"Native teachers"},
		"feature.description": {"Seoul"},
		"team.id":             {"m1", ""},
		"team.name":           {"Kim", "Lee"},
		"team.telegram":       {"@kim"},
	})

	require.Len(t, a.Stats, 2)
	assert.Equal(t, model.Stat{Count: "20"}, a.Stats[1])
	require.Len(t, a.Features, 1)
	require.Len(t, a.Team, 2)
	assert.Equal(t, "m1", a.Team[0].ID)
	assert.Equal(t, "@kim", a.Team[0].Social.Telegram)
	assert.Equal(t, "Lee", a.Team[1].Name)
	assert.Equal(t, map[string]bool{"m1": true}, a.TeamIDs())
}

func TestAboutOp(t *testing.T) {
	a := model.AboutContent{}.Normalize()
	a, ok := AboutOp(a, Op{Kind: OpAdd, Field: "team"})
	require.True(t, ok)
	assert.Len(t, a.Team, 1)

	a, ok = AboutOp(a, Op{Kind: OpAdd, Field: "stats"})
	require.True(t, ok)
	a, _ = AboutOp(a, Op{Kind: OpRemove, Field: "stats", Index: 0})
	assert.Empty(t, a.Stats)

	_, ok = AboutOp(a, Op{Kind: OpAdd, Field: "outcomes"})
	assert.False(t, ok)
}
