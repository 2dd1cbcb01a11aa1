// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/olegiv/hanmaru/internal/model"
)

// Content formats of the blog editor.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

func text(v url.Values, name string) string {
	return strings.TrimSpace(v.Get(name))
}

// Bool reads a checkbox.
func Bool(v url.Values, name string) bool {
	switch strings.ToLower(v.Get(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Rows returns the values of a repeated field. Blank rows are kept so the
// editor shows them again.
func Rows(v url.Values, name string) []string {
	rows := v[name]
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = strings.TrimSpace(r)
	}
	return out
}

func at(rows []string, i int) string {
	if i < len(rows) {
		return rows[i]
	}
	return ""
}

func maxLen(lists ...[]string) int {
	n := 0
	for _, l := range lists {
		n = max(n, len(l))
	}
	return n
}

func number(errs model.FieldErrors, v url.Values, name string) model.Number {
	n, err := model.ParseNumber(v.Get(name))
	if err != nil {
		errs.Add(name, model.MsgNumberInvalid)
	}
	return n
}

// Course decodes the course editor. Malformed numbers are reported as field
// errors and read as zero.
func Course(v url.Values) (model.Course, model.FieldErrors) {
	errs := model.FieldErrors{}
	c := model.Course{
		Title:        text(v, "title"),
		Description:  text(v, "description"),
		Category:     text(v, "category"),
		Price:        number(errs, v, "price"),
		Duration:     text(v, "duration"),
		Level:        text(v, "level"),
		Features:     Rows(v, "features"),
		Outcomes:     Rows(v, "outcomes"),
		Image:        text(v, "image"),
		LessonsCount: number(errs, v, "lessonsCount"),
		Status:       text(v, "status"),
	}
	c.StudentsCount, _ = strconv.Atoi(v.Get("studentsCount"))
	c.Rating, _ = strconv.ParseFloat(v.Get("rating"), 64)
	if c.Category == "" {
		c.Category = model.NewCourse().Category
	}
	return c, errs
}

// CourseOp applies op to the course mirror. It reports false for an unknown
// field.
func CourseOp(c model.Course, op Op) (model.Course, bool) {
	switch op.Field {
	case "features":
		c.Features = Apply(c.Features, op, "")
	case "outcomes":
		c.Outcomes = Apply(c.Outcomes, op, "")
	default:
		return c, false
	}
	return c, true
}

// Blog decodes the blog editor and returns the content format.
func Blog(v url.Values) (model.BlogPost, string) {
	p := model.BlogPost{
		Title:          text(v, "title"),
		Content:        v.Get("content"),
		Excerpt:        text(v, "excerpt"),
		Category:       text(v, "category"),
		Tags:           Rows(v, "tags"),
		CoverImage:     text(v, "coverImage"),
		IsNotification: Bool(v, "isNotification"),
		Status:         text(v, "status"),
	}
	if p.Category == "" {
		p.Category = model.NewBlogPost().Category
	}
	format := FormatHTML
	if v.Get("format") == FormatMarkdown {
		format = FormatMarkdown
	}
	return p, format
}

// BlogOp applies op to the blog mirror.
func BlogOp(p model.BlogPost, op Op) (model.BlogPost, bool) {
	if op.Field != "tags" {
		return p, false
	}
	p.Tags = Apply(p.Tags, op, "")
	return p, true
}

func social(v url.Values, prefix string) model.SocialLinks {
	return model.SocialLinks{
		Facebook:  text(v, prefix+"facebook"),
		Twitter:   text(v, prefix+"twitter"),
		Instagram: text(v, prefix+"instagram"),
		Linkedin:  text(v, prefix+"linkedin"),
		Telegram:  text(v, prefix+"telegram"),
		Github:    text(v, prefix+"github"),
	}
}

// Success decodes the success story editor.
func Success(v url.Values) model.SuccessStory {
	return model.SuccessStory{
		Name:     text(v, "name"),
		Image:    text(v, "image"),
		Company:  text(v, "company"),
		Position: text(v, "position"),
		Review:   text(v, "review"),
		Featured: Bool(v, "featured"),
		Social:   social(v, "social."),
	}
}

// About decodes the about editor. Row fields are zipped by position.
func About(v url.Values) model.AboutContent {
	a := model.AboutContent{
		MainTitle:       text(v, "mainTitle"),
		MainDescription: v.Get("mainDescription"),
		MainImage:       text(v, "mainImage"),
	}

	counts, labels, icons := Rows(v, "stat.count"), Rows(v, "stat.label"), Rows(v, "stat.icon")
	a.Stats = make([]model.Stat, maxLen(counts, labels, icons))
	for i := range a.Stats {
		a.Stats[i] = model.Stat{Count: at(counts, i), Label: at(labels, i), Icon: at(icons, i)}
	}

	titles, descs, ficons := Rows(v, "feature.title"), Rows(v, "feature.description"), Rows(v, "feature.icon")
	a.Features = make([]model.Feature, maxLen(titles, descs, ficons))
	for i := range a.Features {
		a.Features[i] = model.Feature{Title: at(titles, i), Description: at(descs, i), Icon: at(ficons, i)}
	}

	team := map[string][]string{}
	for _, f := range []string{"id", "name", "role", "image", "bio", "facebook", "twitter", "instagram", "linkedin", "telegram"} {
		team[f] = Rows(v, "team."+f)
	}
	n := 0
	for _, rows := range team {
		n = max(n, len(rows))
	}
	a.Team = make([]model.TeamMember, n)
	for i := range a.Team {
		a.Team[i] = model.TeamMember{
			ID:    at(team["id"], i),
			Name:  at(team["name"], i),
			Role:  at(team["role"], i),
			Image: at(team["image"], i),
			Bio:   at(team["bio"], i),
			Social: model.SocialLinks{
				Facebook:  at(team["facebook"], i),
				Twitter:   at(team["twitter"], i),
				Instagram: at(team["instagram"], i),
				Linkedin:  at(team["linkedin"], i),
				Telegram:  at(team["telegram"], i),
			},
		}
	}
	return a
}

// AboutOp applies op to the about mirror.
func AboutOp(a model.AboutContent, op Op) (model.AboutContent, bool) {
	switch op.Field {
	case "stats":
		a.Stats = Apply(a.Stats, op, model.Stat{})
	case "features":
		a.Features = Apply(a.Features, op, model.Feature{})
	case "team":
		a.Team = Apply(a.Team, op, model.TeamMember{})
	default:
		return a, false
	}
	return a, true
}
