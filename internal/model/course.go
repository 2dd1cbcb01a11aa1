// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Course statuses.
const (
	CourseStatusDraft    = "draft"
	CourseStatusActive   = "active"
	CourseStatusArchived = "archived"
)

// CourseStatuses lists valid course statuses.
var CourseStatuses = []string{CourseStatusDraft, CourseStatusActive, CourseStatusArchived}

// CourseCategories are the filter ids on the public course list.
var CourseCategories = []string{"all", "TOPIK", "General", "Speaking"}

// Number is a numeric field that the API and older admin forms sometimes send
// as a string such as "699,000".
type Number float64

// UnmarshalJSON accepts numbers, numeric strings and empty strings.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseNumber(s)
		if err != nil {
			return err
		}
		*n = v
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// ParseNumber parses a form value, ignoring spaces and thousands separators.
func ParseNumber(s string) (Number, error) {
	s = strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	return Number(f), err
}

// Int returns n truncated to an int.
func (n Number) Int() int {
	return int(n)
}

// CourseComment is a rating left on a course.
type CourseComment struct {
	ID        string    `json:"_id,omitempty"`
	User      UserRef   `json:"user,omitzero"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Course is a course as stored by the API.
type Course struct {
	ID            string          `json:"_id,omitempty"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Price         Number          `json:"price"`
	Duration      string          `json:"duration"`
	Level         string          `json:"level"`
	Features      []string        `json:"features"`
	Outcomes      []string        `json:"outcomes"`
	Image         string          `json:"image"`
	LessonsCount  Number          `json:"lessonsCount"`
	StudentsCount int             `json:"studentsCount"`
	Rating        float64         `json:"rating"`
	Comments      []CourseComment `json:"comments,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt,omitzero"`
}

// NewCourse returns the defaults of the course editor.
func NewCourse() Course {
	return Course{
		Category: "General",
		Features: []string{""},
		Outcomes: []string{""},
		Status:   CourseStatusDraft,
	}
}

// Validate checks the course form.
func (c Course) Validate() FieldErrors {
	errs := FieldErrors{}
	required(errs, "title", c.Title)
	validateOneOf(errs, "status", c.Status, MsgStatusInvalid, CourseStatuses)
	return errs
}

// Payload returns the course with empty list rows dropped, ready to send.
func (c Course) Payload() Course {
	c.Features = nonBlank(c.Features)
	c.Outcomes = nonBlank(c.Outcomes)
	c.Comments = nil
	return c
}

// CourseRating is the star-and-text form on the course page.
type CourseRating struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// Validate requires 1..5 stars and non-blank text.
func (r CourseRating) Validate() FieldErrors {
	errs := FieldErrors{}
	if r.Rating < MinRating || r.Rating > MaxRating {
		errs.Add("rating", MsgRatingRange)
	}
	required(errs, "text", r.Text)
	return errs
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
