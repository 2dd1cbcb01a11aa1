// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"slices"
	"time"
	"unicode/utf8"
)

// Blog statuses.
const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
	BlogStatusArchived  = "archived"
)

// BlogStatuses lists valid blog statuses.
var BlogStatuses = []string{BlogStatusDraft, BlogStatusPublished, BlogStatusArchived}

// BlogCategories are the filter ids on the public blog list.
var BlogCategories = []string{"all", "topik", "learning", "university", "culture", "tips"}

// BlogEditorCategories are the categories offered by the blog editor.
var BlogEditorCategories = []string{"topik", "learning", "university", "culture", "tips", "other"}

// BlogComment is a comment on a post.
type BlogComment struct {
	ID        string    `json:"_id,omitempty"`
	User      UserRef   `json:"user,omitzero"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// UnmarshalJSON accepts an unpopulated comment id as well as the object.
func (c *BlogComment) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.ID)
	}
	type plain BlogComment
	return json.Unmarshal(data, (*plain)(c))
}

// BlogPost is a post as stored by the API.
type BlogPost struct {
	ID             string        `json:"_id,omitempty"`
	Title          string        `json:"title"`
	Content        string        `json:"content"`
	Excerpt        string        `json:"excerpt"`
	Category       string        `json:"category"`
	Tags           []string      `json:"tags"`
	CoverImage     string        `json:"coverImage"`
	IsNotification bool          `json:"isNotification"`
	Status         string        `json:"status"`
	Author         UserRef       `json:"author,omitzero"`
	Likes          []string      `json:"likes,omitempty"`
	SavedBy        []string      `json:"savedBy,omitempty"`
	Comments       []BlogComment `json:"comments,omitempty"`
	Views          int           `json:"views"`
	CreatedAt      time.Time     `json:"createdAt,omitzero"`
	UpdatedAt      time.Time     `json:"updatedAt,omitzero"`
}

// NewBlogPost returns the defaults of the blog editor.
func NewBlogPost() BlogPost {
	return BlogPost{
		Category: "other",
		Tags:     []string{},
		Status:   BlogStatusDraft,
	}
}

// Validate checks the blog form.
func (p BlogPost) Validate() FieldErrors {
	errs := FieldErrors{}
	required(errs, "title", p.Title)
	required(errs, "content", p.Content)
	validateOneOf(errs, "status", p.Status, MsgStatusInvalid, BlogStatuses)
	return errs
}

// Payload returns the editable fields only; engagement sets stay with the API.
func (p BlogPost) Payload() BlogPost {
	return BlogPost{
		Title:          p.Title,
		Content:        p.Content,
		Excerpt:        p.Excerpt,
		Category:       p.Category,
		Tags:           nonBlank(p.Tags),
		CoverImage:     p.CoverImage,
		IsNotification: p.IsNotification,
		Status:         p.Status,
	}
}

// LikedBy reports whether userID is in the like set.
func (p BlogPost) LikedBy(userID string) bool {
	return userID != "" && slices.Contains(p.Likes, userID)
}

// SavedByUser reports whether userID is in the saved-by set.
func (p BlogPost) SavedByUser(userID string) bool {
	return userID != "" && slices.Contains(p.SavedBy, userID)
}

// ReadingMinutes estimates reading time at one minute per 1000 characters.
func (p BlogPost) ReadingMinutes() int {
	n := utf8.RuneCountInString(p.Content)
	return (n + 999) / 1000
}

// CommentInput is the comment form.
type CommentInput struct {
	Content string `json:"content"`
}

// Validate requires non-blank content.
func (c CommentInput) Validate() FieldErrors {
	errs := FieldErrors{}
	required(errs, "content", c.Content)
	return errs
}

// TrendingTopic is one entry of the trending topics list.
type TrendingTopic struct {
	Tag   string `json:"_id"`
	Count int    `json:"count"`
}
