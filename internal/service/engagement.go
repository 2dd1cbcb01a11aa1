// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/model"
)

// Toggle kinds.
const (
	ToggleLike = "like"
	ToggleSave = "save"
)

// EngagementAPI is the part of the API client used by signed-in actions.
type EngagementAPI interface {
	SetLike(ctx context.Context, creds apiclient.Credentials, id string, on bool) (bool, error)
	SetSaved(ctx context.Context, creds apiclient.Credentials, id string, on bool) (bool, error)
	AddBlogComment(ctx context.Context, creds apiclient.Credentials, id string, in model.CommentInput) (*model.BlogComment, error)
	AddCourseComment(ctx context.Context, creds apiclient.Credentials, id string, in model.CourseRating) error
	GetCourse(ctx context.Context, creds apiclient.Credentials, id string) (*model.Course, error)
	EnrollCourse(ctx context.Context, creds apiclient.Credentials, id string) (string, error)
}

// ToggleResult is the state of a like or save after a toggle.
type ToggleResult struct {
	State   bool     `json:"state"`
	Members []string `json:"-"`
	Count   int      `json:"count"`
}

// Engagement runs the like, save, comment, rating and enrollment actions.
type Engagement struct {
	api      EngagementAPI
	inflight *InFlight
	logger   *slog.Logger
}

// NewEngagement creates the engagement service.
func NewEngagement(api EngagementAPI, inflight *InFlight, logger *slog.Logger) *Engagement {
	if inflight == nil {
		inflight = NewInFlight()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engagement{api: api, inflight: inflight, logger: logger}
}

// Toggle flips the like or save of postID for userID. current is the state
// the page showed and set the member ids the page was rendered from. The
// API's answer decides the new state; set is never modified. On failure the
// result is the unchanged state together with the error.
func (e *Engagement) Toggle(ctx context.Context, creds apiclient.Credentials, kind, postID, userID string, current bool, set []string) (ToggleResult, error) {
	unchanged := ToggleResult{State: current, Members: slices.Clone(set), Count: len(set)}

	call := e.api.SetLike
	switch kind {
	case ToggleLike:
	case ToggleSave:
		call = e.api.SetSaved
	default:
		return unchanged, fmt.Errorf("unknown toggle %q", kind)
	}

	release, err := e.inflight.Acquire(userID, kind, postID)
	if err != nil {
		return unchanged, err
	}
	defer release()

	state, err := call(ctx, creds, postID, !current)
	if err != nil {
		e.logger.Error("toggle failed",
			"category", model.EventCategoryContent,
			"kind", kind,
			"post_id", postID,
			"error", err,
		)
		return unchanged, err
	}

	members := applyMembership(set, userID, state)
	return ToggleResult{State: state, Members: members, Count: len(members)}, nil
}

// applyMembership returns a copy of set that contains userID iff member.
func applyMembership(set []string, userID string, member bool) []string {
	out := slices.DeleteFunc(slices.Clone(set), func(id string) bool { return id == userID })
	if member {
		out = append(out, userID)
	}
	return out
}

// Comment posts userID's comment on postID and returns comments with the
// stored comment appended. comments itself is left untouched.
func (e *Engagement) Comment(ctx context.Context, creds apiclient.Credentials, userID, postID string, in model.CommentInput, comments []model.BlogComment) ([]model.BlogComment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if errs := in.Validate(); !errs.Empty() {
		return comments, errs
	}

	release, err := e.inflight.Acquire(userID, "comment", postID)
	if err != nil {
		return comments, err
	}
	defer release()

	c, err := e.api.AddBlogComment(ctx, creds, postID, in)
	if err != nil {
		e.logger.Error("comment failed", "category", model.EventCategoryContent, "post_id", postID, "error", err)
		return comments, err
	}

	out := make([]model.BlogComment, 0, len(comments)+1)
	out = append(out, comments...)
	return append(out, *c), nil
}

// Rate posts userID's star rating on courseID and returns the course as
// stored after the rating.
func (e *Engagement) Rate(ctx context.Context, creds apiclient.Credentials, userID, courseID string, in model.CourseRating) (*model.Course, error) {
	in.Text = strings.TrimSpace(in.Text)
	if errs := in.Validate(); !errs.Empty() {
		return nil, errs
	}

	release, err := e.inflight.Acquire(userID, "rate", courseID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := e.api.AddCourseComment(ctx, creds, courseID, in); err != nil {
		e.logger.Error("course rating failed", "category", model.EventCategoryContent, "course_id", courseID, "error", err)
		return nil, err
	}

	course, err := e.api.GetCourse(ctx, creds, courseID)
	if err != nil {
		return nil, fmt.Errorf("refetching course: %w", err)
	}
	return course, nil
}

// Enroll enrolls userID in courseID and returns the API message.
func (e *Engagement) Enroll(ctx context.Context, creds apiclient.Credentials, userID, courseID string) (string, error) {
	release, err := e.inflight.Acquire(userID, "enroll", courseID)
	if err != nil {
		return "", err
	}
	defer release()

	msg, err := e.api.EnrollCourse(ctx, creds, courseID)
	if err != nil {
		e.logger.Error("enrollment failed", "category", model.EventCategoryContent, "course_id", courseID, "error", err)
		return "", err
	}
	e.logger.Info("course enrollment", "course_id", courseID)
	return msg, nil
}
