// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"net/http"

	"github.com/olegiv/hanmaru/internal/model"
)

// ListCourses returns all courses visible to creds.
func (c *Client) ListCourses(ctx context.Context, creds Credentials) ([]model.Course, error) {
	var out []model.Course
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/courses", creds: creds}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FeaturedCourses returns the courses promoted on the home page.
func (c *Client) FeaturedCourses(ctx context.Context) ([]model.Course, error) {
	var out []model.Course
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/courses/featured"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCourse returns one course.
func (c *Client) GetCourse(ctx context.Context, creds Credentials, id string) (*model.Course, error) {
	var out model.Course
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/courses/" + pathID(id), creds: creds}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCourse stores a new course.
func (c *Client) CreateCourse(ctx context.Context, creds Credentials, course model.Course) (*model.Course, error) {
	var out model.Course
	if _, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/courses",
		creds:  creds,
		body:   course.Payload(),
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCourse replaces a course.
func (c *Client) UpdateCourse(ctx context.Context, creds Credentials, id string, course model.Course) (*model.Course, error) {
	var out model.Course
	if _, err := c.call(ctx, request{
		method: http.MethodPut,
		path:   "/api/courses/" + pathID(id),
		creds:  creds,
		body:   course.Payload(),
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetCourseStatus changes only the status of a course.
func (c *Client) SetCourseStatus(ctx context.Context, creds Credentials, id, status string) error {
	_, err := c.call(ctx, request{
		method: http.MethodPut,
		path:   "/api/courses/" + pathID(id),
		creds:  creds,
		body:   map[string]string{"status": status},
	}, nil)
	return err
}

// DeleteCourse removes a course.
func (c *Client) DeleteCourse(ctx context.Context, creds Credentials, id string) error {
	_, err := c.call(ctx, request{method: http.MethodDelete, path: "/api/courses/" + pathID(id), creds: creds}, nil)
	return err
}

// EnrollCourse enrolls the signed-in user.
func (c *Client) EnrollCourse(ctx context.Context, creds Credentials, id string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if _, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/courses/" + pathID(id) + "/enroll",
		creds:  creds,
		body:   struct{}{},
	}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// AddCourseComment posts a rating. Callers refetch the course afterwards to
// pick up the new aggregate rating.
func (c *Client) AddCourseComment(ctx context.Context, creds Credentials, id string, in model.CourseRating) error {
	_, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/courses/" + pathID(id) + "/comments",
		creds:  creds,
		body:   in,
	}, nil)
	return err
}
