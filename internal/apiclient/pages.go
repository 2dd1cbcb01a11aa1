// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"net/http"

	"github.com/olegiv/hanmaru/internal/model"
)

// GetAbout returns the about document with all lists present.
func (c *Client) GetAbout(ctx context.Context) (*model.AboutContent, error) {
	var out model.AboutContent
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/about"}, &out); err != nil {
		return nil, err
	}
	out = out.Normalize()
	return &out, nil
}

// UpdateAbout replaces the about document.
func (c *Client) UpdateAbout(ctx context.Context, creds Credentials, about model.AboutContent) (*model.AboutContent, error) {
	var out model.AboutContent
	if _, err := c.call(ctx, request{
		method: http.MethodPut,
		path:   "/api/about",
		creds:  creds,
		body:   about.Normalize(),
	}, &out); err != nil {
		return nil, err
	}
	out = out.Normalize()
	return &out, nil
}

// DeleteTeamMember removes a stored team member.
func (c *Client) DeleteTeamMember(ctx context.Context, creds Credentials, memberID string) error {
	_, err := c.call(ctx, request{
		method: http.MethodDelete,
		path:   "/api/about/team/" + pathID(memberID),
		creds:  creds,
	}, nil)
	return err
}

// ListSuccess returns all success stories.
func (c *Client) ListSuccess(ctx context.Context) ([]model.SuccessStory, error) {
	var out []model.SuccessStory
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/success"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FeaturedSuccess returns the featured success stories.
func (c *Client) FeaturedSuccess(ctx context.Context) ([]model.SuccessStory, error) {
	var out []model.SuccessStory
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/success/featured"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSuccess returns one story.
func (c *Client) GetSuccess(ctx context.Context, creds Credentials, id string) (*model.SuccessStory, error) {
	var out model.SuccessStory
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/success/" + pathID(id), creds: creds}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSuccess stores a new story.
func (c *Client) CreateSuccess(ctx context.Context, creds Credentials, s model.SuccessStory) (*model.SuccessStory, error) {
	s.ID = ""
	var out model.SuccessStory
	if _, err := c.call(ctx, request{method: http.MethodPost, path: "/api/success", creds: creds, body: s}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSuccess replaces a story.
func (c *Client) UpdateSuccess(ctx context.Context, creds Credentials, id string, s model.SuccessStory) (*model.SuccessStory, error) {
	s.ID = ""
	var out model.SuccessStory
	if _, err := c.call(ctx, request{method: http.MethodPut, path: "/api/success/" + pathID(id), creds: creds, body: s}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSuccess removes a story.
func (c *Client) DeleteSuccess(ctx context.Context, creds Credentials, id string) error {
	_, err := c.call(ctx, request{method: http.MethodDelete, path: "/api/success/" + pathID(id), creds: creds}, nil)
	return err
}
