// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/olegiv/hanmaru/internal/model"
)

// UpdateProfile changes the display name and, when picture is non-nil, the
// profile picture. It returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, creds Credentials, name string, picture *Upload) (*model.User, error) {
	req := request{
		method: http.MethodPut,
		path:   "/api/profile/update",
		creds:  creds,
		fields: map[string]string{"name": name},
	}
	if picture != nil {
		p := *picture
		p.Field = "profilePicture"
		req.files = []Upload{p}
	}

	var out struct {
		Success bool        `json:"success"`
		User    *model.User `json:"user"`
		Data    *model.User `json:"data"`
		Message string      `json:"message"`
	}
	resp, err := c.call(ctx, req, &out)
	if err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &Error{Kind: KindServer, Status: resp.status, Message: out.Message}
	}

	user := out.User
	if user == nil {
		user = out.Data
	}
	if user == nil {
		return nil, &Error{Kind: KindUnexpected, Status: resp.status, Err: errors.New("profile response has no user")}
	}
	return user, nil
}

// UploadImage stores an image and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, creds Credentials, img Upload) (string, error) {
	img.Field = "image"
	var out struct {
		URL string `json:"url"`
	}
	resp, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/upload",
		creds:  creds,
		files:  []Upload{img},
	}, &out)
	if err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", &Error{Kind: KindUnexpected, Status: resp.status, Err: errors.New("upload response has no url")}
	}
	return out.URL, nil
}
