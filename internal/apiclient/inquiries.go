// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/hanmaru/internal/model"
)

// CreateInquiry submits the contact form. creds may be empty.
func (c *Client) CreateInquiry(ctx context.Context, creds Credentials, in model.Inquiry) error {
	in.ID, in.Status = "", ""
	_, err := c.call(ctx, request{method: http.MethodPost, path: "/api/inquiries", creds: creds, body: in}, nil)
	return err
}

// MyInquiries returns the inquiries submitted by the signed-in user.
func (c *Client) MyInquiries(ctx context.Context, creds Credentials) ([]model.Inquiry, error) {
	var out []model.Inquiry
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/inquiries/user", creds: creds}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListInquiries returns all inquiries, optionally of one type. Admin only.
func (c *Client) ListInquiries(ctx context.Context, creds Credentials, typ string) ([]model.Inquiry, error) {
	q := url.Values{}
	if typ != "" && typ != "all" {
		q.Set("type", typ)
	}
	var out []model.Inquiry
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/inquiries", query: q, creds: creds}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetInquiryStatus changes the handling status of an inquiry. Admin only.
func (c *Client) SetInquiryStatus(ctx context.Context, creds Credentials, id, status string) error {
	_, err := c.call(ctx, request{
		method: http.MethodPut,
		path:   "/api/inquiries/" + pathID(id) + "/status",
		creds:  creds,
		body:   map[string]string{"status": status},
	}, nil)
	return err
}

// Subscribe adds an email to the newsletter.
func (c *Client) Subscribe(ctx context.Context, in model.Subscription) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if _, err := c.call(ctx, request{method: http.MethodPost, path: "/api/subscribers", body: in}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
