// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/hanmaru/internal/model"
)

// BlogFilter narrows the blog list on the server.
type BlogFilter struct {
	Category string
	Status   string
}

func (f BlogFilter) values() url.Values {
	v := url.Values{}
	if f.Category != "" && f.Category != "all" {
		v.Set("category", f.Category)
	}
	if f.Status != "" && f.Status != "all" {
		v.Set("status", f.Status)
	}
	return v
}

// ListBlogs returns posts matching f.
func (c *Client) ListBlogs(ctx context.Context, creds Credentials, f BlogFilter) ([]model.BlogPost, error) {
	var out []model.BlogPost
	if _, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   "/api/blogs",
		query:  f.values(),
		creds:  creds,
	}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBlog returns one post.
func (c *Client) GetBlog(ctx context.Context, creds Credentials, id string) (*model.BlogPost, error) {
	var out model.BlogPost
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/blogs/" + pathID(id), creds: creds}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BlogComments returns the comments of a post.
func (c *Client) BlogComments(ctx context.Context, creds Credentials, id string) ([]model.BlogComment, error) {
	var out []model.BlogComment
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/blogs/" + pathID(id) + "/comments", creds: creds}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddBlogComment posts a comment and returns the stored comment.
func (c *Client) AddBlogComment(ctx context.Context, creds Credentials, id string, in model.CommentInput) (*model.BlogComment, error) {
	var out model.BlogComment
	if _, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/blogs/" + pathID(id) + "/comment",
		creds:  creds,
		body:   in,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetLike establishes (on) or reverts a like and returns the state the API
// reports.
func (c *Client) SetLike(ctx context.Context, creds Credentials, id string, on bool) (bool, error) {
	var out struct {
		IsLiked bool `json:"isLiked"`
	}
	if _, err := c.call(ctx, request{
		method: toggleMethod(on),
		path:   "/api/blogs/" + pathID(id) + "/like",
		creds:  creds,
	}, &out); err != nil {
		return false, err
	}
	return out.IsLiked, nil
}

// SetSaved establishes (on) or reverts a bookmark and returns the state the
// API reports.
func (c *Client) SetSaved(ctx context.Context, creds Credentials, id string, on bool) (bool, error) {
	var out struct {
		IsSaved bool `json:"isSaved"`
	}
	if _, err := c.call(ctx, request{
		method: toggleMethod(on),
		path:   "/api/blogs/" + pathID(id) + "/save",
		creds:  creds,
	}, &out); err != nil {
		return false, err
	}
	return out.IsSaved, nil
}

func toggleMethod(on bool) string {
	if on {
		return http.MethodPost
	}
	return http.MethodDelete
}

// SavedBlogs returns the posts bookmarked by the signed-in user.
func (c *Client) SavedBlogs(ctx context.Context, creds Credentials) ([]model.BlogPost, error) {
	var out []model.BlogPost
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/blogs/saved", creds: creds}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Notifications returns the posts flagged as notifications.
func (c *Client) Notifications(ctx context.Context) ([]model.BlogPost, error) {
	var out []model.BlogPost
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/blogs/notifications"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TrendingTopics returns the most used tags.
func (c *Client) TrendingTopics(ctx context.Context) ([]model.TrendingTopic, error) {
	var out []model.TrendingTopic
	if _, err := c.call(ctx, request{method: http.MethodGet, path: "/api/blogs/trending-topics"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBlog stores a new post.
func (c *Client) CreateBlog(ctx context.Context, creds Credentials, post model.BlogPost) (*model.BlogPost, error) {
	var out model.BlogPost
	if _, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/blogs",
		creds:  creds,
		body:   post.Payload(),
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBlog replaces the editable fields of a post.
func (c *Client) UpdateBlog(ctx context.Context, creds Credentials, id string, post model.BlogPost) (*model.BlogPost, error) {
	var out model.BlogPost
	if _, err := c.call(ctx, request{
		method: http.MethodPut,
		path:   "/api/blogs/" + pathID(id),
		creds:  creds,
		body:   post.Payload(),
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBlog removes a post.
func (c *Client) DeleteBlog(ctx context.Context, creds Credentials, id string) error {
	_, err := c.call(ctx, request{method: http.MethodDelete, path: "/api/blogs/" + pathID(id), creds: creds}, nil)
	return err
}

// SetBlogStatus changes the publication status of a post.
func (c *Client) SetBlogStatus(ctx context.Context, creds Credentials, id, status string) error {
	_, err := c.call(ctx, request{
		method: http.MethodPut,
		path:   "/api/blogs/" + pathID(id) + "/status",
		creds:  creds,
		body:   map[string]string{"status": status},
	}, nil)
	return err
}

// SetBlogNotification flags or unflags a post as a notification.
func (c *Client) SetBlogNotification(ctx context.Context, creds Credentials, id string, on bool) error {
	_, err := c.call(ctx, request{
		method: http.MethodPut,
		path:   "/api/blogs/" + pathID(id) + "/notification",
		creds:  creds,
		body:   map[string]bool{"isNotification": on},
	}, nil)
	return err
}
