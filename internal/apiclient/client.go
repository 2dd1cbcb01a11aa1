// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package apiclient is the typed client for the content REST API. Every call
// takes the request context and the caller's backend credentials; nothing is
// retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a single API call.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Client talks to the content API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Upload is a file forwarded to the API in a multipart request.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

type request struct {
	method string
	path   string
	query  url.Values
	creds  Credentials
	body   any
	fields map[string]string
	files  []Upload
}

type response struct {
	status  int
	cookies []*http.Cookie
}

// call performs req and decodes a successful body into out when out is non-nil.
func (c *Client) call(ctx context.Context, req request, out any) (response, error) {
	body, contentType, err := encodeBody(req)
	if err != nil {
		return response{}, &Error{Kind: KindUnexpected, Err: err}
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return response{}, &Error{Kind: KindUnexpected, Err: fmt.Errorf("new request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("X-Request-ID", requestID(ctx))
	req.creds.apply(httpReq)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		slog.Debug("api call failed", "method", req.method, "path", req.path, "error", err)
		return response{}, &Error{Kind: KindNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("api call",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	result := response{status: resp.StatusCode, cookies: resp.Cookies()}

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return result, &Error{
			Kind:    KindServer,
			Status:  resp.StatusCode,
			Message: errorMessage(raw),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return result, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		return result, &Error{Kind: KindUnexpected, Status: resp.StatusCode, Err: fmt.Errorf("decode %s %s: %w", req.method, req.path, err)}
	}
	return result, nil
}

func encodeBody(req request) (io.Reader, string, error) {
	switch {
	case len(req.files) > 0 || len(req.fields) > 0:
		return encodeMultipart(req.fields, req.files)
	case req.body != nil:
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, "", fmt.Errorf("marshal: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	default:
		return nil, "", nil
	}
}

func encodeMultipart(fields map[string]string, files []Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// errorMessage extracts {"message": ...} or {"error": ...} from an error body.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func pathID(id string) string {
	return url.PathEscape(id)
}
