// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Directive is one Content-Security-Policy directive. No sources renders
// the bare name, as upgrade-insecure-requests needs.
type Directive struct {
	Name    string
	Sources []string
}

// SecurityPolicy is the set of headers sent with every page.
type SecurityPolicy struct {
	CSP []Directive
	// HSTS is the Strict-Transport-Security max-age; zero sends none.
	HSTS             time.Duration
	HSTSSubdomains   bool
	FrameOptions     string
	ReferrerPolicy   string
	DisabledFeatures []string
	SkipPathPrefixes []string
}

// SitePolicy is the policy of the site. Pictures come from the API, so a
// plain-HTTP apiBaseURL, as in local development, is added to img-src.
func SitePolicy(isDev bool, apiBaseURL string) SecurityPolicy {
	img := []string{"'self'", "data:", "blob:", "https:"}
	if u, err := url.Parse(apiBaseURL); err == nil && u.Scheme == "http" && u.Host != "" {
		img = append(img, u.Scheme+"://"+u.Host)
	}

	p := SecurityPolicy{
		CSP: []Directive{
			{"default-src", []string{"'self'"}},
			{"script-src", []string{"'self'"}},
			{"style-src", []string{"'self'", "'unsafe-inline'"}},
			{"img-src", img},
			{"font-src", []string{"'self'", "data:"}},
			{"connect-src", []string{"'self'"}},
			{"frame-src", []string{"https://www.youtube.com", "https://www.google.com"}},
			{"object-src", []string{"'none'"}},
			{"base-uri", []string{"'self'"}},
			{"form-action", []string{"'self'"}},
			{"frame-ancestors", []string{"'self'"}},
		},
		FrameOptions:   "SAMEORIGIN",
		ReferrerPolicy: "strict-origin-when-cross-origin",
		DisabledFeatures: []string{
			"accelerometer", "browsing-topics", "camera", "geolocation",
			"gyroscope", "magnetometer", "microphone", "payment", "usb",
		},
	}
	if !isDev {
		p.CSP = append(p.CSP, Directive{Name: "upgrade-insecure-requests"})
		p.HSTS = 365 * 24 * time.Hour
		p.HSTSSubdomains = true
	}
	return p
}

// ContentSecurityPolicy renders the CSP header value.
func (p SecurityPolicy) ContentSecurityPolicy() string {
	parts := make([]string, 0, len(p.CSP))
	for _, d := range p.CSP {
		parts = append(parts, strings.TrimSpace(d.Name+" "+strings.Join(d.Sources, " ")))
	}
	return strings.Join(parts, "; ")
}

// Header renders the policy as response headers.
func (p SecurityPolicy) Header() http.Header {
	h := http.Header{}
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-XSS-Protection", "1; mode=block")
	if len(p.CSP) > 0 {
		h.Set("Content-Security-Policy", p.ContentSecurityPolicy())
	}
	if p.HSTS > 0 {
		v := "max-age=" + strconv.Itoa(int(p.HSTS.Seconds()))
		if p.HSTSSubdomains {
			v += "; includeSubDomains"
		}
		h.Set("Strict-Transport-Security", v)
	}
	if p.FrameOptions != "" {
		h.Set("X-Frame-Options", p.FrameOptions)
	}
	if p.ReferrerPolicy != "" {
		h.Set("Referrer-Policy", p.ReferrerPolicy)
	}
	if len(p.DisabledFeatures) > 0 {
		h.Set("Permissions-Policy", strings.Join(p.DisabledFeatures, "=(), ")+"=()")
	}
	return h
}

// SecurityHeaders sets the headers of p on every response outside
// p.SkipPathPrefixes.
func SecurityHeaders(p SecurityPolicy) func(http.Handler) http.Handler {
	headers := p.Header()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasAnyPrefix(r.URL.Path, p.SkipPathPrefixes) {
				dst := w.Header()
				for k, v := range headers {
					dst[k] = v
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
