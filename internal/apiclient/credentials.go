// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"maps"
	"net/http"
	"sort"
)

// TokenCookie is the cookie the API uses for its session token.
const TokenCookie = "token"

// Credentials are the cookies the API issued to one browser session. They are
// replayed on every call made on behalf of that session.
type Credentials map[string]string

// Empty reports whether there is nothing to send.
func (c Credentials) Empty() bool {
	return len(c) == 0
}

// Merge returns c updated with cookies from a response. Cookies the API
// expires are removed.
func (c Credentials) Merge(cookies []*http.Cookie) Credentials {
	out := maps.Clone(c)
	if out == nil {
		out = Credentials{}
	}
	for _, ck := range cookies {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(out, ck.Name)
			continue
		}
		out[ck.Name] = ck.Value
	}
	return out
}

func (c Credentials) apply(req *http.Request) {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		req.AddCookie(&http.Cookie{Name: name, Value: c[name]})
	}
}
