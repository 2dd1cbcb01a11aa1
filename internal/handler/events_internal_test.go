// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"strings"
	"testing"

	"github.com/olegiv/hanmaru/internal/store"
)

func TestDescribeMetadata(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{"", ""},
		{"{}", ""},
		{"not json", "not json"},
		{`{"path":"/admin","error":"not found"}`, "error: not found, path: /admin"},
		{`{"status":404,"ok":false,"ms":1.5}`, "ms: 1.5, ok: false, status: 404"},
		{`{"ids":["a","b"],"user":null}`, `ids: ["a","b"], user: null`},
	}
	for _, tt := range tests {
		if got := describeMetadata(tt.raw); got != tt.want {
			t.Errorf("describeMetadata(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestEventRowsFoldLongDetails(t *testing.T) {
	long := `{"error":"` + strings.Repeat("x", detailsFold) + `"}`
	rows := eventRows([]store.Event{
		{ID: 1, Metadata: `{"a":"b"}`},
		{ID: 2, Metadata: long},
	})
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d", len(rows))
	}
	if rows[0].DetailsLong || rows[0].Details != "a: b" {
		t.Errorf("short row = %+v", rows[0])
	}
	if !rows[1].DetailsLong || rows[1].ID != 2 {
		t.Errorf("long row = %+v", rows[1])
	}
}
