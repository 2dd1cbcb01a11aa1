// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":                    "hello-world",
		"  Learning Hangul, fast!  ":     "learning-hangul-fast",
		"TOPIK II: 6-level tips":         "topik-ii-6-level-tips",
		"Café résumé":                    "cafe-resume",
		"O'zbek tilida koreys tili":      "ozbek-tilida-koreys-tili",
		"Hello - World":                  "hello-world",
		"!@#$%^&*()":                     "",
		"":                               "",
		"Spring intake -- 2026 edition ": "spring-intake-2026-edition",
	}
	for input, want := range tests {
		if got := Slugify(input); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSlugifyTransliterates(t *testing.T) {
	for _, input := range []string{"한국어 공부", "Корейский язык", "日本語タイトル"} {
		got := Slugify(input)
		if got == "" || strings.Trim(got, "abcdefghijklmnopqrstuvwxyz0123456789-") != "" {
			t.Errorf("Slugify(%q) = %q, want a non-empty ASCII slug", input, got)
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") || strings.Contains(got, "--") {
			t.Errorf("Slugify(%q) = %q has stray hyphens", input, got)
		}
	}

	if got := Slugify("TOPIK 한국어"); !strings.HasPrefix(got, "topik-") {
		t.Errorf("Slugify kept no latin prefix: %q", got)
	}
}

func TestSlugifyTruncatesAtWord(t *testing.T) {
	title := strings.Repeat("hangul ", 20)
	got := Slugify(title)
	if len(got) > MaxSlugLen {
		t.Fatalf("len = %d, over %d", len(got), MaxSlugLen)
	}
	if strings.HasSuffix(got, "-") || !strings.HasSuffix(got, "hangul") {
		t.Errorf("cut inside a word: %q", got)
	}

	long := strings.Repeat("a", MaxSlugLen+10)
	if got := Slugify(long); got != long[:MaxSlugLen] {
		t.Errorf("single long word = %q", got)
	}
}
