// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initCatalog(t *testing.T) {
	t.Helper()
	require.NoError(t, Init(nil))
}

func TestEveryKeyTranslates(t *testing.T) {
	initCatalog(t)

	for _, lang := range SupportedLanguages {
		mf, err := readMessageFile(lang)
		require.NoError(t, err)
		require.Equal(t, lang, mf.Language)
		require.NotEmpty(t, mf.Messages)

		for _, m := range mf.Messages {
			assert.Equal(t, m.Translation, T(lang, m.ID), "%s/%s", lang, m.ID)
		}
	}
}

func TestT(t *testing.T) {
	initCatalog(t)

	tests := []struct {
		lang string
		key  string
		args []any
		want string
	}{
		{"uz", "btn.save", nil, "Saqlash"},
		{"en", "btn.save", nil, "Save"},
		{"uz", "nav.home", nil, "Bosh sahifa"},
		{"en", "nav.home", nil, "Home"},
		{"en", "blog.reading_time", []any{3}, "3 min read"},
		{"uz", "blog.reading_time", []any{3}, "3 daqiqa o'qish"},
		{"de", "btn.save", nil, "Saqlash"},
		{"en", "nonexistent.key", nil, "nonexistent.key"},
		{"uz", "Email already registered", nil, "Email already registered"},
		{"en", "100% free", nil, "100% free"},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, T(tt.lang, tt.key, tt.args...))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	initCatalog(t)

	assert.Equal(t, "699,000", FormatNumber("en", 699000))
	assert.Equal(t, "4.5", FormatNumber("en", 4.5))
	assert.Equal(t, "12", FormatNumber("en", 12))

	uz := FormatNumber("uz", 699000)
	assert.True(t, strings.HasPrefix(uz, "699") && strings.HasSuffix(uz, "000"), uz)
	assert.NotContains(t, uz, ",")
}

func TestMatchLanguage(t *testing.T) {
	tests := map[string]string{
		"":                "uz",
		"uz":              "uz",
		"en":              "en",
		"en-US":           "en",
		"uz-Latn-UZ":      "uz",
		"de":              "uz",
		"en-US, uz;q=0.9": "en",
		"uz, en;q=0.9":    "uz",
		"not a header!!":  "uz",
	}
	for in, want := range tests {
		assert.Equal(t, want, MatchLanguage(in), in)
	}
}

func TestIsSupported(t *testing.T) {
	for lang, want := range map[string]bool{"uz": true, "en": true, "EN": true, "ru": false, "": false} {
		assert.Equal(t, want, IsSupported(lang), lang)
	}
}

func TestMessageFilesHaveSameUniqueKeys(t *testing.T) {
	keys := make(map[string]map[string]bool, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		mf, err := readMessageFile(lang)
		require.NoError(t, err)

		keys[lang] = make(map[string]bool, len(mf.Messages))
		for _, m := range mf.Messages {
			assert.False(t, keys[lang][m.ID], "duplicate id %q in %s", m.ID, lang)
			keys[lang][m.ID] = true
		}
	}

	ref := keys[DefaultLanguage]
	for _, lang := range SupportedLanguages[1:] {
		for k := range ref {
			assert.True(t, keys[lang][k], "%q missing in %s", k, lang)
		}
		for k := range keys[lang] {
			assert.True(t, ref[k], "%q missing in %s", k, DefaultLanguage)
		}
	}
}
