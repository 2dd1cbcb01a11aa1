// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n holds the site translations. Uzbek is the default language;
// English is offered as an alternative.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

//go:embed locales/*/messages.json
var localesFS embed.FS

// DefaultLanguage answers when nothing better matches.
const DefaultLanguage = "uz"

// SupportedLanguages lists the site languages, DefaultLanguage first.
var SupportedLanguages = []string{DefaultLanguage, "en"}

var supportedTags = []language.Tag{language.Uzbek, language.English}

// MessageFile is the layout of locales/<lang>/messages.json.
type MessageFile struct {
	Language string `json:"language"`
	Messages []struct {
		ID          string `json:"id"`
		Message     string `json:"message"`
		Translation string `json:"translation"`
	} `json:"messages"`
}

type locale struct {
	texts   map[string]string
	printer *message.Printer
}

var (
	mu      sync.RWMutex
	locales map[string]*locale
	matcher = language.NewMatcher(supportedTags)
	logger  *slog.Logger
)

// Init loads the embedded translations. It runs once at startup; tests may
// call it again.
func Init(l *slog.Logger) error {
	b := catalog.NewBuilder(catalog.Fallback(supportedTags[0]))
	loaded := make(map[string]*locale, len(SupportedLanguages))

	for i, lang := range SupportedLanguages {
		mf, err := readMessageFile(lang)
		if err != nil {
			return err
		}
		tag := supportedTags[i]
		texts := make(map[string]string, len(mf.Messages))
		for _, m := range mf.Messages {
			texts[m.ID] = m.Translation
			if err := b.SetString(tag, m.ID, m.Translation); err != nil {
				return fmt.Errorf("%s: message %q: %w", lang, m.ID, err)
			}
		}
		loaded[lang] = &locale{texts: texts}
	}
	for i, lang := range SupportedLanguages {
		loaded[lang].printer = message.NewPrinter(supportedTags[i], message.Catalog(b))
	}

	mu.Lock()
	locales, logger = loaded, l
	mu.Unlock()

	if l != nil {
		l.Info("translations loaded", "languages", SupportedLanguages)
	}
	return nil
}

func readMessageFile(lang string) (MessageFile, error) {
	var mf MessageFile
	path := "locales/" + lang + "/messages.json"
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return mf, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &mf); err != nil {
		return mf, fmt.Errorf("parsing %s: %w", path, err)
	}
	return mf, nil
}

// T translates key into lang. A key missing in lang comes from the default
// language; a key missing everywhere is returned as is, so text that is not
// a key, like an error message from the API, passes through.
func T(lang, key string, args ...any) string {
	mu.RLock()
	defer mu.RUnlock()

	loc := locales[lang]
	if loc == nil {
		loc = locales[DefaultLanguage]
	}
	if loc == nil {
		return key
	}
	if _, ok := loc.texts[key]; !ok {
		def := locales[DefaultLanguage]
		if _, ok := def.texts[key]; !ok {
			return key
		}
		if logger != nil {
			logger.Debug("missing translation", "key", key, "lang", lang)
		}
		loc = def
	}
	if len(args) == 0 {
		return loc.texts[key]
	}
	return loc.printer.Sprintf(key, args...)
}

// FormatNumber groups digits the way lang writes them: "699 000" in Uzbek
// and "699,000" in English. Fractions keep one decimal.
func FormatNumber(lang string, n float64) string {
	mu.RLock()
	loc := locales[lang]
	if loc == nil {
		loc = locales[DefaultLanguage]
	}
	mu.RUnlock()

	if loc == nil {
		return fmt.Sprintf("%.0f", n)
	}
	if n == float64(int64(n)) {
		return loc.printer.Sprintf("%d", int64(n))
	}
	return loc.printer.Sprintf("%.1f", n)
}

// MatchLanguage picks the supported language closest to an Accept-Language
// header or a bare language code.
func MatchLanguage(accept string) string {
	if accept == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return SupportedLanguages[idx]
}

// IsSupported reports whether lang, in any case, is a site language.
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, strings.ToLower(lang))
}
