// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"
)

// Validation limits.
const (
	MinPasswordLength = 6
	MinNameLength     = 2
	MaxImageBytes     = 5 << 20
	MinRating         = 1
	MaxRating         = 5
)

// Validation message keys. They are translated when rendered.
const (
	MsgRequired         = "validation.required"
	MsgEmailInvalid     = "validation.email_invalid"
	MsgPasswordShort    = "validation.password_short"
	MsgNameShort        = "validation.name_short"
	MsgPasswordMismatch = "validation.password_mismatch"
	MsgRatingRange      = "validation.rating_range"
	MsgStatusInvalid    = "validation.status_invalid"
	MsgTypeInvalid      = "validation.type_invalid"
	MsgImageType        = "validation.image_type"
	MsgImageTooLarge    = "validation.image_too_large"
	MsgNumberInvalid    = "validation.number_invalid"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// FieldErrors maps a form field name to a message key.
type FieldErrors map[string]string

// Add records msg for field unless the field already has an error.
func (e FieldErrors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Has reports whether field has an error.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message for field.
func (e FieldErrors) Get(field string) string {
	return e[field]
}

// Empty reports whether there are no errors.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Error implements error with fields in a stable order.
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return strings.Join(parts, "; ")
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func required(errs FieldErrors, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, MsgRequired)
		return false
	}
	return true
}

func validateEmail(errs FieldErrors, field, value string) {
	if required(errs, field, value) && !ValidEmail(value) {
		errs.Add(field, MsgEmailInvalid)
	}
}

func validatePassword(errs FieldErrors, field, value string) {
	if value == "" {
		errs.Add(field, MsgRequired)
		return
	}
	if utf8.RuneCountInString(value) < MinPasswordLength {
		errs.Add(field, MsgPasswordShort)
	}
}

func validateOneOf(errs FieldErrors, field, value, msg string, allowed []string) {
	if !slices.Contains(allowed, value) {
		errs.Add(field, msg)
	}
}
