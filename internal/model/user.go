// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the wire types exchanged with the content API and
// the validation rules applied before any request is sent.
package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the account as returned by the auth endpoints.
type User struct {
	ID             string `json:"_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	IsVerified     bool   `json:"isVerified"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Initial returns the upper-cased first letter of the name for avatars.
func (u *User) Initial() string {
	if u == nil {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(u.Name))
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

// UserRef is a reference to a user. The API sends either a bare id or a
// populated object.
type UserRef struct {
	ID             string `json:"_id"`
	Name           string `json:"name,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// UnmarshalJSON accepts both "id" and {"_id": ...}.
func (r *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	type plain UserRef
	return json.Unmarshal(data, (*plain)(r))
}

// SignIn is the login form.
type SignIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login form.
func (s SignIn) Validate() FieldErrors {
	errs := FieldErrors{}
	validateEmail(errs, "email", s.Email)
	validatePassword(errs, "password", s.Password)
	return errs
}

// Registration is the sign-up form. ConfirmPassword never leaves the server.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// Validate checks the sign-up form.
func (r Registration) Validate() FieldErrors {
	errs := FieldErrors{}
	if required(errs, "name", r.Name) && utf8.RuneCountInString(strings.TrimSpace(r.Name)) < MinNameLength {
		errs.Add("name", MsgNameShort)
	}
	validateEmail(errs, "email", r.Email)
	validatePassword(errs, "password", r.Password)
	if r.ConfirmPassword != r.Password {
		errs.Add("confirmPassword", MsgPasswordMismatch)
	}
	return errs
}

// ProfileUpdate is the profile form.
type ProfileUpdate struct {
	Name        string
	ImageSize   int64
	ImageType   string
	HasNewImage bool
}

// Validate checks the profile form.
func (p ProfileUpdate) Validate() FieldErrors {
	errs := FieldErrors{}
	required(errs, "name", p.Name)
	if p.HasNewImage {
		if !strings.HasPrefix(p.ImageType, "image/") {
			errs.Add("profilePicture", MsgImageType)
		} else if p.ImageSize > MaxImageBytes {
			errs.Add("profilePicture", MsgImageTooLarge)
		}
	}
	return errs
}
