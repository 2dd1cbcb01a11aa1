// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// SocialLinks holds profile links. Each owner uses a subset.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Telegram  string `json:"telegram,omitempty"`
	Github    string `json:"github,omitempty"`
}

// SuccessStory is a student testimonial.
type SuccessStory struct {
	ID       string      `json:"_id,omitempty"`
	Name     string      `json:"name"`
	Image    string      `json:"image"`
	Company  string      `json:"company"`
	Position string      `json:"position"`
	Review   string      `json:"review"`
	Featured bool        `json:"featured"`
	Social   SocialLinks `json:"social"`
}

// Validate requires name and review.
func (s SuccessStory) Validate() FieldErrors {
	errs := FieldErrors{}
	required(errs, "name", s.Name)
	required(errs, "review", s.Review)
	return errs
}
