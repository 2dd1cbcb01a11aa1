// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Stat is a headline number on the about page.
type Stat struct {
	Count string `json:"count"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Feature is a selling point on the about page.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// TeamMember is a tutor shown on the about page.
type TeamMember struct {
	ID     string      `json:"_id,omitempty"`
	Name   string      `json:"name"`
	Role   string      `json:"role"`
	Image  string      `json:"image"`
	Bio    string      `json:"bio"`
	Social SocialLinks `json:"social"`
}

// AboutContent is the singleton about document.
type AboutContent struct {
	MainTitle       string       `json:"mainTitle"`
	MainDescription string       `json:"mainDescription"`
	MainImage       string       `json:"mainImage"`
	Stats           []Stat       `json:"stats"`
	Features        []Feature    `json:"features"`
	Team            []TeamMember `json:"team"`
}

// Normalize replaces missing lists with empty ones.
func (a AboutContent) Normalize() AboutContent {
	if a.Stats == nil {
		a.Stats = []Stat{}
	}
	if a.Features == nil {
		a.Features = []Feature{}
	}
	if a.Team == nil {
		a.Team = []TeamMember{}
	}
	return a
}

// TeamIDs returns the ids of members that exist on the server.
func (a AboutContent) TeamIDs() map[string]bool {
	ids := make(map[string]bool, len(a.Team))
	for _, m := range a.Team {
		if m.ID != "" {
			ids[m.ID] = true
		}
	}
	return ids
}
