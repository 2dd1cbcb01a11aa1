// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"time"
)

// Inquiry types.
const (
	InquiryTrial        = "trial"
	InquiryConsultation = "consultation"
	InquiryEnrollment   = "enrollment"
)

// Inquiry statuses.
const (
	InquiryPending  = "pending"
	InquiryApproved = "approved"
	InquiryRejected = "rejected"
)

// InquiryTypes lists valid inquiry types.
var InquiryTypes = []string{InquiryTrial, InquiryConsultation, InquiryEnrollment}

// InquiryStatuses lists valid inquiry statuses.
var InquiryStatuses = []string{InquiryPending, InquiryApproved, InquiryRejected}

// Inquiry is a lead submitted through the contact form.
type Inquiry struct {
	ID         string    `json:"_id,omitempty"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	University string    `json:"university,omitempty"`
	Message    string    `json:"message"`
	Type       string    `json:"type"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
}

// Validate requires name, phone and a known type.
func (i Inquiry) Validate() FieldErrors {
	errs := FieldErrors{}
	required(errs, "name", i.Name)
	required(errs, "phone", i.Phone)
	validateOneOf(errs, "type", i.Type, MsgTypeInvalid, InquiryTypes)
	return errs
}

// ValidInquiryStatus reports whether s is a known status.
func ValidInquiryStatus(s string) bool {
	return slices.Contains(InquiryStatuses, s)
}

// Subscription is the newsletter form in the footer.
type Subscription struct {
	Email string `json:"email"`
}

// Validate requires a well-formed email.
func (s Subscription) Validate() FieldErrors {
	errs := FieldErrors{}
	validateEmail(errs, "email", s.Email)
	return errs
}
