// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed API call.
type Kind int

// Error kinds.
const (
	// KindServer means the API answered with an error status.
	KindServer Kind = iota + 1
	// KindNetwork means no response was received.
	KindNetwork
	// KindUnexpected covers malformed responses and local failures.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Message keys used when the API did not provide a message.
const (
	MsgNetwork = "error.network"
	MsgGeneric = "error.generic"
)

// Error is returned by every Client method that fails.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("api %s error (status %d): %s", e.Kind, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("api %s error (status %d)", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("api %s error: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("api %s error", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func hasStatus(err error, status int) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindServer && apiErr.Status == status
}

// IsNotFound reports whether the API answered 404.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether the API rejected the credentials.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden reports whether the API answered 403.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsNetwork reports whether no response was received.
func IsNetwork(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindNetwork
}

// UserMessage returns the text to show for err: the server's message when it
// sent one, the connectivity key when nothing came back, fallback otherwise.
func UserMessage(err error, fallback string) string {
	apiErr, ok := AsError(err)
	if !ok {
		return fallback
	}
	switch apiErr.Kind {
	case KindServer:
		if apiErr.Message != "" {
			return apiErr.Message
		}
	case KindNetwork:
		return MsgNetwork
	}
	return fallback
}
