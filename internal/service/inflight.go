// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"strings"
	"sync"
)

// ErrInFlight is returned when the same action is already running.
var ErrInFlight = errors.New("request already in progress")

// InFlight tracks running actions so that a double submit of the same
// action is rejected instead of sent twice.
type InFlight struct {
	mu      sync.Mutex
	running map[string]struct{}
}

// NewInFlight creates an empty registry.
func NewInFlight() *InFlight {
	return &InFlight{running: make(map[string]struct{})}
}

// Acquire marks the action identified by parts as running. The returned
// release func must be called when it finishes.
func (f *InFlight) Acquire(parts ...string) (release func(), err error) {
	key := strings.Join(parts, "\x00")

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.running[key]; busy {
		return nil, ErrInFlight
	}
	f.running[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.running, key)
			f.mu.Unlock()
		})
	}, nil
}

// Len returns the number of running actions.
func (f *InFlight) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.running)
}
