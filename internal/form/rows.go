// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form decodes the admin editor forms and edits their list-valued
// fields. Row helpers never modify the slice they are given.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AddRow returns a copy of rows with row appended.
func AddRow[T any](rows []T, row T) []T {
	out := make([]T, len(rows), len(rows)+1)
	copy(out, rows)
	return append(out, row)
}

// UpdateRow returns a copy of rows with the row at i replaced. An index out of
// range returns an unchanged copy.
func UpdateRow[T any](rows []T, i int, row T) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	if i >= 0 && i < len(out) {
		out[i] = row
	}
	return out
}

// RemoveRow returns a copy of rows without the row at i. An index out of
// range returns an unchanged copy.
func RemoveRow[T any](rows []T, i int) []T {
	if i < 0 || i >= len(rows) {
		out := make([]T, len(rows))
		copy(out, rows)
		return out
	}
	out := make([]T, 0, len(rows)-1)
	out = append(out, rows[:i]...)
	return append(out, rows[i+1:]...)
}

// Op kinds.
const (
	OpAdd    = "add"
	OpRemove = "remove"
)

// Op is a row edit requested by one of the editor's submit buttons, such as
// "add:features" or "remove:features:2".
type Op struct {
	Kind  string
	Field string
	Index int
}

// ErrInvalidOp reports an "op" value that names no row operation.
var ErrInvalidOp = errors.New("invalid row operation")

// ParseOp parses the value of an "op" button. An empty value yields the zero
// Op, which means the form is being saved. Any other value that does not
// parse returns ErrInvalidOp.
func ParseOp(s string) (Op, error) {
	if s == "" {
		return Op{}, nil
	}
	parts := strings.Split(s, ":")
	switch {
	case len(parts) == 2 && parts[0] == OpAdd && parts[1] != "":
		return Op{Kind: OpAdd, Field: parts[1]}, nil
	case len(parts) == 3 && parts[0] == OpRemove && parts[1] != "":
		i, err := strconv.Atoi(parts[2])
		if err != nil || i < 0 {
			return Op{}, ErrInvalidOp
		}
		return Op{Kind: OpRemove, Field: parts[1], Index: i}, nil
	default:
		return Op{}, ErrInvalidOp
	}
}

// IsSave reports whether o is the zero Op of a plain submit.
func (o Op) IsSave() bool { return o.Kind == "" }

// String encodes op back into a button value.
func (op Op) String() string {
	if op.Kind == OpRemove {
		return fmt.Sprintf("%s:%s:%d", op.Kind, op.Field, op.Index)
	}
	return op.Kind + ":" + op.Field
}

// Apply performs op on rows, appending zero for an add.
func Apply[T any](rows []T, op Op, zero T) []T {
	switch op.Kind {
	case OpAdd:
		return AddRow(rows, zero)
	case OpRemove:
		return RemoveRow(rows, op.Index)
	default:
		return rows
	}
}
