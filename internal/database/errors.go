// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package database

import (
	"errors"
	"strings"
)

// Store errors. Domain errors (unknown references, insufficient stock)
// live in the fridge package; these cover the store itself.
var (
	// ErrNotFound indicates the addressed record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConcurrentModification indicates an optimistic-concurrency
	// conflict persisted after the store's own retries. The operation
	// is safe to retry because it re-reads state on every attempt.
	ErrConcurrentModification = errors.New("concurrent modification")
)

// isConflict reports whether an error is a DuckDB write-write conflict
// or a unique-constraint violation from a racing writer. DuckDB
// exposes both only through the error text.
func isConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "conflict") ||
		strings.Contains(msg, "duplicate key")
}

// isForeignKeyViolation reports whether an error is a foreign key
// constraint failure, which the fridge and catalog operations map to
// unknown-reference or in-use errors.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key")
}
