// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package fridge

import "errors"

// Domain errors surfaced by the engine. The store and HTTP layers wrap
// and map these; "unsure" is deliberately not among them because it is
// a result value, not a failure.
var (
	// ErrUnknownIngredient indicates a referenced ingredient name has no
	// catalog entry.
	ErrUnknownIngredient = errors.New("unknown ingredient")

	// ErrUnknownUnit indicates a referenced unit abbreviation has no
	// catalog entry.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrInsufficientStock indicates fridge stock no longer covers a
	// recipe requirement at consumption time. Feasibility checks reduce
	// the odds of hitting this, but the fridge may have changed between
	// the check and the consumption.
	ErrInsufficientStock = errors.New("insufficient fridge stock")
)
