// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

// Package fridge implements the recipe feasibility engine: unit-aware
// quantity normalization, aggregation of fridge stock, feasibility
// evaluation with "unsure" semantics, urgency ranking, and consumption
// planning.
//
// Everything in this package is pure computation over snapshots passed
// in by the caller. The package holds no state between calls; the
// store (internal/database) owns persistence and calls into this
// package from inside its transactions.
//
// # Unsure semantics
//
// Quantities are comparable only when their units share a unit type.
// When a recipe requires an ingredient in one unit type and the fridge
// holds that ingredient only (or additionally) under another, the
// engine cannot rule feasibility in or out. Such ingredients are
// reported as unsure result values; a unit-type mismatch is never an
// error.
package fridge
