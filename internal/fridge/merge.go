// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package fridge

import (
	"github.com/shopspring/decimal"

	"github.com/mgoujon/nextrecipe/internal/models"
)

// Batch is an (amount, unit) pair of a single fridge batch. Both
// batches of a merge must share a unit type; the store's composite key
// guarantees that before calling Merge.
type Batch struct {
	Amount decimal.Decimal
	Unit   models.Unit
}

// Merge combines an existing fridge batch with an incoming one of the
// same ingredient, expiration date and unit type. The surviving unit
// is whichever of the two has the greater ratio, so the sum is
// expressed in the bigger unit and precision loss from the division
// stays minimal. On equal ratios the incoming unit survives.
//
// The returned amount is existing + incoming converted into the
// surviving unit, computed with exact decimal arithmetic.
func Merge(existing, incoming Batch) Batch {
	big, small := existing, incoming
	if !existing.Unit.Ratio.GreaterThan(incoming.Unit.Ratio) {
		big, small = incoming, existing
	}
	converted := small.Amount.Mul(small.Unit.Ratio.Div(big.Unit.Ratio))
	return Batch{
		Amount: big.Amount.Add(converted),
		Unit:   big.Unit,
	}
}
