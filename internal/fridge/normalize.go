// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package fridge

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mgoujon/nextrecipe/internal/models"
)

// Normalized is a quantity re-expressed in the base unit of its unit
// type. Two Normalized values are additive and comparable iff their
// UnitType names match; comparing across unit types is meaningless and
// must be treated as "unsure" by callers, never coerced.
type Normalized struct {
	UnitType   string
	BaseAmount decimal.Decimal
}

// Normalize converts an (amount, unit) pair into the canonical
// (unit type, base amount) pair, with baseAmount = amount * unit.Ratio.
func Normalize(amount decimal.Decimal, unit models.Unit) Normalized {
	return Normalized{
		UnitType:   unit.UnitType,
		BaseAmount: amount.Mul(unit.Ratio),
	}
}

// UnitIndex resolves unit abbreviations to their catalog records.
type UnitIndex map[string]models.Unit

// NewUnitIndex builds a UnitIndex from a unit listing.
func NewUnitIndex(units []models.Unit) UnitIndex {
	idx := make(UnitIndex, len(units))
	for _, u := range units {
		idx[u.Abbreviation] = u
	}
	return idx
}

// Lookup returns the unit for an abbreviation, or ErrUnknownUnit.
func (idx UnitIndex) Lookup(abbreviation string) (models.Unit, error) {
	u, ok := idx[abbreviation]
	if !ok {
		return models.Unit{}, fmt.Errorf("%w: %q", ErrUnknownUnit, abbreviation)
	}
	return u, nil
}

// Requirement is one recipe ingredient line normalized for matching.
type Requirement struct {
	Ingredient string
	Normalized
}

// ResolveRequirements normalizes every ingredient line of a recipe
// using the given unit index. Fails with ErrUnknownUnit when a line
// references an abbreviation missing from the catalog.
func ResolveRequirements(recipe models.Recipe, units UnitIndex) ([]Requirement, error) {
	reqs := make([]Requirement, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		unit, err := units.Lookup(line.UnitAbbreviation)
		if err != nil {
			return nil, fmt.Errorf("recipe %s ingredient %q: %w", recipe.ID, line.Ingredient, err)
		}
		reqs = append(reqs, Requirement{
			Ingredient: line.Ingredient,
			Normalized: Normalize(line.Amount, unit),
		})
	}
	return reqs, nil
}
