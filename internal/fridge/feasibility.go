// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package fridge

import (
	"github.com/mgoujon/nextrecipe/internal/models"
)

// Evaluate matches one recipe against an aggregated fridge snapshot.
//
// Each ingredient requirement lands in one of three states:
//
//   - available: the same-unit-type aggregate covers the required base
//     amount; the group's earliest expiration becomes a priority
//     candidate.
//   - available but unsure: the same-unit-type aggregate is missing or
//     short, but the fridge holds the ingredient under another unit
//     type, so an unconvertible batch might cover the gap. The
//     earliest date across all of the ingredient's groups becomes the
//     priority candidate.
//   - unavailable: the fridge holds no stock of the ingredient under
//     any unit type. The recipe is infeasible.
//
// All requirements are evaluated even after an unavailable one, so the
// unsure list of a feasible recipe is always complete. For an
// infeasible recipe the partial priority and unsure data is discarded
// and ok is false.
//
// The priority ingredient is the satisfied requirement with the
// minimum candidate date; ties break on the lexicographically smallest
// ingredient name so the choice is deterministic. A recipe with no
// requirements is trivially feasible with no priority ingredient.
func Evaluate(recipe models.Recipe, stock *StockAggregate, units UnitIndex) (models.FeasibleRecipe, bool, error) {
	result := models.FeasibleRecipe{
		Recipe:            recipe,
		UnsureIngredients: []string{},
	}

	reqs, err := ResolveRequirements(recipe, units)
	if err != nil {
		return models.FeasibleRecipe{}, false, err
	}

	feasible := true
	for _, req := range reqs {
		date, unsure, available := checkRequirement(req, stock)
		if !available {
			feasible = false
			continue
		}
		if unsure {
			result.UnsureIngredients = append(result.UnsureIngredients, req.Ingredient)
		}
		updatePriority(&result, req.Ingredient, date)
	}

	if !feasible {
		return models.FeasibleRecipe{}, false, nil
	}
	return result, true, nil
}

// checkRequirement decides availability of one requirement against the
// aggregate and returns the candidate priority date.
func checkRequirement(req Requirement, stock *StockAggregate) (date models.Date, unsure, available bool) {
	if group, ok := stock.Group(req.Ingredient, req.UnitType); ok && group.BaseAmount.GreaterThanOrEqual(req.BaseAmount) {
		return group.Earliest, false, true
	}
	if stock.HasOtherUnitType(req.Ingredient, req.UnitType) {
		earliest, _ := stock.EarliestAcrossTypes(req.Ingredient)
		return earliest, true, true
	}
	// Stock may exist under the same unit type but short, with no other
	// type to fall back on: still unavailable.
	return models.Date{}, false, false
}

// updatePriority tracks the minimum candidate date, breaking ties on
// ingredient name.
func updatePriority(result *models.FeasibleRecipe, ingredient string, date models.Date) {
	if result.PriorityDate == nil ||
		date.Before(*result.PriorityDate) ||
		(date.Equal(*result.PriorityDate) && ingredient < result.PriorityIngredient) {
		d := date
		result.PriorityDate = &d
		result.PriorityIngredient = ingredient
	}
}
