// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package fridge

import (
	"sort"

	"github.com/mgoujon/nextrecipe/internal/models"
)

// Rank orders feasible recipes ascending by priority date, so the
// recipe whose matched stock expires soonest lists first. Ties break
// on recipe title, then recipe ID; recipes without a priority date
// (no ingredient requirements) sort after all dated ones, by title.
func Rank(results []models.FeasibleRecipe) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		switch {
		case a.PriorityDate == nil && b.PriorityDate == nil:
			// fall through to title
		case a.PriorityDate == nil:
			return false
		case b.PriorityDate == nil:
			return true
		case !a.PriorityDate.Equal(*b.PriorityDate):
			return a.PriorityDate.Before(*b.PriorityDate)
		}
		if a.Recipe.Title != b.Recipe.Title {
			return a.Recipe.Title < b.Recipe.Title
		}
		return a.Recipe.ID.String() < b.Recipe.ID.String()
	})
}

// ListFeasible evaluates every recipe against a fridge snapshot and
// returns the feasible ones ranked by urgency. The stock aggregate is
// built once for the whole listing, not once per recipe.
func ListFeasible(recipes []models.Recipe, items []models.FridgeItem, units UnitIndex) ([]models.FeasibleRecipe, error) {
	stock := AggregateStock(items)
	results := make([]models.FeasibleRecipe, 0, len(recipes))
	for _, recipe := range recipes {
		result, ok, err := Evaluate(recipe, stock, units)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, result)
		}
	}
	Rank(results)
	return results, nil
}
