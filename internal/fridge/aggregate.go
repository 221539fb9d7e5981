// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package fridge

import (
	"github.com/shopspring/decimal"

	"github.com/mgoujon/nextrecipe/internal/models"
)

// StockKey identifies one aggregated group of fridge stock.
type StockKey struct {
	Ingredient string
	UnitType   string
}

// StockGroup is the aggregate of all fridge items sharing a StockKey:
// the summed base amount and the earliest expiration date seen in the
// group. Keeping the earliest date is deliberately pessimistic — a
// recipe is only as fresh as its most at-risk matched batch.
type StockGroup struct {
	BaseAmount decimal.Decimal
	Earliest   models.Date
}

// StockAggregate is a per-request view of fridge stock grouped by
// (ingredient, unit type). Build one per listing or consumption
// request from a snapshot read; it is never cached across requests.
type StockAggregate struct {
	groups map[StockKey]StockGroup
	// unit types present per ingredient, for the "held under another
	// unit type" check behind unsure semantics
	typesByIngredient map[string][]string
}

// AggregateStock groups a fridge snapshot by (ingredient, unit type),
// summing normalized base amounts and retaining the earliest
// expiration date per group.
func AggregateStock(items []models.FridgeItem) *StockAggregate {
	agg := &StockAggregate{
		groups:            make(map[StockKey]StockGroup),
		typesByIngredient: make(map[string][]string),
	}
	for _, item := range items {
		key := StockKey{Ingredient: item.Ingredient, UnitType: item.UnitType}
		base := item.Amount.Mul(item.UnitRatio)

		group, ok := agg.groups[key]
		if !ok {
			agg.groups[key] = StockGroup{BaseAmount: base, Earliest: item.ExpirationDate}
			agg.typesByIngredient[key.Ingredient] = append(agg.typesByIngredient[key.Ingredient], key.UnitType)
			continue
		}
		group.BaseAmount = group.BaseAmount.Add(base)
		if item.ExpirationDate.Before(group.Earliest) {
			group.Earliest = item.ExpirationDate
		}
		agg.groups[key] = group
	}
	return agg
}

// Group returns the aggregate for (ingredient, unitType).
func (a *StockAggregate) Group(ingredient, unitType string) (StockGroup, bool) {
	g, ok := a.groups[StockKey{Ingredient: ingredient, UnitType: unitType}]
	return g, ok
}

// HasIngredient reports whether any stock of the ingredient exists,
// under any unit type.
func (a *StockAggregate) HasIngredient(ingredient string) bool {
	return len(a.typesByIngredient[ingredient]) > 0
}

// HasOtherUnitType reports whether the ingredient is held under at
// least one unit type other than the given one.
func (a *StockAggregate) HasOtherUnitType(ingredient, unitType string) bool {
	for _, t := range a.typesByIngredient[ingredient] {
		if t != unitType {
			return true
		}
	}
	return false
}

// EarliestAcrossTypes returns the earliest expiration date across all
// unit-type groups of the ingredient. The second return is false when
// the fridge holds no stock of the ingredient at all.
func (a *StockAggregate) EarliestAcrossTypes(ingredient string) (models.Date, bool) {
	var earliest models.Date
	found := false
	for _, t := range a.typesByIngredient[ingredient] {
		g := a.groups[StockKey{Ingredient: ingredient, UnitType: t}]
		if !found || g.Earliest.Before(earliest) {
			earliest = g.Earliest
			found = true
		}
	}
	return earliest, found
}
