// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FridgeItem is a quantity of one ingredient physically present in the
// fridge, with one expiration date. The store guarantees at most one
// item per (ingredient, expiration date, unit type); inserts that hit
// an existing key are merged into it.
type FridgeItem struct {
	ID               uuid.UUID       `json:"id"`
	Ingredient       string          `json:"ingredient"`
	Amount           decimal.Decimal `json:"amount"`
	UnitID           uuid.UUID       `json:"unit_id"`
	UnitAbbreviation string          `json:"unit"`
	UnitRatio        decimal.Decimal `json:"-"`
	UnitTypeID       uuid.UUID       `json:"-"`
	UnitType         string          `json:"unit_type"`
	ExpirationDate   Date            `json:"expiration_date"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// FeasibleRecipe pairs a recipe with the outcome of matching it
// against the current fridge stock. Derived, never persisted.
//
// PriorityIngredient is the satisfied ingredient whose matched fridge
// stock expires soonest; PriorityDate is that date. Both are empty for
// recipes without ingredient requirements. UnsureIngredients lists
// ingredients present in the fridge only under a unit type that cannot
// be converted to the recipe's requirement, so availability could not
// be decided with certainty.
type FeasibleRecipe struct {
	Recipe             Recipe   `json:"recipe"`
	PriorityIngredient string   `json:"priority_ingredient,omitempty"`
	PriorityDate       *Date    `json:"priority_date,omitempty"`
	UnsureIngredients  []string `json:"unsure_ingredients"`
}
