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

// Ingredient is a catalog reference entity. Identity is the unique
// name; ingredient matching everywhere in the system is exact-match on
// this key.
type Ingredient struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UnitType is a dimension of measurement (mass, volume, piece). Two
// quantities are comparable only if their units share a unit type.
type UnitType struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Unit is a measurement unit belonging to exactly one unit type.
// Ratio converts an amount in this unit into the type's base unit;
// the unit with ratio 1 is the base unit of its type.
type Unit struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Abbreviation string          `json:"abbreviation"`
	Ratio        decimal.Decimal `json:"ratio"`
	UnitTypeID   uuid.UUID       `json:"unit_type_id"`
	UnitType     string          `json:"unit_type"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Category is a recipe grouping label.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RecipeIngredient is one required ingredient line of a recipe:
// an exact catalog ingredient, a required amount and its unit.
// Immutable once the recipe is defined.
type RecipeIngredient struct {
	ID               uuid.UUID       `json:"id"`
	Ingredient       string          `json:"ingredient"`
	Amount           decimal.Decimal `json:"amount"`
	UnitAbbreviation string          `json:"unit"`
}

// Recipe is a catalog recipe with its required ingredient lines and
// categories. Read-only from the feasibility engine's perspective.
type Recipe struct {
	ID              uuid.UUID          `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	DurationMinutes int64              `json:"duration_minutes"`
	Ingredients     []RecipeIngredient `json:"ingredients"`
	Categories      []string           `json:"categories"`
	CreatedAt       time.Time          `json:"created_at"`
}
