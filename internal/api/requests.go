// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package api

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Amounts travel as JSON strings and are parsed with shopspring/decimal
// so quantities stay exact. float64 would corrupt values like 0.1 kg
// before they ever reach the store.

// AddFridgeItemRequest is the body of POST /api/v1/fridge/items.
type AddFridgeItemRequest struct {
	Ingredient     string `json:"ingredient" validate:"required,max=200"`
	Amount         string `json:"amount" validate:"required"`
	Unit           string `json:"unit" validate:"required,max=50"`
	ExpirationDate string `json:"expiration_date" validate:"required,dateonly"`
}

// CreateIngredientRequest is the body of POST /api/v1/catalog/ingredients.
type CreateIngredientRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateCategoryRequest is the body of POST /api/v1/catalog/categories.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateUnitTypeRequest is the body of POST /api/v1/unit-types.
type CreateUnitTypeRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateUnitRequest is the body of POST /api/v1/units.
type CreateUnitRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Abbreviation string `json:"abbreviation" validate:"required,max=50"`
	Ratio        string `json:"ratio" validate:"required"`
	UnitType     string `json:"unit_type" validate:"required,max=100"`
}

// RecipeIngredientRequest is one ingredient line of a recipe being created.
type RecipeIngredientRequest struct {
	Ingredient string `json:"ingredient" validate:"required,max=200"`
	Amount     string `json:"amount" validate:"required"`
	Unit       string `json:"unit" validate:"required,max=50"`
}

// CreateRecipeRequest is the body of POST /api/v1/catalog/recipes.
type CreateRecipeRequest struct {
	Title           string                    `json:"title" validate:"required,max=300"`
	Description     string                    `json:"description" validate:"max=5000"`
	DurationMinutes int64                     `json:"duration_minutes" validate:"gte=0,lte=10080"`
	Ingredients     []RecipeIngredientRequest `json:"ingredients" validate:"dive"`
	Categories      []string                  `json:"categories" validate:"dive,required,max=200"`
}

// parsePositiveDecimal parses an amount or ratio field, requiring a
// strictly positive value. Writes the error response on failure.
func parsePositiveDecimal(w http.ResponseWriter, r *http.Request, field, value string) (decimal.Decimal, bool) {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("%s must be a decimal number", field),
			map[string]interface{}{"field": field, "value": value})
		return decimal.Decimal{}, false
	}
	if !parsed.IsPositive() {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("%s must be greater than zero", field),
			map[string]interface{}{"field": field, "value": value})
		return decimal.Decimal{}, false
	}
	return parsed, true
}
