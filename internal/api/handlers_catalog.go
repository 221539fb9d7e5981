// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mgoujon/nextrecipe/internal/database"
)

// Catalog handlers cover the reference data everything else points at:
// ingredients, categories, unit types, units and recipes.

// handleCreateIngredient adds an ingredient to the catalog.
//
// POST /api/v1/catalog/ingredients
func (s *Server) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req CreateIngredientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ing, err := s.db.CreateIngredient(r.Context(), req.Name)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, ing, started)
}

// handleListIngredients returns all catalog ingredients.
//
// GET /api/v1/catalog/ingredients
func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	ingredients, err := s.db.ListIngredients(r.Context())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"ingredients": ingredients,
		"count":       len(ingredients),
	}, started)
}

// handleDeleteIngredient removes a catalog ingredient by name.
//
// DELETE /api/v1/catalog/ingredients/{name}
func (s *Server) handleDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	name := chi.URLParam(r, "name")
	if err := s.db.DeleteIngredient(r.Context(), name); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{"deleted": name}, started)
}

// handleCreateCategory adds a recipe category.
//
// POST /api/v1/catalog/categories
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cat, err := s.db.CreateCategory(r.Context(), req.Name)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, cat, started)
}

// handleListCategories returns all recipe categories.
//
// GET /api/v1/catalog/categories
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	categories, err := s.db.ListCategories(r.Context())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	}, started)
}

// handleDeleteCategory removes a category and detaches it from recipes.
//
// DELETE /api/v1/catalog/categories/{id}
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			"id must be a valid UUID", nil)
		return
	}

	if err := s.db.DeleteCategory(r.Context(), id); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{"deleted": id}, started)
}

// handleCreateUnitType adds a unit type (e.g. "mass").
//
// POST /api/v1/unit-types
func (s *Server) handleCreateUnitType(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req CreateUnitTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ut, err := s.db.CreateUnitType(r.Context(), req.Name)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, ut, started)
}

// handleListUnitTypes returns all unit types.
//
// GET /api/v1/unit-types
func (s *Server) handleListUnitTypes(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	types, err := s.db.ListUnitTypes(r.Context())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"unit_types": types,
		"count":      len(types),
	}, started)
}

// handleCreateUnit adds a unit under an existing unit type. The ratio
// expresses the unit in its type's base unit, e.g. kg has ratio 1000
// when g is the base.
//
// POST /api/v1/units
func (s *Server) handleCreateUnit(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req CreateUnitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ratio, ok := parsePositiveDecimal(w, r, "ratio", req.Ratio)
	if !ok {
		return
	}

	u, err := s.db.CreateUnit(r.Context(), req.Name, req.Abbreviation, ratio, req.UnitType)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, u, started)
}

// handleListUnits returns all units with their unit types.
//
// GET /api/v1/units
func (s *Server) handleListUnits(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	units, err := s.db.ListUnits(r.Context())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"units": units,
		"count": len(units),
	}, started)
}

// handleDeleteUnit removes a unit by abbreviation.
//
// DELETE /api/v1/units/{abbreviation}
func (s *Server) handleDeleteUnit(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	abbreviation := chi.URLParam(r, "abbreviation")
	if err := s.db.DeleteUnit(r.Context(), abbreviation); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{"deleted": abbreviation}, started)
}

// handleCreateRecipe creates a recipe with its ingredient lines and
// categories. All referenced ingredients, units and categories must
// already exist in the catalog.
//
// POST /api/v1/catalog/recipes
func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req CreateRecipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := database.RecipeInput{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Categories:      req.Categories,
	}
	for _, line := range req.Ingredients {
		amount, ok := parsePositiveDecimal(w, r, "ingredients.amount", line.Amount)
		if !ok {
			return
		}
		input.Ingredients = append(input.Ingredients, database.RecipeIngredientInput{
			Ingredient:       line.Ingredient,
			Amount:           amount,
			UnitAbbreviation: line.Unit,
		})
	}

	recipe, err := s.db.CreateRecipe(r.Context(), input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, recipe, started)
}

// handleListRecipes returns all recipes in the catalog.
//
// GET /api/v1/catalog/recipes
func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	recipes, err := s.db.ListRecipes(r.Context())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"recipes": recipes,
		"count":   len(recipes),
	}, started)
}

// handleGetRecipe returns one recipe by ID.
//
// GET /api/v1/catalog/recipes/{id}
func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			"id must be a valid UUID", nil)
		return
	}

	recipe, err := s.db.GetRecipe(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, recipe, started)
}

// handleDeleteRecipe removes a recipe with its lines and category links.
//
// DELETE /api/v1/catalog/recipes/{id}
func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			"id must be a valid UUID", nil)
		return
	}

	if err := s.db.DeleteRecipe(r.Context(), id); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{"deleted": id}, started)
}
