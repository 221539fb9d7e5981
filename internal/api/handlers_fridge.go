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

	"github.com/mgoujon/nextrecipe/internal/fridge"
	"github.com/mgoujon/nextrecipe/internal/logging"
	"github.com/mgoujon/nextrecipe/internal/metrics"
	"github.com/mgoujon/nextrecipe/internal/models"
)

// handleListFridgeItems returns the full fridge inventory.
//
// GET /api/v1/fridge/items
func (s *Server) handleListFridgeItems(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	items, err := s.db.ListFridgeItems(r.Context())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	}, started)
}

// handleAddFridgeItem adds stock to the fridge. An existing record
// sharing the ingredient, expiration date and unit type absorbs the
// insert, so the response may carry a pre-existing ID with a merged
// amount. 201 signals a new record, 200 a merge.
//
// POST /api/v1/fridge/items
func (s *Server) handleAddFridgeItem(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req AddFridgeItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, ok := parsePositiveDecimal(w, r, "amount", req.Amount)
	if !ok {
		return
	}
	expiration, err := models.ParseDate(req.ExpirationDate)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			"expiration_date must be a date in YYYY-MM-DD form",
			map[string]interface{}{"field": "expiration_date", "value": req.ExpirationDate})
		return
	}

	item, err := s.db.AddFridgeItem(r.Context(), req.Ingredient, amount, req.Unit, expiration)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	status := http.StatusCreated
	if !item.CreatedAt.Equal(item.UpdatedAt) {
		status = http.StatusOK
	}

	logging.Ctx(r.Context()).Info().
		Str("ingredient", item.Ingredient).
		Str("amount", item.Amount.String()).
		Str("unit", item.UnitAbbreviation).
		Str("expiration", item.ExpirationDate.String()).
		Bool("merged", status == http.StatusOK).
		Msg("Fridge item added")

	respondJSON(w, r, status, item, started)
}

// handleDeleteFridgeItem removes one fridge item.
//
// DELETE /api/v1/fridge/items/{id}
func (s *Server) handleDeleteFridgeItem(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			"id must be a valid UUID", nil)
		return
	}

	if err := s.db.DeleteFridgeItem(r.Context(), id); err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{"deleted": id}, started)
}

// handleFeasibleRecipes lists every recipe the current fridge stock
// covers, ranked so the recipe whose matched stock expires soonest
// comes first.
//
// GET /api/v1/fridge/recipes
func (s *Server) handleFeasibleRecipes(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	ctx := r.Context()

	recipes, err := s.db.ListRecipes(ctx)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	items, err := s.db.ListFridgeItems(ctx)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	units, err := s.db.ListUnits(ctx)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	results, err := fridge.ListFeasible(recipes, items, fridge.NewUnitIndex(units))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	metrics.FeasibilityEvaluations.Inc()

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"recipes": results,
		"count":   len(results),
	}, started)
}

// handleConsumeRecipe marks a recipe as prepared and depletes its
// ingredient amounts from the fridge. Stock expiring soonest is
// consumed first; items drained to zero disappear from the fridge.
// The whole deduction is transactional: if stock no longer covers the
// recipe, nothing is consumed and INSUFFICIENT_STOCK is returned.
//
// POST /api/v1/fridge/recipes/{id}/consume
func (s *Server) handleConsumeRecipe(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			"id must be a valid UUID", nil)
		return
	}

	if err := s.db.ConsumeRecipe(r.Context(), id); err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("recipe_id", id.String()).
		Msg("Recipe consumed")

	respondJSON(w, r, http.StatusOK, map[string]interface{}{"consumed": id}, started)
}
