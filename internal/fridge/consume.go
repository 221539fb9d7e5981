// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package fridge

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mgoujon/nextrecipe/internal/models"
)

// Deduction is one store mutation produced by a consumption plan.
// Remove deletes the item; otherwise NewAmount replaces the item's
// amount, expressed in the item's own storage unit.
type Deduction struct {
	ItemID    uuid.UUID
	NewAmount decimal.Decimal
	Remove    bool
}

// PlanConsumption computes the fridge mutations for preparing a recipe
// against a fridge snapshot. For every requirement it drains matching
// items — same ingredient, same unit type — in ascending expiration
// order, earliest batch first, until the required base amount is met.
//
// Unsure stock never participates: batches under a different unit type
// cannot be converted, so a recipe whose same-unit-type stock falls
// short fails with ErrInsufficientStock even when it was listed as
// feasible-with-unsure.
//
// The plan is computed against the snapshot only; the caller applies
// the deductions transactionally so that no partial depletion persists
// when coverage fails.
func PlanConsumption(recipe models.Recipe, items []models.FridgeItem, units UnitIndex) ([]Deduction, error) {
	reqs, err := ResolveRequirements(recipe, units)
	if err != nil {
		return nil, err
	}

	// Working copy of remaining base amounts, so multiple requirements
	// of the same ingredient compound instead of double-counting.
	remaining := make(map[uuid.UUID]decimal.Decimal, len(items))
	for _, item := range items {
		remaining[item.ID] = item.Amount.Mul(item.UnitRatio)
	}

	touched := make(map[uuid.UUID]bool)
	for _, req := range reqs {
		if err := drainRequirement(req, items, remaining, touched); err != nil {
			return nil, err
		}
	}

	deductions := make([]Deduction, 0, len(touched))
	for _, item := range items {
		if !touched[item.ID] {
			continue
		}
		left := remaining[item.ID]
		if left.IsZero() {
			deductions = append(deductions, Deduction{ItemID: item.ID, Remove: true})
			continue
		}
		deductions = append(deductions, Deduction{
			ItemID:    item.ID,
			NewAmount: left.Div(item.UnitRatio),
		})
	}
	return deductions, nil
}

// drainRequirement subtracts one requirement's base amount from the
// matching items, earliest expiration first.
func drainRequirement(req Requirement, items []models.FridgeItem, remaining map[uuid.UUID]decimal.Decimal, touched map[uuid.UUID]bool) error {
	candidates := make([]models.FridgeItem, 0)
	for _, item := range items {
		if item.Ingredient == req.Ingredient && item.UnitType == req.UnitType {
			candidates = append(candidates, item)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].ExpirationDate.Equal(candidates[j].ExpirationDate) {
			return candidates[i].ExpirationDate.Before(candidates[j].ExpirationDate)
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})

	outstanding := req.BaseAmount
	for _, item := range candidates {
		if !outstanding.IsPositive() {
			break
		}
		available := remaining[item.ID]
		if !available.IsPositive() {
			continue
		}
		take := decimal.Min(outstanding, available)
		remaining[item.ID] = available.Sub(take)
		outstanding = outstanding.Sub(take)
		touched[item.ID] = true
	}

	if outstanding.IsPositive() {
		return fmt.Errorf("%w: ingredient %q short by %s (base units of %s)",
			ErrInsufficientStock, req.Ingredient, outstanding.String(), req.UnitType)
	}
	return nil
}
