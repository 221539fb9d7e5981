// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package fridge

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mgoujon/nextrecipe/internal/models"
)

// testUnits builds a small catalog: g/kg (mass), ml/l (volume),
// pc (piece).
func testUnits() UnitIndex {
	g := massUnit("g", "1")
	kg := massUnit("kg", "1000")
	ml := models.Unit{ID: uuid.New(), Abbreviation: "ml", Ratio: decimal.RequireFromString("1"), UnitType: "volume"}
	l := models.Unit{ID: uuid.New(), Abbreviation: "l", Ratio: decimal.RequireFromString("1000"), UnitType: "volume"}
	pc := models.Unit{ID: uuid.New(), Abbreviation: "pc", Ratio: decimal.RequireFromString("1"), UnitType: "piece"}
	return NewUnitIndex([]models.Unit{g, kg, ml, l, pc})
}

func fridgeItem(units UnitIndex, ingredient, amount, unit string, expiration models.Date) models.FridgeItem {
	u := units[unit]
	return models.FridgeItem{
		ID:               uuid.New(),
		Ingredient:       ingredient,
		Amount:           decimal.RequireFromString(amount),
		UnitID:           u.ID,
		UnitAbbreviation: u.Abbreviation,
		UnitRatio:        u.Ratio,
		UnitTypeID:       u.UnitTypeID,
		UnitType:         u.UnitType,
		ExpirationDate:   expiration,
	}
}

func testRecipe(title string, lines ...models.RecipeIngredient) models.Recipe {
	return models.Recipe{
		ID:          uuid.New(),
		Title:       title,
		Ingredients: lines,
	}
}

func line(ingredient, amount, unit string) models.RecipeIngredient {
	return models.RecipeIngredient{
		ID:               uuid.New(),
		Ingredient:       ingredient,
		Amount:           decimal.RequireFromString(amount),
		UnitAbbreviation: unit,
	}
}

func date(y int, m time.Month, d int) models.Date {
	return models.NewDate(y, m, d)
}

func TestEvaluateCoveredRecipe(t *testing.T) {
	units := testUnits()
	items := []models.FridgeItem{
		fridgeItem(units, "flour", "1", "kg", date(2026, 9, 10)),
		fridgeItem(units, "milk", "500", "ml", date(2026, 9, 5)),
	}
	recipe := testRecipe("crepes",
		line("flour", "250", "g"),
		line("milk", "0.3", "l"),
	)

	result, ok, err := Evaluate(recipe, AggregateStock(items), units)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatal("recipe should be feasible")
	}
	if len(result.UnsureIngredients) != 0 {
		t.Errorf("unsure = %v, want none", result.UnsureIngredients)
	}
	if result.PriorityIngredient != "milk" {
		t.Errorf("priority ingredient = %q, want milk (expires first)", result.PriorityIngredient)
	}
	if result.PriorityDate == nil || !result.PriorityDate.Equal(date(2026, 9, 5)) {
		t.Errorf("priority date = %v, want 2026-09-05", result.PriorityDate)
	}
}

func TestEvaluateCrossUnitAggregation(t *testing.T) {
	units := testUnits()
	// 0.2 kg + 100 g = 300 g in base units, covering a 300 g requirement.
	items := []models.FridgeItem{
		fridgeItem(units, "flour", "0.2", "kg", date(2026, 9, 10)),
		fridgeItem(units, "flour", "100", "g", date(2026, 9, 12)),
	}
	recipe := testRecipe("bread", line("flour", "300", "g"))

	result, ok, err := Evaluate(recipe, AggregateStock(items), units)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatal("same-unit-type batches should aggregate to cover the requirement")
	}
	if result.PriorityDate == nil || !result.PriorityDate.Equal(date(2026, 9, 10)) {
		t.Errorf("priority date = %v, want the earliest batch date", result.PriorityDate)
	}
}

func TestEvaluateUnsureOnUnitTypeMismatch(t *testing.T) {
	units := testUnits()
	// Milk held only by volume; the recipe asks for it by mass.
	items := []models.FridgeItem{
		fridgeItem(units, "milk", "1", "l", date(2026, 9, 3)),
	}
	recipe := testRecipe("pudding", line("milk", "200", "g"))

	result, ok, err := Evaluate(recipe, AggregateStock(items), units)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatal("ingredient held under another unit type should keep the recipe feasible")
	}
	if len(result.UnsureIngredients) != 1 || result.UnsureIngredients[0] != "milk" {
		t.Errorf("unsure = %v, want [milk]", result.UnsureIngredients)
	}
	if result.PriorityDate == nil || !result.PriorityDate.Equal(date(2026, 9, 3)) {
		t.Errorf("priority date = %v, want the unsure batch date", result.PriorityDate)
	}
}

func TestEvaluateShortSameTypeWithOtherTypeIsUnsure(t *testing.T) {
	units := testUnits()
	// 100 g by mass (short of 300 g) plus some by piece: unsure, not
	// unavailable.
	items := []models.FridgeItem{
		fridgeItem(units, "butter", "100", "g", date(2026, 9, 8)),
		fridgeItem(units, "butter", "2", "pc", date(2026, 9, 6)),
	}
	recipe := testRecipe("shortbread", line("butter", "300", "g"))

	result, ok, err := Evaluate(recipe, AggregateStock(items), units)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatal("short stock with another unit type present should be unsure-feasible")
	}
	if len(result.UnsureIngredients) != 1 || result.UnsureIngredients[0] != "butter" {
		t.Errorf("unsure = %v, want [butter]", result.UnsureIngredients)
	}
	// The candidate date spans all of the ingredient's groups.
	if result.PriorityDate == nil || !result.PriorityDate.Equal(date(2026, 9, 6)) {
		t.Errorf("priority date = %v, want 2026-09-06", result.PriorityDate)
	}
}

func TestEvaluateUnavailable(t *testing.T) {
	units := testUnits()
	items := []models.FridgeItem{
		fridgeItem(units, "flour", "100", "g", date(2026, 9, 10)),
	}

	tests := []struct {
		name   string
		recipe models.Recipe
	}{
		{
			name:   "ingredient absent entirely",
			recipe: testRecipe("omelette", line("eggs", "3", "pc")),
		},
		{
			name:   "short with no other unit type",
			recipe: testRecipe("bread", line("flour", "500", "g")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok, err := Evaluate(tt.recipe, AggregateStock(items), units)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if ok {
				t.Fatal("recipe should be infeasible")
			}
			// Infeasible results carry no partial data.
			if result.PriorityIngredient != "" || result.PriorityDate != nil {
				t.Errorf("infeasible result carries partial data: %+v", result)
			}
		})
	}
}

func TestEvaluateNoRequirementsTriviallyFeasible(t *testing.T) {
	units := testUnits()
	recipe := testRecipe("glass of water")

	result, ok, err := Evaluate(recipe, AggregateStock(nil), units)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatal("recipe without requirements should be feasible")
	}
	if result.PriorityIngredient != "" || result.PriorityDate != nil {
		t.Errorf("no-requirement recipe should have no priority, got %+v", result)
	}
}

func TestEvaluatePriorityTieBreaksOnName(t *testing.T) {
	units := testUnits()
	same := date(2026, 9, 7)
	items := []models.FridgeItem{
		fridgeItem(units, "zucchini", "500", "g", same),
		fridgeItem(units, "aubergine", "500", "g", same),
	}
	recipe := testRecipe("ratatouille",
		line("zucchini", "200", "g"),
		line("aubergine", "200", "g"),
	)

	result, ok, err := Evaluate(recipe, AggregateStock(items), units)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Fatal("recipe should be feasible")
	}
	if result.PriorityIngredient != "aubergine" {
		t.Errorf("priority ingredient = %q, want aubergine (name tie-break)", result.PriorityIngredient)
	}
}

func TestEvaluateMonotonicUnderAddedStock(t *testing.T) {
	units := testUnits()
	items := []models.FridgeItem{
		fridgeItem(units, "flour", "300", "g", date(2026, 9, 10)),
	}
	recipe := testRecipe("bread", line("flour", "300", "g"))

	if _, ok, err := Evaluate(recipe, AggregateStock(items), units); err != nil || !ok {
		t.Fatalf("baseline should be feasible: ok=%v err=%v", ok, err)
	}

	// More stock of a required ingredient never flips a feasible
	// recipe to infeasible, whatever the unit type.
	additions := []models.FridgeItem{
		fridgeItem(units, "flour", "1", "kg", date(2026, 9, 1)),
		fridgeItem(units, "flour", "2", "pc", date(2026, 8, 1)),
	}
	for _, extra := range additions {
		grown := append(append([]models.FridgeItem{}, items...), extra)
		if _, ok, err := Evaluate(recipe, AggregateStock(grown), units); err != nil || !ok {
			t.Errorf("adding %s %s made the recipe infeasible: ok=%v err=%v",
				extra.Amount, extra.UnitAbbreviation, ok, err)
		}
	}
}

func TestEvaluateUnknownUnitFails(t *testing.T) {
	units := testUnits()
	recipe := testRecipe("mystery", line("flour", "1", "cup"))

	_, _, err := Evaluate(recipe, AggregateStock(nil), units)
	if err == nil {
		t.Fatal("expected error for unknown unit abbreviation")
	}
}

func TestRankOrdersByUrgency(t *testing.T) {
	d1 := date(2026, 9, 1)
	d2 := date(2026, 9, 2)

	soon := models.FeasibleRecipe{Recipe: testRecipe("soon"), PriorityDate: &d1}
	later := models.FeasibleRecipe{Recipe: testRecipe("later"), PriorityDate: &d2}
	aTie := models.FeasibleRecipe{Recipe: testRecipe("a-tie"), PriorityDate: &d2}
	noDate := models.FeasibleRecipe{Recipe: testRecipe("no-date")}

	results := []models.FeasibleRecipe{noDate, later, aTie, soon}
	Rank(results)

	got := make([]string, len(results))
	for i, r := range results {
		got[i] = r.Recipe.Title
	}
	want := []string{"soon", "a-tie", "later", "no-date"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rank order = %v, want %v", got, want)
		}
	}
}

func TestListFeasibleFiltersAndRanks(t *testing.T) {
	units := testUnits()
	items := []models.FridgeItem{
		fridgeItem(units, "flour", "1", "kg", date(2026, 9, 20)),
		fridgeItem(units, "milk", "1", "l", date(2026, 9, 2)),
	}
	pancakes := testRecipe("pancakes", line("flour", "200", "g"), line("milk", "300", "ml"))
	bread := testRecipe("bread", line("flour", "500", "g"))
	omelette := testRecipe("omelette", line("eggs", "3", "pc"))

	results, err := ListFeasible([]models.Recipe{bread, omelette, pancakes}, items, units)
	if err != nil {
		t.Fatalf("ListFeasible: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d feasible recipes, want 2", len(results))
	}
	if results[0].Recipe.Title != "pancakes" {
		t.Errorf("first recipe = %q, want pancakes (milk expires first)", results[0].Recipe.Title)
	}
	if results[1].Recipe.Title != "bread" {
		t.Errorf("second recipe = %q, want bread", results[1].Recipe.Title)
	}
}
