// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/mgoujon/nextrecipe/internal/config"
	"github.com/mgoujon/nextrecipe/internal/database"
	"github.com/mgoujon/nextrecipe/internal/models"
)

// envelope mirrors models.APIResponse with a raw payload for
// per-test decoding.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

func newTestServer(t *testing.T) (*database.DB, http.Handler) {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "256MB",
		Threads:   2,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	srv := NewServer(db, &config.ServerConfig{
		CORSOrigins: []string{"*"},
	})
	return db, srv.Routes()
}

// seedCatalog loads mass/volume units and a few ingredients directly
// through the store.
func seedCatalog(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()

	for _, typeName := range []string{"mass", "volume"} {
		if _, err := db.CreateUnitType(ctx, typeName); err != nil {
			t.Fatalf("failed to seed unit type %q: %v", typeName, err)
		}
	}
	units := []struct {
		name, abbr, ratio, unitType string
	}{
		{"gram", "g", "1", "mass"},
		{"kilogram", "kg", "1000", "mass"},
		{"milliliter", "ml", "1", "volume"},
		{"liter", "l", "1000", "volume"},
	}
	for _, u := range units {
		if _, err := db.CreateUnit(ctx, u.name, u.abbr, decimal.RequireFromString(u.ratio), u.unitType); err != nil {
			t.Fatalf("failed to seed unit %q: %v", u.abbr, err)
		}
	}
	for _, name := range []string{"flour", "milk", "eggs"} {
		if _, err := db.CreateIngredient(ctx, name); err != nil {
			t.Fatalf("failed to seed ingredient %q: %v", name, err)
		}
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an API envelope: %v\n%s", err, rec.Body.String())
	}
	return rec, env
}

func TestAddFridgeItemEndpoint(t *testing.T) {
	db, handler := newTestServer(t)
	seedCatalog(t, db)

	rec, env := doJSON(t, handler, http.MethodPost, "/api/v1/fridge/items", AddFridgeItemRequest{
		Ingredient:     "flour",
		Amount:         "1",
		Unit:           "kg",
		ExpirationDate: "2026-09-10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201\n%s", rec.Code, rec.Body.String())
	}
	if env.Status != "success" {
		t.Fatalf("envelope status = %q, want success", env.Status)
	}

	// Same merge key: the insert merges and comes back 200.
	rec, env = doJSON(t, handler, http.MethodPost, "/api/v1/fridge/items", AddFridgeItemRequest{
		Ingredient:     "flour",
		Amount:         "10",
		Unit:           "g",
		ExpirationDate: "2026-09-10",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("merge status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}

	var item models.FridgeItem
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("failed to decode fridge item: %v", err)
	}
	if item.UnitAbbreviation != "kg" {
		t.Errorf("surviving unit = %q, want kg", item.UnitAbbreviation)
	}
	if want := decimal.RequireFromString("1.01"); !item.Amount.Equal(want) {
		t.Errorf("merged amount = %s, want %s", item.Amount, want)
	}
}

func TestAddFridgeItemEndpointValidation(t *testing.T) {
	db, handler := newTestServer(t)
	seedCatalog(t, db)

	tests := []struct {
		name     string
		body     AddFridgeItemRequest
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing ingredient",
			body:     AddFridgeItemRequest{Amount: "1", Unit: "g", ExpirationDate: "2026-09-10"},
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "timestamp instead of date",
			body:     AddFridgeItemRequest{Ingredient: "flour", Amount: "1", Unit: "g", ExpirationDate: "2026-09-10T12:00:00Z"},
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "zero amount",
			body:     AddFridgeItemRequest{Ingredient: "flour", Amount: "0", Unit: "g", ExpirationDate: "2026-09-10"},
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "unknown ingredient",
			body:     AddFridgeItemRequest{Ingredient: "caviar", Amount: "1", Unit: "g", ExpirationDate: "2026-09-10"},
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "UNKNOWN_REFERENCE",
		},
		{
			name:     "unknown unit",
			body:     AddFridgeItemRequest{Ingredient: "flour", Amount: "1", Unit: "cup", ExpirationDate: "2026-09-10"},
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "UNKNOWN_REFERENCE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doJSON(t, handler, http.MethodPost, "/api/v1/fridge/items", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d\n%s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != tt.wantErr {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantErr)
			}
		})
	}
}

func TestFeasibleRecipesEndpoint(t *testing.T) {
	db, handler := newTestServer(t)
	seedCatalog(t, db)
	ctx := context.Background()

	if _, err := db.AddFridgeItem(ctx, "flour", decimal.RequireFromString("1"), "kg", mustParseDate(t, "2026-09-20")); err != nil {
		t.Fatalf("AddFridgeItem: %v", err)
	}
	if _, err := db.AddFridgeItem(ctx, "milk", decimal.RequireFromString("1"), "l", mustParseDate(t, "2026-09-02")); err != nil {
		t.Fatalf("AddFridgeItem: %v", err)
	}

	mustCreateRecipe(t, db, "pancakes", []database.RecipeIngredientInput{
		{Ingredient: "flour", Amount: decimal.RequireFromString("200"), UnitAbbreviation: "g"},
		{Ingredient: "milk", Amount: decimal.RequireFromString("300"), UnitAbbreviation: "ml"},
	})
	mustCreateRecipe(t, db, "bread", []database.RecipeIngredientInput{
		{Ingredient: "flour", Amount: decimal.RequireFromString("500"), UnitAbbreviation: "g"},
	})
	mustCreateRecipe(t, db, "omelette", []database.RecipeIngredientInput{
		{Ingredient: "eggs", Amount: decimal.RequireFromString("3"), UnitAbbreviation: "g"},
	})

	rec, env := doJSON(t, handler, http.MethodGet, "/api/v1/fridge/recipes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Recipes []models.FeasibleRecipe `json:"recipes"`
		Count   int                     `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload.Count != 2 {
		t.Fatalf("count = %d, want 2 feasible recipes", payload.Count)
	}
	if payload.Recipes[0].Recipe.Title != "pancakes" {
		t.Errorf("first recipe = %q, want pancakes (milk expires first)", payload.Recipes[0].Recipe.Title)
	}
	if payload.Recipes[0].PriorityIngredient != "milk" {
		t.Errorf("priority ingredient = %q, want milk", payload.Recipes[0].PriorityIngredient)
	}
}

func TestConsumeRecipeEndpoint(t *testing.T) {
	db, handler := newTestServer(t)
	seedCatalog(t, db)
	ctx := context.Background()

	if _, err := db.AddFridgeItem(ctx, "flour", decimal.RequireFromString("500"), "g", mustParseDate(t, "2026-09-10")); err != nil {
		t.Fatalf("AddFridgeItem: %v", err)
	}
	recipe := mustCreateRecipe(t, db, "bread", []database.RecipeIngredientInput{
		{Ingredient: "flour", Amount: decimal.RequireFromString("400"), UnitAbbreviation: "g"},
	})

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/fridge/recipes/"+recipe.ID.String()+"/consume", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}

	// Second consumption exceeds the remaining 100 g.
	rec, env := doJSON(t, handler, http.MethodPost, "/api/v1/fridge/recipes/"+recipe.ID.String()+"/consume", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409\n%s", rec.Code, rec.Body.String())
	}
	if env.Error == nil || env.Error.Code != "INSUFFICIENT_STOCK" {
		t.Errorf("error = %+v, want INSUFFICIENT_STOCK", env.Error)
	}

	rec, env = doJSON(t, handler, http.MethodPost, "/api/v1/fridge/recipes/not-a-uuid/consume", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
	}
}

func TestCreateRecipeEndpoint(t *testing.T) {
	db, handler := newTestServer(t)
	seedCatalog(t, db)

	rec, env := doJSON(t, handler, http.MethodPost, "/api/v1/catalog/recipes", CreateRecipeRequest{
		Title:           "crepes",
		DurationMinutes: 30,
		Ingredients: []RecipeIngredientRequest{
			{Ingredient: "flour", Amount: "250", Unit: "g"},
			{Ingredient: "milk", Amount: "0.5", Unit: "l"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201\n%s", rec.Code, rec.Body.String())
	}

	var recipe models.Recipe
	if err := json.Unmarshal(env.Data, &recipe); err != nil {
		t.Fatalf("failed to decode recipe: %v", err)
	}
	if len(recipe.Ingredients) != 2 {
		t.Errorf("got %d ingredient lines, want 2", len(recipe.Ingredients))
	}

	// Unknown ingredient maps to UNKNOWN_REFERENCE.
	rec, env = doJSON(t, handler, http.MethodPost, "/api/v1/catalog/recipes", CreateRecipeRequest{
		Title: "mystery",
		Ingredients: []RecipeIngredientRequest{
			{Ingredient: "unicorn", Amount: "1", Unit: "g"},
		},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422\n%s", rec.Code, rec.Body.String())
	}
	if env.Error == nil || env.Error.Code != "UNKNOWN_REFERENCE" {
		t.Errorf("error = %+v, want UNKNOWN_REFERENCE", env.Error)
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, handler := newTestServer(t)

	for _, path := range []string{"/api/v1/health", "/api/v1/health/live", "/api/v1/health/ready"} {
		rec, env := doJSON(t, handler, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rec.Code)
		}
		if env.Status != "success" {
			t.Errorf("%s envelope status = %q, want success", path, env.Status)
		}
	}

	rec, _ := doJSON(t, handler, http.MethodGet, "/api/v1/health", nil)
	if rec.Header().Get("ETag") == "" {
		t.Error("success responses should carry an ETag")
	}
}

func mustParseDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func mustCreateRecipe(t *testing.T, db *database.DB, title string, lines []database.RecipeIngredientInput) models.Recipe {
	t.Helper()
	recipe, err := db.CreateRecipe(context.Background(), database.RecipeInput{
		Title:       title,
		Ingredients: lines,
	})
	if err != nil {
		t.Fatalf("CreateRecipe(%s): %v", title, err)
	}
	return recipe
}
