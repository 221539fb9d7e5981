// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package database

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mgoujon/nextrecipe/internal/config"
	"github.com/mgoujon/nextrecipe/internal/models"
)

// newTestDB creates an in-memory DuckDB store with the schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(&config.DatabaseConfig{
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
	return db
}

// seedCatalog loads the reference data the fridge and recipe tests
// build on: mass and volume unit types, g/kg/ml/l, and a handful of
// ingredients.
func seedCatalog(t *testing.T, db *DB) {
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

	for _, name := range []string{"flour", "milk", "butter", "sugar"} {
		if _, err := db.CreateIngredient(ctx, name); err != nil {
			t.Fatalf("failed to seed ingredient %q: %v", name, err)
		}
	}
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
