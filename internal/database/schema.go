// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package database

import (
	"context"
	"fmt"
	"time"
)

// createTables creates the schema if it does not exist.
//
// fridge_items denormalizes unit_type_id from the unit so the fridge
// merge invariant — at most one record per (ingredient, expiration
// date, unit type) — is enforced by a composite unique constraint
// rather than application bookkeeping. Concurrent inserts on the same
// key surface as constraint or transaction conflicts, which the fridge
// operations retry.
//
// Amount and ratio columns are DECIMAL(18,6): merge and consumption
// arithmetic must stay exact across repeated conversions.
func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS unit_types (
			id UUID PRIMARY KEY,
			name VARCHAR NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS units (
			id UUID PRIMARY KEY,
			name VARCHAR NOT NULL UNIQUE,
			abbreviation VARCHAR NOT NULL UNIQUE,
			ratio DECIMAL(18,6) NOT NULL,
			unit_type_id UUID NOT NULL REFERENCES unit_types(id),
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS ingredients (
			name VARCHAR PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name VARCHAR NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS recipes (
			id UUID PRIMARY KEY,
			title VARCHAR NOT NULL,
			description VARCHAR NOT NULL,
			duration_minutes BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS recipe_ingredients (
			id UUID PRIMARY KEY,
			recipe_id UUID NOT NULL REFERENCES recipes(id),
			ingredient_name VARCHAR NOT NULL REFERENCES ingredients(name),
			amount DECIMAL(18,6) NOT NULL,
			unit_id UUID NOT NULL REFERENCES units(id)
		)`,
		`CREATE TABLE IF NOT EXISTS recipe_categories (
			recipe_id UUID NOT NULL REFERENCES recipes(id),
			category_id UUID NOT NULL REFERENCES categories(id),
			PRIMARY KEY (recipe_id, category_id)
		)`,
		`CREATE TABLE IF NOT EXISTS fridge_items (
			id UUID PRIMARY KEY,
			ingredient_name VARCHAR NOT NULL REFERENCES ingredients(name),
			amount DECIMAL(18,6) NOT NULL,
			unit_id UUID NOT NULL REFERENCES units(id),
			unit_type_id UUID NOT NULL REFERENCES unit_types(id),
			expiration_date DATE NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			UNIQUE (ingredient_name, expiration_date, unit_type_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fridge_items_ingredient ON fridge_items(ingredient_name)`,
		`CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_recipe ON recipe_ingredients(recipe_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
