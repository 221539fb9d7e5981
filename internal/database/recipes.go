// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mgoujon/nextrecipe/internal/fridge"
	"github.com/mgoujon/nextrecipe/internal/metrics"
	"github.com/mgoujon/nextrecipe/internal/models"
)

// RecipeIngredientInput is one ingredient line of a recipe being created.
type RecipeIngredientInput struct {
	Ingredient       string
	Amount           decimal.Decimal
	UnitAbbreviation string
}

// RecipeInput is a recipe being created.
type RecipeInput struct {
	Title           string
	Description     string
	DurationMinutes int64
	Ingredients     []RecipeIngredientInput
	Categories      []string
}

// CreateRecipe inserts a recipe with its ingredient lines and category
// associations in one transaction. Ingredient names, unit
// abbreviations and category names must already exist in the catalog;
// unknown references fail with fridge.ErrUnknownIngredient,
// fridge.ErrUnknownUnit or ErrNotFound and nothing is persisted.
func (db *DB) CreateRecipe(ctx context.Context, input RecipeInput) (recipe models.Recipe, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("create_recipe", time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { rollbackOnErr(tx, err) }()

	recipe = models.Recipe{
		ID:              uuid.New(),
		Title:           input.Title,
		Description:     input.Description,
		DurationMinutes: input.DurationMinutes,
		Ingredients:     []models.RecipeIngredient{},
		Categories:      []string{},
		CreatedAt:       time.Now().UTC(),
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO recipes (id, title, description, duration_minutes, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		recipe.ID, recipe.Title, recipe.Description, recipe.DurationMinutes, recipe.CreatedAt); err != nil {
		err = fmt.Errorf("failed to insert recipe: %w", err)
		return models.Recipe{}, err
	}

	for _, line := range input.Ingredients {
		var exists bool
		if exists, err = db.IngredientExists(ctx, line.Ingredient); err != nil {
			return models.Recipe{}, err
		}
		if !exists {
			err = fmt.Errorf("%w: %q", fridge.ErrUnknownIngredient, line.Ingredient)
			return models.Recipe{}, err
		}

		var unitID uuid.UUID
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM units WHERE abbreviation = ?`, line.UnitAbbreviation).Scan(&unitID)
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("%w: %q", fridge.ErrUnknownUnit, line.UnitAbbreviation)
			return models.Recipe{}, err
		}
		if err != nil {
			err = fmt.Errorf("failed to resolve unit %q: %w", line.UnitAbbreviation, err)
			return models.Recipe{}, err
		}

		ri := models.RecipeIngredient{
			ID:               uuid.New(),
			Ingredient:       line.Ingredient,
			Amount:           line.Amount,
			UnitAbbreviation: line.UnitAbbreviation,
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (id, recipe_id, ingredient_name, amount, unit_id)
			 VALUES (?, ?, ?, CAST(? AS DECIMAL(18,6)), ?)`,
			ri.ID, recipe.ID, ri.Ingredient, ri.Amount.String(), unitID); err != nil {
			err = fmt.Errorf("failed to insert recipe ingredient %q: %w", line.Ingredient, err)
			return models.Recipe{}, err
		}
		recipe.Ingredients = append(recipe.Ingredients, ri)
	}

	for _, categoryName := range input.Categories {
		var categoryID uuid.UUID
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM categories WHERE name = ?`, categoryName).Scan(&categoryID)
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("category %q: %w", categoryName, ErrNotFound)
			return models.Recipe{}, err
		}
		if err != nil {
			err = fmt.Errorf("failed to resolve category %q: %w", categoryName, err)
			return models.Recipe{}, err
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO recipe_categories (recipe_id, category_id) VALUES (?, ?)`,
			recipe.ID, categoryID); err != nil {
			err = fmt.Errorf("failed to attach category %q: %w", categoryName, err)
			return models.Recipe{}, err
		}
		recipe.Categories = append(recipe.Categories, categoryName)
	}

	if err = tx.Commit(); err != nil {
		return models.Recipe{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return recipe, nil
}

// GetRecipe loads one recipe with its ingredient lines and categories.
func (db *DB) GetRecipe(ctx context.Context, id uuid.UUID) (models.Recipe, error) {
	var recipe models.Recipe
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, description, duration_minutes, created_at FROM recipes WHERE id = ?`, id).
		Scan(&recipe.ID, &recipe.Title, &recipe.Description, &recipe.DurationMinutes, &recipe.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Recipe{}, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Recipe{}, fmt.Errorf("failed to load recipe %s: %w", id, err)
	}

	if err := db.loadRecipeDetails(ctx, &recipe); err != nil {
		return models.Recipe{}, err
	}
	return recipe, nil
}

// ListRecipes returns all recipes with their ingredient lines and
// categories, ordered by title.
func (db *DB) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description, duration_minutes, created_at FROM recipes ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer closeQuietly(rows)

	recipes := []models.Recipe{}
	for rows.Next() {
		var recipe models.Recipe
		if err := rows.Scan(&recipe.ID, &recipe.Title, &recipe.Description, &recipe.DurationMinutes, &recipe.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range recipes {
		if err := db.loadRecipeDetails(ctx, &recipes[i]); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

// DeleteRecipe removes a recipe with its ingredient lines and category
// associations.
func (db *DB) DeleteRecipe(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { rollbackOnErr(tx, err) }()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete recipe ingredients: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM recipe_categories WHERE recipe_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete recipe categories: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		err = fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// loadRecipeDetails fills a recipe's ingredient lines and categories.
func (db *DB) loadRecipeDetails(ctx context.Context, recipe *models.Recipe) error {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT ri.id, ri.ingredient_name, CAST(ri.amount AS VARCHAR), u.abbreviation
		FROM recipe_ingredients ri
		JOIN units u ON u.id = ri.unit_id
		WHERE ri.recipe_id = ?
		ORDER BY ri.ingredient_name`, recipe.ID)
	if err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer closeQuietly(rows)

	recipe.Ingredients = []models.RecipeIngredient{}
	for rows.Next() {
		var ri models.RecipeIngredient
		var amount string
		if err := rows.Scan(&ri.ID, &ri.Ingredient, &amount, &ri.UnitAbbreviation); err != nil {
			return fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("invalid stored amount %q: %w", amount, err)
		}
		ri.Amount = parsed
		recipe.Ingredients = append(recipe.Ingredients, ri)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	catRows, err := db.conn.QueryContext(ctx, `
		SELECT c.name
		FROM recipe_categories rc
		JOIN categories c ON c.id = rc.category_id
		WHERE rc.recipe_id = ?
		ORDER BY c.name`, recipe.ID)
	if err != nil {
		return fmt.Errorf("failed to load recipe categories: %w", err)
	}
	defer closeQuietly(catRows)

	recipe.Categories = []string{}
	for catRows.Next() {
		var name string
		if err := catRows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan recipe category: %w", err)
		}
		recipe.Categories = append(recipe.Categories, name)
	}
	return catRows.Err()
}
