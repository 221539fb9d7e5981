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

	"github.com/mgoujon/nextrecipe/internal/models"
)

// CreateIngredient inserts a catalog ingredient. The name is the
// catalog key; matching everywhere else is exact-match on it.
func (db *DB) CreateIngredient(ctx context.Context, name string) (models.Ingredient, error) {
	ing := models.Ingredient{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO ingredients (name, created_at) VALUES (?, ?)`,
		ing.Name, ing.CreatedAt)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("failed to create ingredient %q: %w", name, err)
	}
	return ing, nil
}

// ListIngredients returns all catalog ingredients ordered by name.
func (db *DB) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT name, created_at FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer closeQuietly(rows)

	ingredients := []models.Ingredient{}
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.Name, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

// IngredientExists reports whether an ingredient is in the catalog.
func (db *DB) IngredientExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := db.conn.QueryRowContext(ctx,
		`SELECT name FROM ingredients WHERE name = ?`, name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check ingredient %q: %w", name, err)
	}
	return true, nil
}

// DeleteIngredient removes a catalog ingredient. Ingredients still
// referenced by recipes or fridge items cannot be deleted.
func (db *DB) DeleteIngredient(ctx context.Context, name string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM ingredients WHERE name = ?`, name)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("ingredient %q is still referenced: %w", name, err)
		}
		return fmt.Errorf("failed to delete ingredient %q: %w", name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("ingredient %q: %w", name, ErrNotFound)
	}
	return nil
}

// CreateCategory inserts a recipe category.
func (db *DB) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	cat := models.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?)`,
		cat.ID, cat.Name, cat.CreatedAt)
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	return cat, nil
}

// ListCategories returns all categories ordered by name.
func (db *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer closeQuietly(rows)

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// DeleteCategory removes a category and its recipe associations.
func (db *DB) DeleteCategory(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { rollbackOnErr(tx, err) }()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM recipe_categories WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("failed to detach category %s: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		err = fmt.Errorf("category %s: %w", id, ErrNotFound)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
