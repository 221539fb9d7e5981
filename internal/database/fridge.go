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
	"github.com/mgoujon/nextrecipe/internal/logging"
	"github.com/mgoujon/nextrecipe/internal/metrics"
	"github.com/mgoujon/nextrecipe/internal/models"
)

// maxWriteAttempts bounds the retry loop around optimistic-concurrency
// conflicts on fridge writes. Every attempt re-reads state, so a retry
// observes the competing writer's outcome.
const maxWriteAttempts = 3

const fridgeItemColumns = `
	fi.id, fi.ingredient_name, CAST(fi.amount AS VARCHAR),
	fi.unit_id, u.abbreviation, CAST(u.ratio AS VARCHAR),
	fi.unit_type_id, ut.name, fi.expiration_date, fi.created_at, fi.updated_at`

// queryer abstracts *sql.DB and *sql.Tx for shared fridge reads.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ListFridgeItems returns the full fridge snapshot with units and unit
// types resolved, ordered by ingredient then expiration date.
func (db *DB) ListFridgeItems(ctx context.Context) ([]models.FridgeItem, error) {
	return listFridgeItems(ctx, db.conn)
}

func listFridgeItems(ctx context.Context, q queryer) ([]models.FridgeItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+fridgeItemColumns+`
		FROM fridge_items fi
		JOIN units u ON u.id = fi.unit_id
		JOIN unit_types ut ON ut.id = fi.unit_type_id
		ORDER BY fi.ingredient_name, fi.expiration_date, fi.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fridge items: %w", err)
	}
	defer closeQuietly(rows)

	items := []models.FridgeItem{}
	for rows.Next() {
		item, err := scanFridgeItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddFridgeItem inserts a fridge item, merging into an existing record
// when one matches the same ingredient, expiration date and unit type.
// On merge the surviving unit is the larger-ratio unit of the pair and
// the amounts are summed in it; the returned item is authoritative —
// a "create" may legitimately come back as an update of an existing
// record.
//
// Unknown ingredient or unit fail with fridge.ErrUnknownIngredient /
// fridge.ErrUnknownUnit. Conflicts with a concurrent writer on the
// same merge key are retried with fresh reads; if a conflict persists
// past the retry budget, ErrConcurrentModification is returned.
func (db *DB) AddFridgeItem(ctx context.Context, ingredient string, amount decimal.Decimal, unitAbbreviation string, expiration models.Date) (models.FridgeItem, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordStoreQuery("add_fridge_item", time.Since(start), err) }()

	unit, err := db.GetUnit(ctx, unitAbbreviation)
	if errors.Is(err, ErrNotFound) {
		err = fmt.Errorf("%w: %q", fridge.ErrUnknownUnit, unitAbbreviation)
		return models.FridgeItem{}, err
	}
	if err != nil {
		return models.FridgeItem{}, err
	}

	exists, err := db.IngredientExists(ctx, ingredient)
	if err != nil {
		return models.FridgeItem{}, err
	}
	if !exists {
		err = fmt.Errorf("%w: %q", fridge.ErrUnknownIngredient, ingredient)
		return models.FridgeItem{}, err
	}

	var item models.FridgeItem
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		item, err = db.upsertFridgeItem(ctx, ingredient, amount, unit, expiration)
		if err == nil {
			return item, nil
		}
		if !isConflict(err) {
			return models.FridgeItem{}, err
		}
		metrics.StoreConflictRetries.WithLabelValues("add_fridge_item").Inc()
		logging.Ctx(ctx).Warn().
			Str("ingredient", ingredient).
			Int("attempt", attempt).
			Msg("Fridge merge conflict, retrying")
	}
	err = fmt.Errorf("fridge item %q/%s: %w", ingredient, expiration, ErrConcurrentModification)
	return models.FridgeItem{}, err
}

// upsertFridgeItem runs one merge-or-insert attempt in a transaction.
func (db *DB) upsertFridgeItem(ctx context.Context, ingredient string, amount decimal.Decimal, unit models.Unit, expiration models.Date) (item models.FridgeItem, err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return models.FridgeItem{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { rollbackOnErr(tx, err) }()

	now := time.Now().UTC()

	existing, err := findMergeable(ctx, tx, ingredient, unit.UnitTypeID, expiration)
	switch {
	case err == nil:
		merged := fridge.Merge(
			fridge.Batch{Amount: existing.Amount, Unit: models.Unit{
				ID:           existing.UnitID,
				Abbreviation: existing.UnitAbbreviation,
				Ratio:        existing.UnitRatio,
				UnitType:     existing.UnitType,
				UnitTypeID:   existing.UnitTypeID,
			}},
			fridge.Batch{Amount: amount, Unit: unit},
		)
		if _, err = tx.ExecContext(ctx, `
			UPDATE fridge_items
			SET amount = CAST(? AS DECIMAL(18,6)), unit_id = ?, updated_at = ?
			WHERE id = ?`,
			merged.Amount.String(), merged.Unit.ID, now, existing.ID); err != nil {
			err = fmt.Errorf("failed to merge fridge item %s: %w", existing.ID, err)
			return models.FridgeItem{}, err
		}
		item = existing
		item.Amount = merged.Amount
		item.UnitID = merged.Unit.ID
		item.UnitAbbreviation = merged.Unit.Abbreviation
		item.UnitRatio = merged.Unit.Ratio
		item.UpdatedAt = now
		metrics.FridgeMerges.Inc()

	case errors.Is(err, sql.ErrNoRows):
		item = models.FridgeItem{
			ID:               uuid.New(),
			Ingredient:       ingredient,
			Amount:           amount,
			UnitID:           unit.ID,
			UnitAbbreviation: unit.Abbreviation,
			UnitRatio:        unit.Ratio,
			UnitTypeID:       unit.UnitTypeID,
			UnitType:         unit.UnitType,
			ExpirationDate:   expiration,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO fridge_items (id, ingredient_name, amount, unit_id, unit_type_id, expiration_date, created_at, updated_at)
			VALUES (?, ?, CAST(? AS DECIMAL(18,6)), ?, ?, ?, ?, ?)`,
			item.ID, item.Ingredient, item.Amount.String(), item.UnitID, item.UnitTypeID,
			item.ExpirationDate.Time(), item.CreatedAt, item.UpdatedAt); err != nil {
			err = fmt.Errorf("failed to insert fridge item: %w", err)
			return models.FridgeItem{}, err
		}

	default:
		return models.FridgeItem{}, fmt.Errorf("failed to look up mergeable fridge item: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return models.FridgeItem{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return item, nil
}

// findMergeable looks for the single fridge item sharing the merge key
// (ingredient, expiration date, unit type). Returns sql.ErrNoRows when
// no such record exists.
func findMergeable(ctx context.Context, q queryer, ingredient string, unitTypeID uuid.UUID, expiration models.Date) (models.FridgeItem, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+fridgeItemColumns+`
		FROM fridge_items fi
		JOIN units u ON u.id = fi.unit_id
		JOIN unit_types ut ON ut.id = fi.unit_type_id
		WHERE fi.ingredient_name = ? AND fi.unit_type_id = ? AND fi.expiration_date = ?`,
		ingredient, unitTypeID, expiration.Time())
	return scanFridgeItem(row)
}

// DeleteFridgeItem removes a fridge item by ID.
func (db *DB) DeleteFridgeItem(ctx context.Context, id uuid.UUID) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM fridge_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fridge item %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("fridge item %s: %w", id, ErrNotFound)
	}
	return nil
}

// ConsumeRecipe depletes fridge stock for one prepared recipe. For
// every ingredient requirement it drains same-unit-type fridge items
// in expiration order, deleting items that reach zero and writing back
// reduced amounts otherwise — all in a single transaction, so stale
// stock discovered mid-way leaves the fridge untouched.
//
// Fails with ErrNotFound for an unknown recipe, with
// fridge.ErrInsufficientStock when current stock no longer covers the
// recipe, and with ErrConcurrentModification when a competing writer
// kept conflicting past the retry budget.
func (db *DB) ConsumeRecipe(ctx context.Context, recipeID uuid.UUID) error {
	start := time.Now()
	var err error
	defer func() { metrics.RecordStoreQuery("consume_recipe", time.Since(start), err) }()

	recipe, err := db.GetRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	units, err := db.ListUnits(ctx)
	if err != nil {
		return err
	}
	unitIndex := fridge.NewUnitIndex(units)

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err = db.consumeOnce(ctx, recipe, unitIndex)
		if err == nil {
			metrics.RecipesConsumed.Inc()
			return nil
		}
		if !isConflict(err) {
			return err
		}
		metrics.StoreConflictRetries.WithLabelValues("consume_recipe").Inc()
		logging.Ctx(ctx).Warn().
			Str("recipe", recipe.Title).
			Int("attempt", attempt).
			Msg("Consumption conflict, retrying")
	}
	err = fmt.Errorf("recipe %s: %w", recipeID, ErrConcurrentModification)
	return err
}

// consumeOnce runs one consumption attempt: snapshot read, plan,
// apply, commit.
func (db *DB) consumeOnce(ctx context.Context, recipe models.Recipe, units fridge.UnitIndex) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { rollbackOnErr(tx, err) }()

	items, err := listFridgeItems(ctx, tx)
	if err != nil {
		return err
	}

	deductions, err := fridge.PlanConsumption(recipe, items, units)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, d := range deductions {
		if d.Remove {
			if _, err = tx.ExecContext(ctx,
				`DELETE FROM fridge_items WHERE id = ?`, d.ItemID); err != nil {
				return fmt.Errorf("failed to delete consumed fridge item %s: %w", d.ItemID, err)
			}
			continue
		}
		if _, err = tx.ExecContext(ctx, `
			UPDATE fridge_items
			SET amount = CAST(? AS DECIMAL(18,6)), updated_at = ?
			WHERE id = ?`,
			d.NewAmount.String(), now, d.ItemID); err != nil {
			return fmt.Errorf("failed to update consumed fridge item %s: %w", d.ItemID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// scanFridgeItem reads one fridge item row with decimals carried as text.
func scanFridgeItem(row rowScanner) (models.FridgeItem, error) {
	var item models.FridgeItem
	var amount, ratio string
	var expiration time.Time
	if err := row.Scan(&item.ID, &item.Ingredient, &amount,
		&item.UnitID, &item.UnitAbbreviation, &ratio,
		&item.UnitTypeID, &item.UnitType, &expiration,
		&item.CreatedAt, &item.UpdatedAt); err != nil {
		return models.FridgeItem{}, err
	}

	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return models.FridgeItem{}, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	parsedRatio, err := decimal.NewFromString(ratio)
	if err != nil {
		return models.FridgeItem{}, fmt.Errorf("invalid stored ratio %q: %w", ratio, err)
	}
	item.Amount = parsedAmount
	item.UnitRatio = parsedRatio
	item.ExpirationDate = models.DateOf(expiration)
	return item, nil
}
