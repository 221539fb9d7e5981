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

	"github.com/mgoujon/nextrecipe/internal/metrics"
	"github.com/mgoujon/nextrecipe/internal/models"
)

// CreateUnitType inserts a new unit type (e.g. "mass", "volume").
func (db *DB) CreateUnitType(ctx context.Context, name string) (models.UnitType, error) {
	ut := models.UnitType{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO unit_types (id, name, created_at) VALUES (?, ?, ?)`,
		ut.ID, ut.Name, ut.CreatedAt)
	if err != nil {
		return models.UnitType{}, fmt.Errorf("failed to create unit type %q: %w", name, err)
	}
	return ut, nil
}

// ListUnitTypes returns all unit types ordered by name.
func (db *DB) ListUnitTypes(ctx context.Context) ([]models.UnitType, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, created_at FROM unit_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unit types: %w", err)
	}
	defer closeQuietly(rows)

	types := []models.UnitType{}
	for rows.Next() {
		var ut models.UnitType
		if err := rows.Scan(&ut.ID, &ut.Name, &ut.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unit type: %w", err)
		}
		types = append(types, ut)
	}
	return types, rows.Err()
}

// CreateUnit inserts a new unit referencing an existing unit type by name.
func (db *DB) CreateUnit(ctx context.Context, name, abbreviation string, ratio decimal.Decimal, unitTypeName string) (models.Unit, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordStoreQuery("create_unit", time.Since(start), err) }()

	var typeID uuid.UUID
	err = db.conn.QueryRowContext(ctx,
		`SELECT id FROM unit_types WHERE name = ?`, unitTypeName).Scan(&typeID)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("unit type %q: %w", unitTypeName, ErrNotFound)
		return models.Unit{}, err
	}
	if err != nil {
		return models.Unit{}, fmt.Errorf("failed to resolve unit type %q: %w", unitTypeName, err)
	}

	u := models.Unit{
		ID:           uuid.New(),
		Name:         name,
		Abbreviation: abbreviation,
		Ratio:        ratio,
		UnitTypeID:   typeID,
		UnitType:     unitTypeName,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO units (id, name, abbreviation, ratio, unit_type_id, created_at)
		 VALUES (?, ?, ?, CAST(? AS DECIMAL(18,6)), ?, ?)`,
		u.ID, u.Name, u.Abbreviation, u.Ratio.String(), u.UnitTypeID, u.CreatedAt)
	if err != nil {
		return models.Unit{}, fmt.Errorf("failed to create unit %q: %w", abbreviation, err)
	}
	return u, nil
}

// ListUnits returns all units with their unit type, ordered by abbreviation.
func (db *DB) ListUnits(ctx context.Context) ([]models.Unit, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.name, u.abbreviation, CAST(u.ratio AS VARCHAR), u.unit_type_id, ut.name, u.created_at
		FROM units u
		JOIN unit_types ut ON ut.id = u.unit_type_id
		ORDER BY u.abbreviation`)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer closeQuietly(rows)

	units := []models.Unit{}
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// GetUnit looks up a unit by abbreviation.
func (db *DB) GetUnit(ctx context.Context, abbreviation string) (models.Unit, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.abbreviation, CAST(u.ratio AS VARCHAR), u.unit_type_id, ut.name, u.created_at
		FROM units u
		JOIN unit_types ut ON ut.id = u.unit_type_id
		WHERE u.abbreviation = ?`, abbreviation)

	u, err := scanUnit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Unit{}, fmt.Errorf("unit %q: %w", abbreviation, ErrNotFound)
	}
	return u, err
}

// DeleteUnit removes a unit by abbreviation. Units referenced by
// recipes or fridge items cannot be deleted.
func (db *DB) DeleteUnit(ctx context.Context, abbreviation string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM units WHERE abbreviation = ?`, abbreviation)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("unit %q is still referenced: %w", abbreviation, err)
		}
		return fmt.Errorf("failed to delete unit %q: %w", abbreviation, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("unit %q: %w", abbreviation, ErrNotFound)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUnit reads one unit row with its decimal ratio carried as text.
func scanUnit(row rowScanner) (models.Unit, error) {
	var u models.Unit
	var ratio string
	if err := row.Scan(&u.ID, &u.Name, &u.Abbreviation, &ratio, &u.UnitTypeID, &u.UnitType, &u.CreatedAt); err != nil {
		return models.Unit{}, err
	}
	parsed, err := decimal.NewFromString(ratio)
	if err != nil {
		return models.Unit{}, fmt.Errorf("invalid stored ratio %q: %w", ratio, err)
	}
	u.Ratio = parsed
	return u, nil
}
