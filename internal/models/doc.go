// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

// Package models defines the domain records shared across the store,
// the feasibility engine and the HTTP layer: catalog entities
// (ingredients, units, categories, recipes), fridge inventory items,
// and the standardized API response envelope.
//
// Quantities and conversion ratios are shopspring/decimal values so
// that repeated merges and consumptions stay exact; expiration dates
// are calendar dates (Date), never timestamps.
package models
