// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

// Package api implements the HTTP surface: the chi router, the
// catalog, recipe and fridge handlers, and the standardized JSON
// response envelope. Handlers validate input, call the store and the
// feasibility engine, and map domain errors to stable error codes.
package api
