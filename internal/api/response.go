// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package api

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/mgoujon/nextrecipe/internal/database"
	"github.com/mgoujon/nextrecipe/internal/fridge"
	"github.com/mgoujon/nextrecipe/internal/logging"
	"github.com/mgoujon/nextrecipe/internal/models"
	"github.com/mgoujon/nextrecipe/internal/validation"
)

// maxRequestBody caps request body size. Catalog and fridge payloads
// are small; anything above this is not a legitimate client.
const maxRequestBody = 1 << 20 // 1 MiB

// respondJSON writes a success envelope. The payload is marshalled
// once so an ETag can be derived from the exact bytes sent.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}, started time.Time) {
	resp := models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(started).Milliseconds(),
		},
	}

	body, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal response")
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", computeETag(body))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

// respondError writes an error envelope with a stable machine-readable
// code.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	resp := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write error response")
	}
}

// respondStoreError maps store and domain errors to HTTP status codes
// and error codes. Unrecognized errors become DATABASE_ERROR without
// leaking internals to the client.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, fridge.ErrUnknownIngredient), errors.Is(err, fridge.ErrUnknownUnit):
		respondError(w, r, http.StatusUnprocessableEntity, "UNKNOWN_REFERENCE", err.Error(), nil)
	case errors.Is(err, fridge.ErrInsufficientStock):
		respondError(w, r, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), nil)
	case errors.Is(err, database.ErrConcurrentModification):
		respondError(w, r, http.StatusConflict, "CONCURRENT_MODIFICATION",
			"The record was modified concurrently; retry the request", nil)
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).
			Str("path", r.URL.Path).
			Msg("Store operation failed")
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR",
			"An internal storage error occurred", nil)
	}
}

// decodeJSON parses and validates a request body into dst. Returns
// false after writing the error response when the body is invalid.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("Invalid request body: %v", err), nil)
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// computeETag derives a weak ETag from the response bytes. FNV-1a is
// enough for cache validation; this is not an integrity check.
func computeETag(body []byte) string {
	h := fnv.New64a()
	h.Write(body) //nolint:errcheck // hash writes never fail
	return fmt.Sprintf(`W/"%x"`, h.Sum64())
}
