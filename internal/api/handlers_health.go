// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package api

import (
	"net/http"
	"time"
)

// handleHealth reports liveness plus a database reachability check.
//
// GET /api/v1/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	dbStatus := "ok"
	status := http.StatusOK
	if err := s.db.Ping(r.Context()); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, r, status, map[string]interface{}{
		"status":   "ok",
		"database": dbStatus,
		"uptime_s": int64(time.Since(s.startedAt).Seconds()),
	}, started)
}

// handleHealthLive is the liveness probe: the process is up and
// serving. No dependency checks.
//
// GET /api/v1/health/live
func (s *Server) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{"status": "alive"}, time.Now())
}

// handleHealthReady is the readiness probe: the store must answer
// before traffic is routed here.
//
// GET /api/v1/health/ready
func (s *Server) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if err := s.db.Ping(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "DATABASE_ERROR",
			"Store is not reachable", nil)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{"status": "ready"}, started)
}
