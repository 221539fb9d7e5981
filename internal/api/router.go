// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mgoujon/nextrecipe/internal/config"
	"github.com/mgoujon/nextrecipe/internal/database"
	"github.com/mgoujon/nextrecipe/internal/middleware"
)

// Server holds the handlers' shared dependencies.
type Server struct {
	db        *database.DB
	cfg       *config.ServerConfig
	startedAt time.Time
}

// NewServer builds the HTTP surface on top of the store.
func NewServer(db *database.DB, cfg *config.ServerConfig) *Server {
	return &Server{
		db:        db,
		cfg:       cfg,
		startedAt: time.Now(),
	}
}

// Routes assembles the chi router with the full middleware stack and
// every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"ETag", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Health probes stay outside the rate limit so orchestrators
		// polling them never get throttled.
		r.Route("/health", func(r chi.Router) {
			r.Get("/", s.handleHealth)
			r.Get("/live", s.handleHealthLive)
			r.Get("/ready", s.handleHealthReady)
		})

		r.Group(func(r chi.Router) {
			if s.cfg.RateLimit > 0 {
				r.Use(httprate.LimitByIP(s.cfg.RateLimit, time.Minute))
			}
			r.Use(middleware.PrometheusMetrics)

			r.Route("/fridge", func(r chi.Router) {
				r.Get("/items", s.handleListFridgeItems)
				r.Post("/items", s.handleAddFridgeItem)
				r.Delete("/items/{id}", s.handleDeleteFridgeItem)
				r.Get("/recipes", s.handleFeasibleRecipes)
				r.Post("/recipes/{id}/consume", s.handleConsumeRecipe)
			})

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/ingredients", s.handleListIngredients)
				r.Post("/ingredients", s.handleCreateIngredient)
				r.Delete("/ingredients/{name}", s.handleDeleteIngredient)

				r.Get("/categories", s.handleListCategories)
				r.Post("/categories", s.handleCreateCategory)
				r.Delete("/categories/{id}", s.handleDeleteCategory)

				r.Get("/recipes", s.handleListRecipes)
				r.Post("/recipes", s.handleCreateRecipe)
				r.Get("/recipes/{id}", s.handleGetRecipe)
				r.Delete("/recipes/{id}", s.handleDeleteRecipe)
			})

			r.Route("/units", func(r chi.Router) {
				r.Get("/", s.handleListUnits)
				r.Post("/", s.handleCreateUnit)
				r.Get("/types", s.handleListUnitTypes)
				r.Post("/types", s.handleCreateUnitType)
				r.Delete("/{abbreviation}", s.handleDeleteUnit)
			})
		})
	})

	return r
}
