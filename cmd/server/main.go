// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

// Command server runs the NextRecipe HTTP backend: the ingredient and
// recipe catalog, the fridge inventory and the feasibility endpoints.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mgoujon/nextrecipe/internal/api"
	"github.com/mgoujon/nextrecipe/internal/config"
	"github.com/mgoujon/nextrecipe/internal/database"
	"github.com/mgoujon/nextrecipe/internal/logging"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("database", cfg.Database.Path).
		Msg("Starting NextRecipe")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewServer(db, &cfg.Server).Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}
