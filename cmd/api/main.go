// Package main implements the HTTP API server for the Corporate Health API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apihttp "github.com/dsjohal14/corphealth/internal/http"
	"github.com/dsjohal14/corphealth/internal/libs/config"
	"github.com/dsjohal14/corphealth/internal/libs/obs"
	"github.com/dsjohal14/corphealth/internal/scope/db"
	"github.com/rs/zerolog"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("api")

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	// The store is opened once here and closed once on the way out
	store, err := openStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close store")
		}
	}()

	// Create HTTP handler and router
	handler := apihttp.NewHandler(store, logger)
	router := apihttp.NewRouter(handler, apihttp.RouterConfig{
		CORSOrigins:  cfg.CORSOrigins,
		AccessLogger: obs.Logger("http"),
	})

	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

// openStore connects to the configured document store
func openStore(cfg *config.Config, logger zerolog.Logger) (db.Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	storeLogger := obs.Logger("store")
	store, err := db.Open(ctx, db.Options{
		Driver:   cfg.StoreDriver,
		URL:      cfg.DatabaseURL,
		Database: cfg.DatabaseName,
		DataDir:  cfg.DataDir,
		Logger:   &storeLogger,
	})
	if err != nil {
		return nil, err
	}

	event := logger.Info().Str("driver", cfg.StoreDriver)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		event.Str("database", cfg.DatabaseName)
	default:
		event.Str("data_dir", cfg.DataDir)
	}
	event.Msg("document store ready")

	return store, nil
}
