package main

import (
	"context"
	"courier-route-service/internal/adapters/destinations"
	"courier-route-service/internal/api"
	"courier-route-service/internal/app"
	"courier-route-service/internal/config"
	"courier-route-service/internal/platform/obs"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

// main is the application composition root.
// It loads the road network once, wires the configured stores behind ports and
// starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yaml"))
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(os.Stderr, cfg.LogLevel)
	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	}

	ctx := context.Background()

	routing, err := app.LoadRouting(ctx, cfg)
	if err != nil {
		logger.Error("startup", "err", err)
		os.Exit(1)
	}

	storage, err := app.OpenStorage(ctx, cfg, destinations.NewTextFileRepository(cfg.DestinationsPath))
	if err != nil {
		logger.Error("startup", "err", err)
		os.Exit(1)
	}
	defer storage.Close()

	router := api.NewRouter(api.Deps{
		Builder:      routing.Builder,
		Engine:       routing.Engine,
		Repo:         storage.Destinations,
		Partitioner:  routing.Partitioner,
		Store:        storage.Store,
		DefaultDepot: cfg.Depot,
		Concurrency:  cfg.Concurrency,
	})

	// Write timeout covers a full plan over a large network.
	logger.Info("server listening", "addr", ":"+cfg.Port, "store", cfg.Store.Backend)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
