package main

import (
	"context"
	"courier-route-service/internal/adapters/cache"
	"courier-route-service/internal/adapters/repositories"
	"courier-route-service/internal/config"
	"courier-route-service/internal/platform/db"
	"courier-route-service/internal/platform/obs"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

// dbtool prepares storage ahead of the server: it creates the SQLite schema and
// loads destinations from SEED_PATH (.json or plain text), and creates the
// Postgres plan tables when DATABASE_URL is set.
func main() {
	envErr := godotenv.Load()
	logger := obs.NewLogger(os.Stderr, config.Get("LOG_LEVEL", "info"))
	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", config.Get("DESTINATIONS_PATH", "rest_homes.txt"))

	conn, err := db.OpenSQLite(dbPath)
	if err != nil {
		logger.Error("open sqlite", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := initAndSeed(conn, seedPath); err != nil {
		logger.Error("sqlite", "err", err)
		os.Exit(1)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		return
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		logger.Error("open postgres", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	slog.Info("initializing postgres plan schema")
	if err := cache.InitSQLSchema(context.Background(), pg); err != nil {
		logger.Error("postgres schema", "err", err)
		os.Exit(1)
	}
	slog.Info("postgres schema ready")
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	slog.Info("initializing database schema")
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	slog.Info("schema ready")

	slog.Info("seeding destinations", "path", seedPath)
	seed := repositories.SeedFromText
	if strings.EqualFold(filepath.Ext(seedPath), ".json") {
		seed = repositories.SeedFromJSON
	}
	if err := seed(conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	slog.Info("seeding complete")

	return nil
}
