package repositories

import (
	"courier-route-service/internal/adapters/destinations"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDestinationsQuery := `
	CREATE TABLE IF NOT EXISTS destinations (
		position INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);
	`

	createRoutePlansQuery := `
	CREATE TABLE IF NOT EXISTS route_plans (
		id TEXT PRIMARY KEY,
		depot TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	createPlanRoutesQuery := `
	CREATE TABLE IF NOT EXISTS plan_routes (
		plan_id TEXT NOT NULL REFERENCES route_plans(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		zone TEXT NOT NULL,
		total_hours REAL NOT NULL,
		stops TEXT NOT NULL,
		path TEXT NOT NULL,
		legs TEXT NOT NULL,
		PRIMARY KEY (plan_id, seq)
	);
	`

	createPlanFailuresQuery := `
	CREATE TABLE IF NOT EXISTS plan_failures (
		plan_id TEXT NOT NULL REFERENCES route_plans(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		zone TEXT NOT NULL,
		error TEXT NOT NULL,
		PRIMARY KEY (plan_id, seq)
	);
	`

	statements := []string{
		createDestinationsQuery,
		createRoutePlansQuery,
		createPlanRoutesQuery,
		createPlanFailuresQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DestinationSeed struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
}

// Populate the destinations table from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed destinations: read %q: %w", jsonPath, err)
	}

	var data []DestinationSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed destinations: parse json: %w", err)
	}

	rows := make([]DestinationSeed, 0, len(data))
	for i, item := range data {
		if item.Position <= 0 {
			return fmt.Errorf("seed destinations: invalid position at index %d: %d", i+1, item.Position)
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed destinations: item at index %d: name cannot be empty", i+1)
		}
		rows = append(rows, DestinationSeed{Position: item.Position, Name: name})
	}

	return insertDestinations(db, rows)
}

// Populate the destinations table from a text file with one name per line.
// Positions follow line order.
func SeedFromText(db *sql.DB, textPath string) error {
	f, err := os.Open(textPath)
	if err != nil {
		return fmt.Errorf("seed destinations: open %q: %w", textPath, err)
	}
	defer f.Close()

	names, err := destinations.ReadNames(f)
	if err != nil {
		return fmt.Errorf("seed destinations: %w", err)
	}

	rows := make([]DestinationSeed, 0, len(names))
	for i, name := range names {
		rows = append(rows, DestinationSeed{Position: i + 1, Name: name})
	}

	return insertDestinations(db, rows)
}

func insertDestinations(db *sql.DB, rows []DestinationSeed) error {
	if db == nil {
		return errors.New("seed destinations: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed destinations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO destinations (
		position,
		name
	)
	VALUES (?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed destinations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range rows {
		if _, err := stmt.Exec(d.Position, d.Name); err != nil {
			return fmt.Errorf("seed destinations: insert position=%d: %w", d.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed destinations: commit tx: %w", err)
	}

	return nil
}
