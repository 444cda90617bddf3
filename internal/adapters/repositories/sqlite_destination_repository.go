package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite-backed implementation of the DestinationRepository port.
type SqliteDestinationRepository struct{ DB *sql.DB }

func NewSqliteDestinationRepository(db *sql.DB) *SqliteDestinationRepository {
	return &SqliteDestinationRepository{DB: db}
}

// Return all destination names ordered by position.
func (s *SqliteDestinationRepository) ListDestinations(ctx context.Context) ([]string, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite destination repository: DB is nil")
	}

	query := `
	SELECT name
	FROM destinations
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list destinations: query destinations table: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0, 64)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list destinations: scan row: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list destinations: row iteration: %w", err)
	}

	return names, nil
}
