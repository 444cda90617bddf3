package repositories

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/ports"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLite-backed implementation of the RouteStore port.
// Slices (stops, path, legs) are stored as JSON text columns.
type SqliteRouteStore struct {
	DB *sql.DB
}

func NewSqliteRouteStore(db *sql.DB) *SqliteRouteStore {
	return &SqliteRouteStore{DB: db}
}

// Store a plan with its routes and failures in one transaction.
func (s *SqliteRouteStore) SaveRoutePlan(ctx context.Context, plan *domain.RoutePlan) (err error) {
	defer obs.Time(ctx, "route.store.sqlite.Save")(&err)

	if s.DB == nil {
		return errors.New("save route plan: db is nil")
	}
	if plan == nil || plan.ID == "" {
		return errors.New("save route plan: plan id must not be empty")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save route plan: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO route_plans (id, depot, created_at)
	VALUES (?, ?, ?);
	`, plan.ID, plan.Depot, plan.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("save route plan %s: insert plan: %w", plan.ID, err)
	}

	for i, r := range plan.Routes {
		stops, path, legs, err := marshalRoute(r)
		if err != nil {
			return fmt.Errorf("save route plan %s: zone %q: %w", plan.ID, r.Zone, err)
		}

		if _, err := tx.ExecContext(ctx, `
		INSERT INTO plan_routes (plan_id, seq, zone, total_hours, stops, path, legs)
		VALUES (?, ?, ?, ?, ?, ?, ?);
		`, plan.ID, i, r.Zone, r.TotalHours, stops, path, legs); err != nil {
			return fmt.Errorf("save route plan %s: insert zone %q: %w", plan.ID, r.Zone, err)
		}
	}

	for i, f := range plan.Failures {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO plan_failures (plan_id, seq, zone, error)
		VALUES (?, ?, ?, ?);
		`, plan.ID, i, f.Zone, f.Error); err != nil {
			return fmt.Errorf("save route plan %s: insert failure %q: %w", plan.ID, f.Zone, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save route plan %s: commit: %w", plan.ID, err)
	}

	return nil
}

// Load a stored plan. Returns ports.ErrPlanNotFound for unknown ids.
func (s *SqliteRouteStore) GetRoutePlan(ctx context.Context, id string) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "route.store.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("get route plan: db is nil")
	}

	plan := &domain.RoutePlan{ID: id, Routes: []domain.Route{}, Failures: []domain.ZoneFailure{}}

	var createdAt string
	err = s.DB.QueryRowContext(ctx, `
	SELECT depot, created_at FROM route_plans WHERE id = ?;
	`, id).Scan(&plan.Depot, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get route plan %s: %w", id, ports.ErrPlanNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route plan %s: query plan: %w", id, err)
	}

	plan.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("get route plan %s: parse created_at: %w", id, err)
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT zone, total_hours, stops, path, legs
	FROM plan_routes
	WHERE plan_id = ?
	ORDER BY seq;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get route plan %s: query routes: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.Route
		var stops, path, legs string
		if err := rows.Scan(&r.Zone, &r.TotalHours, &stops, &path, &legs); err != nil {
			return nil, fmt.Errorf("get route plan %s: scan route: %w", id, err)
		}
		if err := unmarshalRoute(&r, stops, path, legs); err != nil {
			return nil, fmt.Errorf("get route plan %s: zone %q: %w", id, r.Zone, err)
		}
		r.Depot = plan.Depot
		plan.Routes = append(plan.Routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get route plan %s: route iteration: %w", id, err)
	}

	frows, err := s.DB.QueryContext(ctx, `
	SELECT zone, error FROM plan_failures WHERE plan_id = ? ORDER BY seq;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get route plan %s: query failures: %w", id, err)
	}
	defer frows.Close()

	for frows.Next() {
		var f domain.ZoneFailure
		if err := frows.Scan(&f.Zone, &f.Error); err != nil {
			return nil, fmt.Errorf("get route plan %s: scan failure: %w", id, err)
		}
		plan.Failures = append(plan.Failures, f)
	}
	if err := frows.Err(); err != nil {
		return nil, fmt.Errorf("get route plan %s: failure iteration: %w", id, err)
	}

	return plan, nil
}

func marshalRoute(r domain.Route) (stops, path, legs string, err error) {
	b, err := json.Marshal(r.Stops)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal stops: %w", err)
	}
	stops = string(b)

	b, err = json.Marshal(r.Path)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal path: %w", err)
	}
	path = string(b)

	b, err = json.Marshal(r.Legs)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal legs: %w", err)
	}
	legs = string(b)

	return stops, path, legs, nil
}

func unmarshalRoute(r *domain.Route, stops, path, legs string) error {
	if err := json.Unmarshal([]byte(stops), &r.Stops); err != nil {
		return fmt.Errorf("unmarshal stops: %w", err)
	}
	if err := json.Unmarshal([]byte(path), &r.Path); err != nil {
		return fmt.Errorf("unmarshal path: %w", err)
	}
	if err := json.Unmarshal([]byte(legs), &r.Legs); err != nil {
		return fmt.Errorf("unmarshal legs: %w", err)
	}
	return nil
}
