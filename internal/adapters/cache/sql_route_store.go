package cache

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/ports"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Initialize the Postgres route plan tables.
func InitSQLSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init sql schema: DB is nil")
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS route_plans (
			id TEXT PRIMARY KEY,
			depot TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS plan_routes (
			plan_id TEXT NOT NULL REFERENCES route_plans(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			zone TEXT NOT NULL,
			total_hours DOUBLE PRECISION NOT NULL,
			route JSONB NOT NULL,
			PRIMARY KEY (plan_id, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS plan_failures (
			plan_id TEXT NOT NULL REFERENCES route_plans(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			zone TEXT NOT NULL,
			error TEXT NOT NULL,
			PRIMARY KEY (plan_id, seq)
		);`,
	}

	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init sql schema: exec statement #%d: %w", i+1, err)
		}
	}
	return nil
}

// SQLRouteStore is a Postgres-backed RouteStore. Each route is kept as a JSONB document.
type SQLRouteStore struct {
	DB *sql.DB
}

func NewSQLRouteStore(db *sql.DB) *SQLRouteStore {
	return &SQLRouteStore{DB: db}
}

func (s *SQLRouteStore) SaveRoutePlan(ctx context.Context, plan *domain.RoutePlan) (err error) {
	defer obs.Time(ctx, "route.store.sql.Save")(&err)

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
	INSERT INTO route_plans (id, depot, created_at) VALUES ($1, $2, $3);
	`, plan.ID, plan.Depot, plan.CreatedAt); err != nil {
		return fmt.Errorf("save route plan %s: insert plan: %w", plan.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO plan_routes (plan_id, seq, zone, total_hours, route)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return fmt.Errorf("save route plan %s: prepare routes: %w", plan.ID, err)
	}
	defer stmt.Close()

	for i, r := range plan.Routes {
		doc, err := encodeRoute(r)
		if err != nil {
			return fmt.Errorf("save route plan %s: marshal zone %q: %w", plan.ID, r.Zone, err)
		}
		if _, err := stmt.ExecContext(ctx, plan.ID, i, r.Zone, r.TotalHours, doc); err != nil {
			return fmt.Errorf("save route plan %s: insert zone %q: %w", plan.ID, r.Zone, err)
		}
	}

	for i, f := range plan.Failures {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO plan_failures (plan_id, seq, zone, error) VALUES ($1, $2, $3, $4);
		`, plan.ID, i, f.Zone, f.Error); err != nil {
			return fmt.Errorf("save route plan %s: insert failure %q: %w", plan.ID, f.Zone, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save route plan %s: commit: %w", plan.ID, err)
	}
	return nil
}

func (s *SQLRouteStore) GetRoutePlan(ctx context.Context, id string) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "route.store.sql.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("get route plan: db is nil")
	}
	if id == "" {
		return nil, fmt.Errorf("get route plan: empty id: %w", ports.ErrPlanNotFound)
	}

	plan := &domain.RoutePlan{ID: id, Routes: []domain.Route{}, Failures: []domain.ZoneFailure{}}
	err = s.DB.QueryRowContext(ctx, `
	SELECT depot, created_at FROM route_plans WHERE id = $1;
	`, id).Scan(&plan.Depot, &plan.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get route plan %s: %w", id, ports.ErrPlanNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route plan %s: query plan: %w", id, err)
	}
	plan.CreatedAt = plan.CreatedAt.UTC()

	rows, err := s.DB.QueryContext(ctx, `
	SELECT route FROM plan_routes WHERE plan_id = $1 ORDER BY seq;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get route plan %s: query routes: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("get route plan %s: scan route: %w", id, err)
		}
		r, err := decodeRoute(doc)
		if err != nil {
			return nil, fmt.Errorf("get route plan %s: %w", id, err)
		}
		plan.Routes = append(plan.Routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get route plan %s: route iteration: %w", id, err)
	}

	frows, err := s.DB.QueryContext(ctx, `
	SELECT zone, error FROM plan_failures WHERE plan_id = $1 ORDER BY seq;
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

// encodeRoute produces the JSONB document stored per zone.
func encodeRoute(r domain.Route) ([]byte, error) {
	doc, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode route %q: %w", r.Zone, err)
	}
	return doc, nil
}

func decodeRoute(doc []byte) (domain.Route, error) {
	var r domain.Route
	if err := json.Unmarshal(doc, &r); err != nil {
		return domain.Route{}, fmt.Errorf("decode route: %w", err)
	}
	return r, nil
}
