package services

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/ports"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Outcome of routing one zone. Exactly one of Route and Err is set.
type ZoneResult struct {
	Zone  string
	Route *domain.Route
	Err   error
}

// PlanZones builds one tour per zone. Zones are independent and run in parallel,
// at most limit at a time (limit <= 0 means unbounded). A failing zone only
// records its own error. Results follow the order of zones.
func PlanZones(ctx context.Context, builder *RouteBuilder, depot string, zones []domain.Zone, limit int) []ZoneResult {
	results := make([]ZoneResult, len(zones))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, zone := range zones {
		g.Go(func() error {
			route, err := builder.BuildZoneRoute(ctx, depot, zone)
			results[i] = ZoneResult{Zone: zone.Name, Route: route, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

type PlanRoutesRequest struct {
	Depot string
	// Explicit zones skip the repository and the partitioner.
	Zones       []domain.Zone
	Concurrency int
}

// PlanRoutes loads destinations, partitions them into zones, routes every zone
// and persists the resulting plan when a store is given.
func PlanRoutes(
	ctx context.Context,
	req PlanRoutesRequest,
	builder *RouteBuilder,
	repo ports.DestinationRepository,
	partitioner ports.ZonePartitioner,
	store ports.RouteStore,
) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "plan.routes")(&err)

	depot := strings.TrimSpace(req.Depot)
	if depot == "" {
		return nil, errors.New("plan routes: depot must be non-empty")
	}
	if !builder.engine.Graph().HasNode(depot) {
		return nil, fmt.Errorf("plan routes: depot %q: %w", depot, ErrNodeNotFound)
	}

	zones := req.Zones
	if len(zones) == 0 {
		zones, err = PartitionDestinations(ctx, builder.engine, repo, partitioner)
		if err != nil {
			return nil, fmt.Errorf("plan routes: %w", err)
		}
	}

	plan := &domain.RoutePlan{
		ID:        uuid.NewString(),
		Depot:     depot,
		CreatedAt: time.Now().UTC(),
		Routes:    []domain.Route{},
		Failures:  []domain.ZoneFailure{},
	}

	results := PlanZones(ctx, builder, depot, zones, req.Concurrency)
	// A dead context would turn every zone into a failure; report it once instead.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("plan routes: %w: %w", ErrCancelled, err)
	}

	for _, res := range results {
		if res.Err != nil {
			plan.Failures = append(plan.Failures, domain.ZoneFailure{Zone: res.Zone, Error: res.Err.Error()})
			continue
		}
		plan.Routes = append(plan.Routes, *res.Route)
	}

	if store != nil {
		if err := store.SaveRoutePlan(ctx, plan); err != nil {
			return nil, fmt.Errorf("plan routes: save plan %s: %w", plan.ID, err)
		}
	}

	return plan, nil
}

// PartitionDestinations resolves destination names against the graph and hands
// them with their coordinates to the partitioner.
func PartitionDestinations(
	ctx context.Context,
	engine *ShortestPathEngine,
	repo ports.DestinationRepository,
	partitioner ports.ZonePartitioner,
) ([]domain.Zone, error) {
	if repo == nil || partitioner == nil {
		return nil, errors.New("partition destinations: repository and partitioner are required without explicit zones")
	}

	names, err := repo.ListDestinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("partition destinations: list destinations: %w", err)
	}

	dests := make([]domain.Destination, 0, len(names))
	for _, name := range names {
		n, ok := engine.Graph().Node(name)
		if !ok {
			return nil, fmt.Errorf("partition destinations: destination %q: %w", name, ErrNodeNotFound)
		}
		dests = append(dests, domain.Destination{
			Name:        name,
			Coordinates: domain.Coordinates{Lon: n.Lng, Lat: n.Lat},
		})
	}

	zones, err := partitioner.Partition(dests)
	if err != nil {
		return nil, fmt.Errorf("partition destinations: %w", err)
	}
	return zones, nil
}
