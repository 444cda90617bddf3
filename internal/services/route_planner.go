package services

import (
	"context"
	"courier-route-service/internal/domain"
	"errors"
	"fmt"
	"slices"
)

// RouteBuilder constructs closed tours from a fixed depot.
type RouteBuilder struct {
	engine *ShortestPathEngine
	finder *NearestFinder
}

func NewRouteBuilder(engine *ShortestPathEngine) *RouteBuilder {
	return &RouteBuilder{engine: engine, finder: NewNearestFinder(engine)}
}

// Build a closed tour over group using a greedy nearest-neighbor algorithm.
//
// Each step travels to the closest remaining destination by shortest-path
// distance, then the tour returns to the depot. It does not attempt global
// optimization. Any unknown node or unreachable destination fails the whole
// tour; nothing is skipped.
func (b *RouteBuilder) BuildRoute(ctx context.Context, depot string, group []string) (*domain.Route, error) {
	if depot == "" {
		return nil, errors.New("build route: depot must be non-empty")
	}
	if !b.engine.Graph().HasNode(depot) {
		return nil, fmt.Errorf("build route: depot %q: %w", depot, ErrNodeNotFound)
	}

	if len(group) == 0 {
		return &domain.Route{
			Depot:      depot,
			Stops:      []string{depot, depot},
			Path:       []string{depot, depot},
			Legs:       []domain.Leg{},
			TotalHours: 0,
		}, nil
	}

	remaining := slices.Clone(group)
	current := depot

	stops := []string{depot}
	path := []string{depot}
	legs := make([]domain.Leg, 0, len(group)+1)
	total := 0.0

	for len(remaining) > 0 {
		next, d, tree, err := b.finder.nearest(ctx, current, remaining)
		if err != nil {
			return nil, fmt.Errorf("build route: %w", err)
		}

		segment, err := tree.Path(next)
		if err != nil {
			return nil, fmt.Errorf("build route: segment %q -> %q: %w", current, next, err)
		}

		path = append(path, segment[1:]...)
		stops = append(stops, next)
		legs = append(legs, domain.Leg{From: current, To: next, Hours: d, Path: segment})
		total += d

		i := slices.Index(remaining, next)
		remaining = slices.Delete(remaining, i, i+1)
		current = next
	}

	// Return leg to the depot.
	back, err := b.engine.DistanceAndPath(ctx, current, depot)
	if err != nil {
		return nil, fmt.Errorf("build route: return leg %q -> %q: %w", current, depot, err)
	}

	path = append(path, back.Path[1:]...)
	stops = append(stops, depot)
	legs = append(legs, domain.Leg{From: current, To: depot, Hours: back.Distance, Path: back.Path})
	total += back.Distance

	return &domain.Route{
		Depot:      depot,
		Stops:      stops,
		Path:       path,
		Legs:       legs,
		TotalHours: total,
	}, nil
}

// Build a route for one zone and label it with the zone name.
func (b *RouteBuilder) BuildZoneRoute(ctx context.Context, depot string, zone domain.Zone) (*domain.Route, error) {
	route, err := b.BuildRoute(ctx, depot, zone.Destinations)
	if err != nil {
		return nil, fmt.Errorf("build zone route: zone %q: %w", zone.Name, err)
	}

	route.Zone = zone.Name
	return route, nil
}
