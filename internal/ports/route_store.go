package ports

import (
	"context"
	"courier-route-service/internal/domain"
	"errors"
)

var ErrPlanNotFound = errors.New("route plan not found")

// Port: persistence for finished route plans.
type RouteStore interface {
	SaveRoutePlan(ctx context.Context, plan *domain.RoutePlan) error
	// Return ErrPlanNotFound when no plan has the given id.
	GetRoutePlan(ctx context.Context, id string) (*domain.RoutePlan, error)
}
