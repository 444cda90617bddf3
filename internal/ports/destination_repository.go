package ports

import "context"

// Port: a boundary for retrieving the destinations that need to be visited.
type DestinationRepository interface {
	// Return destination node names in their stored order.
	ListDestinations(ctx context.Context) ([]string, error)
}
