package ports

import "courier-route-service/internal/domain"

// Contract for splitting destinations into independently routed zones.
// Every destination must appear in exactly one returned zone, and the input
// order must be preserved within each zone.
type ZonePartitioner interface {
	Partition(destinations []domain.Destination) ([]domain.Zone, error)
}
