package ports

import (
	"context"
	"courier-route-service/internal/graph"
)

// Contract for reading a transportation network from a file.
type GraphLoader interface {
	Load(ctx context.Context, path string) (*graph.Graph, error)
}
