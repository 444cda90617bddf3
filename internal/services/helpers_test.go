package services

import (
	"courier-route-service/internal/graph"
	"testing"

	"github.com/stretchr/testify/require"
)

type testEdge struct {
	from, to string
	weight   float64
}

// newTestGraph creates nodes in the given order and connects them with edges.
func newTestGraph(t *testing.T, nodes []string, edges []testEdge) *graph.Graph {
	t.Helper()

	b := graph.NewBuilder()
	for _, n := range nodes {
		require.NoError(t, b.AddNode(graph.Node{Name: n}))
	}
	for _, e := range edges {
		require.NoError(t, b.AddEdge(e.from, e.to, e.weight))
	}
	return b.Build()
}

// pathWeight sums the cheapest arc between consecutive nodes.
func pathWeight(t *testing.T, g *graph.Graph, path []string) float64 {
	t.Helper()

	total := 0.0
	for i := 1; i < len(path); i++ {
		best := -1.0
		for _, arc := range g.Neighbors(path[i-1]) {
			if arc.To == path[i] && (best < 0 || arc.Weight < best) {
				best = arc.Weight
			}
		}
		require.GreaterOrEqual(t, best, 0.0, "no edge %s-%s", path[i-1], path[i])
		total += best
	}
	return total
}

// newGeoGraph has two western destinations and one eastern one around a depot at lon 0.
func newGeoGraph(t *testing.T) *graph.Graph {
	t.Helper()

	b := graph.NewBuilder()
	for _, n := range []graph.Node{
		{Name: "Depot", Lat: 0, Lng: 0},
		{Name: "W1", Lat: 0, Lng: -1},
		{Name: "W2", Lat: 0, Lng: -2},
		{Name: "E1", Lat: 0, Lng: 1},
	} {
		require.NoError(t, b.AddNode(n))
	}
	require.NoError(t, b.AddEdge("Depot", "W1", 1))
	require.NoError(t, b.AddEdge("W1", "W2", 1))
	require.NoError(t, b.AddEdge("Depot", "E1", 1))
	require.NoError(t, b.AddEdge("Depot", "W2", 3))
	return b.Build()
}
