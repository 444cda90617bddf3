package services

import (
	"context"
	"courier-route-service/internal/graph"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// bruteForceDistance enumerates every simple path from s to t.
func bruteForceDistance(g *graph.Graph, s, t string) (float64, bool) {
	best := math.Inf(1)
	seen := map[string]bool{s: true}

	var walk func(cur string, acc float64)
	walk = func(cur string, acc float64) {
		if cur == t {
			best = math.Min(best, acc)
			return
		}
		for _, arc := range g.Neighbors(cur) {
			if seen[arc.To] {
				continue
			}
			seen[arc.To] = true
			walk(arc.To, acc+arc.Weight)
			seen[arc.To] = false
		}
	}
	walk(s, 0)

	return best, !math.IsInf(best, 1)
}

func randomGraph(t *testing.T, rng *rand.Rand, n int, density float64) *graph.Graph {
	t.Helper()

	nodes := make([]string, n)
	for i := range nodes {
		nodes[i] = fmt.Sprintf("N%d", i)
	}

	var edges []testEdge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < density {
				edges = append(edges, testEdge{nodes[i], nodes[j], float64(rng.Intn(6)) + rng.Float64()*0.5})
			}
		}
	}
	return newTestGraph(t, nodes, edges)
}

func TestDistanceAndPathMatchesBruteForce(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 25; round++ {
		g := randomGraph(t, rng, 7, 0.35)
		engine := NewShortestPathEngine(g)

		for _, s := range g.Nodes() {
			for _, target := range g.Nodes() {
				want, reachable := bruteForceDistance(g, s, target)

				res, err := engine.DistanceAndPath(ctx, s, target)
				if !reachable {
					require.ErrorIs(t, err, ErrNoPath, "round %d %s->%s", round, s, target)
					continue
				}

				require.NoError(t, err)
				require.InDelta(t, want, res.Distance, 1e-9, "round %d %s->%s", round, s, target)
				require.Equal(t, s, res.Path[0])
				require.Equal(t, target, res.Path[len(res.Path)-1])
				require.InDelta(t, res.Distance, pathWeight(t, g, res.Path), 1e-9)
			}
		}
	}
}

func TestDistanceAndPathSameNode(t *testing.T) {
	g := newTestGraph(t, []string{"A", "B", "Lonely"}, []testEdge{{"A", "B", 3}})
	engine := NewShortestPathEngine(g)

	for _, n := range g.Nodes() {
		res, err := engine.DistanceAndPath(context.Background(), n, n)
		require.NoError(t, err)
		require.Equal(t, 0.0, res.Distance)
		require.Equal(t, []string{n}, res.Path)
	}
}

func TestDistanceAndPathErrors(t *testing.T) {
	g := newTestGraph(t, []string{"A", "B", "C"}, []testEdge{{"A", "B", 1}})
	engine := NewShortestPathEngine(g)
	ctx := context.Background()

	_, err := engine.DistanceAndPath(ctx, "X", "A")
	require.ErrorIs(t, err, ErrNodeNotFound)

	_, err = engine.DistanceAndPath(ctx, "A", "X")
	require.ErrorIs(t, err, ErrNodeNotFound)
	require.NotErrorIs(t, err, ErrNoPath)

	_, err = engine.DistanceAndPath(ctx, "A", "C")
	require.ErrorIs(t, err, ErrNoPath)
	require.NotErrorIs(t, err, ErrNodeNotFound)
}

func TestDistanceAndPathCancelled(t *testing.T) {
	g := newTestGraph(t, []string{"A", "B"}, []testEdge{{"A", "B", 1}})
	engine := NewShortestPathEngine(g)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.DistanceAndPath(ctx, "A", "B")
	require.ErrorIs(t, err, ErrCancelled)
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, ErrNoPath)
}

func TestDistanceAndPathTieIsDeterministic(t *testing.T) {
	g := newTestGraph(t, []string{"D", "A", "B", "T"}, []testEdge{
		{"D", "A", 1},
		{"D", "B", 1},
		{"A", "T", 1},
		{"B", "T", 1},
	})
	engine := NewShortestPathEngine(g)

	for i := 0; i < 10; i++ {
		res, err := engine.DistanceAndPath(context.Background(), "D", "T")
		require.NoError(t, err)
		require.Equal(t, 2.0, res.Distance)
		require.Equal(t, []string{"D", "A", "T"}, res.Path)
	}
}

func TestDistanceAndPathPrefersLighterDetour(t *testing.T) {
	g := newTestGraph(t, []string{"A", "B", "C", "D"}, []testEdge{
		{"A", "D", 10},
		{"A", "B", 1},
		{"B", "C", 0},
		{"C", "D", 2},
	})

	res, err := NewShortestPathEngine(g).DistanceAndPath(context.Background(), "A", "D")
	require.NoError(t, err)
	require.Equal(t, 3.0, res.Distance)
	require.Equal(t, []string{"A", "B", "C", "D"}, res.Path)
}

func TestSearchTreeAgreesWithPairQueries(t *testing.T) {
	ctx := context.Background()
	g := randomGraph(t, rand.New(rand.NewSource(7)), 9, 0.3)
	engine := NewShortestPathEngine(g)

	for _, s := range g.Nodes() {
		tree, err := engine.Search(ctx, s)
		require.NoError(t, err)
		require.Equal(t, s, tree.Source())

		for _, target := range g.Nodes() {
			pair, pairErr := engine.DistanceAndPath(ctx, s, target)
			res, treeErr := tree.Result(target)
			if pairErr != nil {
				require.ErrorIs(t, treeErr, ErrNoPath)
				require.False(t, tree.Reachable(target))
				continue
			}
			require.NoError(t, treeErr)
			require.Equal(t, pair, res)
		}
	}

	_, err := engine.Search(ctx, "missing")
	require.ErrorIs(t, err, ErrNodeNotFound)
}
