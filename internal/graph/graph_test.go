package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderAddEdgeIsUndirected(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddNode(Node{Name: "A", Lat: -36.8, Lng: 174.7}))
	require.NoError(t, b.AddNode(Node{Name: "B"}))
	require.NoError(t, b.AddEdge("A", "B", 0.5))

	g := b.Build()
	require.Equal(t, 2, g.NodeCount())
	require.Equal(t, 1, g.EdgeCount())
	require.Equal(t, []Arc{{To: "B", Weight: 0.5}}, g.Neighbors("A"))
	require.Equal(t, []Arc{{To: "A", Weight: 0.5}}, g.Neighbors("B"))

	n, ok := g.Node("A")
	require.True(t, ok)
	require.Equal(t, -36.8, n.Lat)
	require.False(t, g.HasNode("C"))
}

func TestBuilderRejectsInvalidInput(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddNode(Node{Name: "A"}))

	require.ErrorIs(t, b.AddNode(Node{Name: "A"}), ErrDuplicateNode)
	require.ErrorIs(t, b.AddEdge("A", "missing", 1), ErrUnknownNode)
	require.ErrorIs(t, b.AddEdge("missing", "A", 1), ErrUnknownNode)
	require.ErrorIs(t, b.AddEdge("A", "A", -1), ErrNegativeWeight)
	require.Error(t, b.AddNode(Node{}))
}

func TestGraphNodesSortedAndCopied(t *testing.T) {
	b := NewBuilder()
	for _, name := range []string{"C", "A", "B"} {
		require.NoError(t, b.AddNode(Node{Name: name}))
	}
	g := b.Build()

	nodes := g.Nodes()
	require.Equal(t, []string{"A", "B", "C"}, nodes)

	nodes[0] = "Z"
	require.Equal(t, []string{"A", "B", "C"}, g.Nodes())
}

func TestBuildResetsBuilder(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddNode(Node{Name: "A"}))
	g := b.Build()

	require.NoError(t, b.AddNode(Node{Name: "B"}))
	require.False(t, g.HasNode("B"))
}
