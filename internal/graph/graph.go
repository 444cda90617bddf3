package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrDuplicateNode  = errors.New("graph: duplicate node")
	ErrUnknownNode    = errors.New("graph: edge references unknown node")
	ErrNegativeWeight = errors.New("graph: negative edge weight")
)

// A location in the transportation network.
// Lat/Lng are carried for zone partitioning and rendering only; routing ignores them.
type Node struct {
	Name string
	Lat  float64
	Lng  float64
}

// Arc is one traversable direction of an edge. Weight is travel time in hours.
type Arc struct {
	To     string
	Weight float64
}

// Edge is an undirected connection as it was added to the builder.
type Edge struct {
	From   string
	To     string
	Weight float64
}

// Graph is an immutable weighted graph. It is safe for concurrent readers
// because nothing mutates it after Build.
type Graph struct {
	nodes map[string]Node
	order []string
	adj   map[string][]Arc
	edges []Edge
}

// Return the node with the given name.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Neighbors returns the arcs leaving name in insertion order.
// The returned slice must not be modified.
func (g *Graph) Neighbors(name string) []Arc {
	return g.adj[name]
}

// Nodes returns all node names sorted lexically.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	sort.Strings(out)
	return out
}

// Edges returns a copy of the undirected edge list.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) EdgeCount() int { return len(g.edges) }

// Builder accumulates nodes and edges and produces an immutable Graph.
// A Builder must not be used after Build.
type Builder struct {
	g *Graph
}

func NewBuilder() *Builder {
	return &Builder{
		g: &Graph{
			nodes: make(map[string]Node),
			adj:   make(map[string][]Arc),
		},
	}
}

// AddNode registers a node. Adding the same name twice is an error.
func (b *Builder) AddNode(n Node) error {
	if n.Name == "" {
		return errors.New("graph: node name must not be empty")
	}
	if _, ok := b.g.nodes[n.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, n.Name)
	}

	b.g.nodes[n.Name] = n
	b.g.order = append(b.g.order, n.Name)
	return nil
}

// AddEdge connects two existing nodes in both directions with the same weight.
func (b *Builder) AddEdge(from, to string, weight float64) error {
	if _, ok := b.g.nodes[from]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, from)
	}
	if _, ok := b.g.nodes[to]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, to)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: %s-%s weight=%v", ErrNegativeWeight, from, to, weight)
	}

	b.g.edges = append(b.g.edges, Edge{From: from, To: to, Weight: weight})
	b.g.adj[from] = append(b.g.adj[from], Arc{To: to, Weight: weight})
	if from != to {
		b.g.adj[to] = append(b.g.adj[to], Arc{To: from, Weight: weight})
	}
	return nil
}

// Build returns the finished graph. The builder is reset and can no longer add to it.
func (b *Builder) Build() *Graph {
	g := b.g
	b.g = &Graph{nodes: map[string]Node{}, adj: map[string][]Arc{}}
	return g
}
