package services

import (
	"container/heap"
	"context"
	"courier-route-service/internal/graph"
	"fmt"
	"slices"
)

// How many heap extractions happen between context checks.
const cancelCheckInterval = 256

// Weighted distance and the node sequence from source to target inclusive.
type PathResult struct {
	Distance float64
	Path     []string
}

// ShortestPathEngine answers single-source shortest path queries with Dijkstra's
// algorithm over an immutable graph. It holds no mutable state and may be shared
// by concurrent route computations.
type ShortestPathEngine struct {
	g *graph.Graph
}

func NewShortestPathEngine(g *graph.Graph) *ShortestPathEngine {
	return &ShortestPathEngine{g: g}
}

func (e *ShortestPathEngine) Graph() *graph.Graph { return e.g }

// DistanceAndPath returns the minimum-weight path from source to target.
// The search stops as soon as target is settled.
func (e *ShortestPathEngine) DistanceAndPath(ctx context.Context, source, target string) (PathResult, error) {
	if !e.g.HasNode(source) {
		return PathResult{}, fmt.Errorf("shortest path: source %q: %w", source, ErrNodeNotFound)
	}
	if !e.g.HasNode(target) {
		return PathResult{}, fmt.Errorf("shortest path: target %q: %w", target, ErrNodeNotFound)
	}

	tree, err := e.search(ctx, source, target)
	if err != nil {
		return PathResult{}, fmt.Errorf("shortest path: %w", err)
	}

	return tree.Result(target)
}

// Search settles every node reachable from source and returns the resulting tree.
func (e *ShortestPathEngine) Search(ctx context.Context, source string) (*Tree, error) {
	if !e.g.HasNode(source) {
		return nil, fmt.Errorf("shortest path tree: source %q: %w", source, ErrNodeNotFound)
	}

	tree, err := e.search(ctx, source, "")
	if err != nil {
		return nil, fmt.Errorf("shortest path tree: %w", err)
	}
	return tree, nil
}

// search runs Dijkstra from source. When target is non-empty the loop ends once
// target is extracted; distances of nodes not yet settled are then tentative.
func (e *ShortestPathEngine) search(ctx context.Context, source, target string) (*Tree, error) {
	t := &Tree{
		g:      e.g,
		source: source,
		dist:   map[string]float64{source: 0},
		prev:   make(map[string]string),
	}
	visited := make(map[string]bool)

	pq := &nodeQueue{}
	heap.Push(pq, &queueItem{name: source, dist: 0, seq: 0})
	seq := 1

	for pops := 0; pq.Len() > 0; pops++ {
		if pops%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("from %q: %w: %w", source, ErrCancelled, err)
			}
		}

		item := heap.Pop(pq).(*queueItem)
		if visited[item.name] {
			continue
		}
		visited[item.name] = true

		if item.name == target {
			break
		}

		for _, arc := range e.g.Neighbors(item.name) {
			if visited[arc.To] {
				continue
			}

			nd := item.dist + arc.Weight
			// Strict less-than keeps the first-discovered predecessor on ties.
			if cur, ok := t.dist[arc.To]; ok && nd >= cur {
				continue
			}

			t.dist[arc.To] = nd
			t.prev[arc.To] = item.name
			heap.Push(pq, &queueItem{name: arc.To, dist: nd, seq: seq})
			seq++
		}
	}

	return t, nil
}

// Tree is the predecessor tree produced by one single-source search.
type Tree struct {
	g      *graph.Graph
	source string
	dist   map[string]float64
	prev   map[string]string
}

func (t *Tree) Source() string { return t.source }

// Reachable reports whether target was reached from the tree's source.
func (t *Tree) Reachable(target string) bool {
	_, ok := t.dist[target]
	return ok
}

// Distance returns the shortest distance from the source to target.
func (t *Tree) Distance(target string) (float64, error) {
	if !t.g.HasNode(target) {
		return 0, fmt.Errorf("distance: target %q: %w", target, ErrNodeNotFound)
	}

	d, ok := t.dist[target]
	if !ok {
		return 0, fmt.Errorf("distance: %q -> %q: %w", t.source, target, ErrNoPath)
	}
	return d, nil
}

// Path walks predecessor links back from target and returns the source-to-target sequence.
func (t *Tree) Path(target string) ([]string, error) {
	if _, err := t.Distance(target); err != nil {
		return nil, err
	}

	path := []string{target}
	for cur := target; cur != t.source; {
		cur = t.prev[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)

	return path, nil
}

// Result combines Distance and Path for target.
func (t *Tree) Result(target string) (PathResult, error) {
	d, err := t.Distance(target)
	if err != nil {
		return PathResult{}, err
	}

	path, err := t.Path(target)
	if err != nil {
		return PathResult{}, err
	}

	return PathResult{Distance: d, Path: path}, nil
}

type queueItem struct {
	name string
	dist float64
	seq  int
}

// nodeQueue is a min-heap by distance. Equal distances pop in insertion order
// so that searches are reproducible.
type nodeQueue []*queueItem

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(*queueItem)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
