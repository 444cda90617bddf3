package services

import (
	"context"
	"fmt"
	"math"
)

// NearestFinder picks the candidate destination closest to a position.
type NearestFinder struct {
	engine *ShortestPathEngine
}

func NewNearestFinder(engine *ShortestPathEngine) *NearestFinder {
	return &NearestFinder{engine: engine}
}

// Nearest returns the candidate with the smallest shortest-path distance from current.
//
// Candidates are compared in the given order with a strict less-than, so the first
// of several equally distant candidates wins. One search tree from current serves
// every comparison; the result is the same as querying each pair separately.
func (f *NearestFinder) Nearest(ctx context.Context, current string, candidates []string) (string, float64, error) {
	best, d, _, err := f.nearest(ctx, current, candidates)
	return best, d, err
}

func (f *NearestFinder) nearest(ctx context.Context, current string, candidates []string) (string, float64, *Tree, error) {
	if len(candidates) == 0 {
		return "", 0, nil, fmt.Errorf("nearest from %q: %w", current, ErrEmptyCandidateSet)
	}

	tree, err := f.engine.Search(ctx, current)
	if err != nil {
		return "", 0, nil, fmt.Errorf("nearest from %q: %w", current, err)
	}

	best := ""
	minDistance := math.Inf(1)
	for _, c := range candidates {
		d, err := tree.Distance(c)
		if err != nil {
			return "", 0, nil, fmt.Errorf("nearest from %q: %w", current, err)
		}

		if best == "" || d < minDistance {
			best = c
			minDistance = d
		}
	}

	return best, minDistance, tree, nil
}
