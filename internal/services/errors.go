package services

import "errors"

var (
	// A referenced node name is absent from the graph.
	ErrNodeNotFound = errors.New("node not found")
	// The target is unreachable from the source.
	ErrNoPath = errors.New("no path")
	// Nearest-destination search was called without candidates.
	ErrEmptyCandidateSet = errors.New("empty candidate set")
	// A search was aborted because its context ended.
	ErrCancelled = errors.New("search cancelled")
)
