package poagraph

import "github.com/pkg/errors"

// Errors
var (
	// ErrGraphCorruption marks an edge insertion that would create a cycle.
	// Defensive: a well-formed merge can never trigger it.
	ErrGraphCorruption = errors.New("graph corruption: edge would create a cycle")

	// ErrBadAlignment marks a structural mismatch between an Alignment and
	// the graph/sequence it is being merged with.
	ErrBadAlignment = errors.New("alignment does not fit graph")

	// ErrBadNodeID marks a node id outside the graph's arena.
	ErrBadNodeID = errors.New("node id out of range")
)
