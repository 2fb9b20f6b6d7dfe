// core/poagraph/consensus.go
package poagraph

// GenerateConsensus extracts the heaviest path through the graph and returns
// its symbols. Recomputed from scratch on every call; an empty graph yields
// an empty (non-nil error free) result.
//
// Suffix scores are computed in reverse topological order over edge weights:
//
//	suffix(v) = max over out edges (edgeWeight + suffix(target))
//
// zero for sinks. Paths are scored by traversal support alone; node weights
// do not contribute, so a weakly supported detour that rejoins the main path
// cannot outscore the direct edge it bypasses just by visiting extra nodes.
// The walk starts at the node with the highest suffix score and repeatedly
// follows the outgoing edge maximizing edgeWeight + suffix(target), the same
// quantity the recurrence maximized, so the emitted path is the one that
// realized the start node's score. All ties break toward the smaller node
// id, keeping output byte-reproducible.
func (g *Graph) GenerateConsensus() []byte {
	n := g.NodeCount()
	if n == 0 {
		return []byte{}
	}

	order := g.TopologicalOrder()
	suffix := make([]int64, n)
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		var best int64
		for _, e := range g.OutEdges(id) {
			if s := e.Weight + suffix[e.To]; s > best {
				best = s
			}
		}
		suffix[id] = best
	}

	start := NodeID(0)
	for id := NodeID(1); int(id) < n; id++ {
		if suffix[id] > suffix[start] {
			start = id
		}
	}

	out := make([]byte, 0, n)
	for at := start; ; {
		out = append(out, g.nodes[at].Symbol)
		next := None
		var nextScore int64
		// OutEdges is ordered by target id, so the first strict maximum is
		// the smallest-id winner.
		for _, e := range g.OutEdges(at) {
			if s := e.Weight + suffix[e.To]; next == None || s > nextScore {
				next = e.To
				nextScore = s
			}
		}
		if next == None {
			return out
		}
		at = next
	}
}
