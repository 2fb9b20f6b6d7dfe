// core/poagraph/topo.go
package poagraph

import (
	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/emirpasic/gods/utils"
)

// TopologicalOrder returns every node id in an order consistent with all
// edges. The order is cached until the next mutation and is deterministic:
// Kahn's algorithm driven by a min-id heap, so among the nodes that are
// simultaneously ready the smallest id always comes first.
//
// The returned slice is the cache itself; callers must not modify it.
func (g *Graph) TopologicalOrder() []NodeID {
	if g.topoOK {
		return g.topo
	}

	n := len(g.nodes)
	indegree := make([]int, n)
	for i := 0; i < n; i++ {
		indegree[i] = len(g.in[i])
	}

	ready := binaryheap.NewWith(utils.IntComparator)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			ready.Push(i)
		}
	}

	order := make([]NodeID, 0, n)
	for {
		v, ok := ready.Pop()
		if !ok {
			break
		}
		id := NodeID(v.(int))
		order = append(order, id)
		for next := range g.out[id] {
			indegree[next]--
			if indegree[next] == 0 {
				ready.Push(int(next))
			}
		}
	}

	// len(order) < n would mean a cycle survived AddEdge's guard; the arena
	// is append-only and every insertion is checked, so this cannot happen
	// short of memory corruption. Cache whatever we produced.
	g.topo = order
	if cap(g.topoRank) < n {
		g.topoRank = make([]int32, n)
	}
	g.topoRank = g.topoRank[:n]
	for rank, id := range order {
		g.topoRank[id] = int32(rank)
	}
	g.topoOK = true
	return g.topo
}

// topoRankOf returns the cached rank of id, computing the order first if
// needed.
func (g *Graph) topoRankOf(id NodeID) int32 {
	if !g.topoOK {
		g.TopologicalOrder()
	}
	return g.topoRank[id]
}
