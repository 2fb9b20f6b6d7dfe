// core/poagraph/graph.go
package poagraph

import (
	"sort"

	"github.com/pkg/errors"
)

// NodeID is a stable index into the graph's node arena. Nodes are only ever
// referenced by id; nothing outside the graph holds node pointers.
type NodeID int32

// None is the id used where a step carries no graph node.
const None NodeID = -1

// Node is one symbol occurrence shared by every sequence that traverses it.
// Weight is the accumulated confidence mass of those traversals.
type Node struct {
	ID     NodeID
	Symbol byte
	Weight int64
}

// Edge is a weighted directed connection between two nodes. At most one edge
// exists per ordered pair; repeat traversals accumulate onto Weight.
type Edge struct {
	From   NodeID
	To     NodeID
	Weight int64
}

// Graph is the partial-order alignment graph: a grow-only node arena plus
// out/in adjacency with per-edge weights and a lazily cached topological
// order. A Graph is owned by a single session; it has exactly one writer and
// concurrent mutation is the caller's bug.
type Graph struct {
	nodes []Node
	out   []map[NodeID]int64
	in    []map[NodeID]int64

	edgeCount int
	topo      []NodeID
	topoRank  []int32 // rank per node for the cached order
	topoOK    bool
}

// New returns an empty graph.
func New() *Graph { return &Graph{} }

// NodeCount returns the number of nodes in the arena.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct directed edges.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// AddNode appends a node for symbol with zero weight and returns its id.
func (g *Graph) AddNode(symbol byte) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Symbol: symbol})
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	g.topoOK = false
	return id
}

// Symbol returns the symbol stored at id. Panics on an out-of-range id; ids
// only come from this graph, so that is a caller bug, not an input error.
func (g *Graph) Symbol(id NodeID) byte { return g.nodes[id].Symbol }

// NodeWeight returns the accumulated weight of id.
func (g *Graph) NodeWeight(id NodeID) int64 { return g.nodes[id].Weight }

// TotalNodeWeight sums the weight over every node.
func (g *Graph) TotalNodeWeight() int64 {
	var sum int64
	for i := range g.nodes {
		sum += g.nodes[i].Weight
	}
	return sum
}

func (g *Graph) validID(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// EdgeWeight returns the weight of the edge from->to, or 0 if absent.
func (g *Graph) EdgeWeight(from, to NodeID) int64 {
	if !g.validID(from) {
		return 0
	}
	return g.out[from][to]
}

// OutEdges returns the outgoing edges of id ordered by target id.
func (g *Graph) OutEdges(id NodeID) []Edge {
	return edgeList(id, g.out[id], false)
}

// InEdges returns the incoming edges of id ordered by source id. The aligner
// relies on this ordering for its deterministic predecessor tie-break.
func (g *Graph) InEdges(id NodeID) []Edge {
	return edgeList(id, g.in[id], true)
}

func edgeList(id NodeID, adj map[NodeID]int64, incoming bool) []Edge {
	if len(adj) == 0 {
		return nil
	}
	out := make([]Edge, 0, len(adj))
	for other, w := range adj {
		if incoming {
			out = append(out, Edge{From: other, To: id, Weight: w})
		} else {
			out = append(out, Edge{From: id, To: other, Weight: w})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if incoming {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Sources returns the ids of nodes with no incoming edges, ascending.
func (g *Graph) Sources() []NodeID {
	var ids []NodeID
	for i := range g.nodes {
		if len(g.in[i]) == 0 {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}

// IsSink reports whether id has no outgoing edges.
func (g *Graph) IsSink(id NodeID) bool { return len(g.out[id]) == 0 }

// AddEdge adds weight onto the from->to edge, creating it if absent. Creating
// an edge that would close a cycle fails with ErrGraphCorruption and leaves
// the graph exactly as it was. Adding onto an existing edge can never create
// a cycle and is the hot path during merging.
func (g *Graph) AddEdge(from, to NodeID, weight int64) error {
	if !g.validID(from) || !g.validID(to) {
		return errors.Wrapf(ErrBadNodeID, "edge %d->%d", from, to)
	}
	if _, ok := g.out[from][to]; ok {
		g.out[from][to] += weight
		g.in[to][from] += weight
		return nil
	}
	if from == to || g.reaches(to, from) {
		return errors.Wrapf(ErrGraphCorruption, "edge %d->%d", from, to)
	}
	if g.out[from] == nil {
		g.out[from] = make(map[NodeID]int64)
	}
	if g.in[to] == nil {
		g.in[to] = make(map[NodeID]int64)
	}
	g.out[from][to] = weight
	g.in[to][from] = weight
	g.edgeCount++
	g.topoOK = false
	return nil
}

// reaches reports whether a directed path from src to dst exists. A fresh
// node with no outgoing edges short-circuits, which covers almost every edge
// the merger creates.
func (g *Graph) reaches(src, dst NodeID) bool {
	if len(g.out[src]) == 0 {
		return false
	}
	seen := make(map[NodeID]struct{}, 16)
	stack := []NodeID{src}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == dst {
			return true
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		for next := range g.out[n] {
			stack = append(stack, next)
		}
	}
	return false
}
