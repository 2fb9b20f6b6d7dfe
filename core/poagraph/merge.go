// core/poagraph/merge.go
package poagraph

import (
	"github.com/pkg/errors"
)

// weightIncrement maps an optional per-symbol confidence onto the amount
// added to every node and edge the symbol traverses. Linear and shifted by
// one: an unweighted merge adds exactly 1 per traversal, and a zero
// confidence still records that the sequence passed through.
func weightIncrement(weights []uint32, pos int32) int64 {
	if weights == nil {
		return 1
	}
	return 1 + int64(weights[pos])
}

// AddAlignment folds one aligned sequence into the graph: matches reuse the
// matched node, mismatches and inserts create fresh nodes, deletes keep the
// chain connected without emitting a node. weights, when non-nil, must have
// one entry per sequence symbol.
//
// The alignment is validated in full before the first mutation, so a
// rejected call (ErrBadAlignment) leaves the graph untouched. Partial merges
// do not exist.
func (g *Graph) AddAlignment(aln Alignment, seq []byte, weights []uint32) error {
	if err := g.checkAlignment(aln, seq, weights); err != nil {
		return err
	}

	prev := None
	for _, s := range aln {
		var id NodeID
		switch s.Kind {
		case StepMatch:
			id = s.Node
		case StepMismatch, StepInsert:
			id = g.AddNode(seq[s.SeqPos])
		case StepDelete:
			continue
		}
		w := weightIncrement(weights, s.SeqPos)
		g.nodes[id].Weight += w
		if prev != None {
			if err := g.AddEdge(prev, id, w); err != nil {
				// Unreachable after checkAlignment; surface it rather than
				// guessing at the arena's state.
				return errors.Wrap(err, "merge")
			}
		}
		prev = id
	}
	return nil
}

// checkAlignment verifies the structural contract between an alignment, the
// sequence it aligns and this graph. Beyond the id/length checks the merger
// requires the referenced existing nodes to appear in strictly increasing
// topological rank: that is what makes every edge the merge will add point
// forward, so the apply loop cannot trip the cycle guard.
func (g *Graph) checkAlignment(aln Alignment, seq []byte, weights []uint32) error {
	if weights != nil && len(weights) != len(seq) {
		return errors.Wrapf(ErrBadAlignment, "%d weights for %d symbols", len(weights), len(seq))
	}

	nextPos := int32(0)
	lastRank := int32(-1)
	for i, s := range aln {
		switch s.Kind {
		case StepMatch, StepMismatch:
			if !g.validID(s.Node) {
				return errors.Wrapf(ErrBadAlignment, "step %d references node %d of %d", i, s.Node, g.NodeCount())
			}
			if s.SeqPos != nextPos {
				return errors.Wrapf(ErrBadAlignment, "step %d consumes position %d, want %d", i, s.SeqPos, nextPos)
			}
			same := g.nodes[s.Node].Symbol == seq[s.SeqPos]
			if same != (s.Kind == StepMatch) {
				return errors.Wrapf(ErrBadAlignment, "step %d tagged %s against node %d", i, s.Kind, s.Node)
			}
			nextPos++
		case StepInsert:
			if s.SeqPos != nextPos {
				return errors.Wrapf(ErrBadAlignment, "step %d consumes position %d, want %d", i, s.SeqPos, nextPos)
			}
			nextPos++
		case StepDelete:
			if !g.validID(s.Node) {
				return errors.Wrapf(ErrBadAlignment, "step %d references node %d of %d", i, s.Node, g.NodeCount())
			}
		default:
			return errors.Wrapf(ErrBadAlignment, "step %d has unknown kind %d", i, s.Kind)
		}

		if s.Kind != StepInsert {
			r := g.topoRankOf(s.Node)
			if r <= lastRank {
				return errors.Wrapf(ErrBadAlignment, "step %d visits node %d out of topological order", i, s.Node)
			}
			lastRank = r
		}
	}
	if int(nextPos) != len(seq) {
		return errors.Wrapf(ErrBadAlignment, "alignment consumes %d of %d symbols", nextPos, len(seq))
	}
	return nil
}
