// core/msa/session.go
package msa

import (
	"context"

	"github.com/pkg/errors"

	"poa-core/align"
	"poa-core/poagraph"
	"poa-core/scoring"
)

// Session folds sequences one at a time into a single partial-order graph
// and extracts their consensus. It owns the graph for its whole lifetime;
// calls on one Session must not overlap (the graph has exactly one writer).
type Session struct {
	engine *align.Engine
	graph  *poagraph.Graph
	added  int
}

// NewSession returns an empty session under the given scoring.
func NewSession(sc scoring.Scoring) *Session {
	return &Session{engine: align.New(sc), graph: poagraph.New()}
}

// AddSequence aligns seq against the current graph and merges it. weights,
// when non-nil, supplies one non-negative confidence per symbol (FASTQ
// qualities, typically). Errors carry the zero-based sequence index: a
// failed sequence aborts the whole batch, so the caller needs to know which
// one it was.
func (s *Session) AddSequence(ctx context.Context, seq []byte, weights []uint32) error {
	idx := s.added
	aln, err := s.engine.Align(ctx, seq, s.graph)
	if err != nil {
		return errors.Wrapf(err, "sequence %d", idx)
	}
	if err := s.graph.AddAlignment(aln, seq, weights); err != nil {
		return errors.Wrapf(err, "sequence %d", idx)
	}
	s.added++
	return nil
}

// Count returns how many sequences have been merged.
func (s *Session) Count() int { return s.added }

// Graph exposes the underlying graph (read-only use expected).
func (s *Session) Graph() *poagraph.Graph { return s.graph }

// Consensus extracts the heaviest path through everything merged so far.
// Zero merged sequences yield an empty, valid consensus.
func (s *Session) Consensus() []byte { return s.graph.GenerateConsensus() }

// Consensus is the one-shot driver: align and merge every sequence in
// order, then extract once. weights may be nil, or one (possibly nil) slice
// per sequence.
func Consensus(ctx context.Context, sc scoring.Scoring, seqs [][]byte, weights [][]uint32) ([]byte, error) {
	if weights != nil && len(weights) != len(seqs) {
		return nil, errors.Wrapf(poagraph.ErrBadAlignment, "%d weight sets for %d sequences", len(weights), len(seqs))
	}
	s := NewSession(sc)
	for i, seq := range seqs {
		var w []uint32
		if weights != nil {
			w = weights[i]
		}
		if err := s.AddSequence(ctx, seq, w); err != nil {
			return nil, err
		}
	}
	return s.Consensus(), nil
}
