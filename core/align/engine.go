// core/align/engine.go
package align

import (
	"context"
	"math"

	"poa-core/poagraph"
	"poa-core/scoring"
)

// negInf is low enough to never win a maximum yet far from int underflow
// when gap penalties are added to it.
const negInf = math.MinInt32

// Engine aligns linear sequences against a partial-order graph under one
// immutable Scoring. It generalizes Gotoh's affine-gap alignment two ways:
// the target is a DAG (the match recurrence maximizes over every graph
// predecessor instead of the single diagonal cell) and two independent
// affine gap functions run side by side, combined only by taking the better
// of the two wherever a cell needs "the best way to be in a gap here".
//
// An Engine holds no per-call state; one Engine may serve concurrent Align
// calls against different graphs.
type Engine struct {
	sc scoring.Scoring
}

// New returns an Engine for the given scoring.
func New(sc scoring.Scoring) *Engine { return &Engine{sc: sc} }

// Scoring returns the engine's immutable parameter set.
func (e *Engine) Scoring() scoring.Scoring { return e.sc }

// Align aligns seq against g and returns the operation list to merge. The
// graph is only read. Cancellation is checked once per sequence row; a
// cancelled call returns ctx's error and nothing else.
func (e *Engine) Align(ctx context.Context, seq []byte, g *poagraph.Graph) (poagraph.Alignment, error) {
	aln, _, err := e.AlignScore(ctx, seq, g)
	return aln, err
}

// AlignScore is Align plus the DP score of the chosen traceback cell.
func (e *Engine) AlignScore(ctx context.Context, seq []byte, g *poagraph.Graph) (poagraph.Alignment, int, error) {
	// First sequence ever added: no DP to run, the whole sequence enters as
	// insertions whatever the mode.
	if g.NodeCount() == 0 {
		aln := make(poagraph.Alignment, 0, len(seq))
		for p := range seq {
			aln = append(aln, poagraph.Step{Kind: poagraph.StepInsert, Node: poagraph.None, SeqPos: int32(p)})
		}
		return aln, 0, nil
	}

	m := newMatrix(e.sc, seq, g)
	if err := m.fill(ctx); err != nil {
		return nil, 0, err
	}
	return m.traceback()
}

// track identifiers for backpointers and traceback state.
const (
	tH uint8 = iota
	tE1
	tE2
	tF1
	tF2
)

// backpointer op codes.
const (
	hOrigin uint8 = iota // traceback stops here
	hSub                 // diagonal step from pred column (arg)
	hFromE1              // best-in-cell was the E1 track
	hFromE2
	hFromF1
	hFromF2

	gapOpen   // gap track entered from H
	gapExtend // gap track continued from itself
)

// matrix is the per-call DP state. Columns follow the graph's topological
// order with column 0 as the virtual origin; rows are consumed sequence
// symbols. Five score planes (match + two gap functions per side), each with
// its own backpointers so the affine traceback never has to re-derive which
// track a score came from.
type matrix struct {
	sc  scoring.Scoring
	seq []byte
	g   *poagraph.Graph

	order []poagraph.NodeID
	preds [][]int32 // per column: predecessor columns, ascending node id
	rows  int       // len(seq)+1
	cols  int       // node count+1

	h, e1, e2, f1, f2           []int
	hOp, e1Op, e2Op, f1Op, f2Op []uint8
	hArg, e1Arg, e2Arg          []int32 // predecessor column per diagonal/E step
}

func newMatrix(sc scoring.Scoring, seq []byte, g *poagraph.Graph) *matrix {
	order := g.TopologicalOrder()
	n := len(order)

	rank := make([]int32, g.NodeCount())
	for r, id := range order {
		rank[id] = int32(r)
	}
	preds := make([][]int32, n+1)
	for k := 1; k <= n; k++ {
		in := g.InEdges(order[k-1])
		if len(in) == 0 {
			preds[k] = []int32{0}
			continue
		}
		ps := make([]int32, len(in)) // InEdges is ascending by source id
		for i, e := range in {
			ps[i] = rank[e.From] + 1
		}
		preds[k] = ps
	}

	size := (len(seq) + 1) * (n + 1)
	m := &matrix{
		sc: sc, seq: seq, g: g,
		order: order, preds: preds,
		rows: len(seq) + 1, cols: n + 1,
		h:     make([]int, size),
		e1:    make([]int, size),
		e2:    make([]int, size),
		f1:    make([]int, size),
		f2:    make([]int, size),
		hOp:   make([]uint8, size),
		e1Op:  make([]uint8, size),
		e2Op:  make([]uint8, size),
		f1Op:  make([]uint8, size),
		f2Op:  make([]uint8, size),
		hArg:  make([]int32, size),
		e1Arg: make([]int32, size),
		e2Arg: make([]int32, size),
	}
	return m
}

func (m *matrix) at(i, k int) int { return i*m.cols + k }

// fill runs the sweep: borders first, then row-major over the interior. The
// only order constraint is that a column's predecessors are filled before it
// within the same row, which the topological column layout guarantees.
func (m *matrix) fill(ctx context.Context) error {
	m.initOrigin()
	m.initRow0()
	for i := 1; i < m.rows; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.initCol0(i)
		for k := 1; k < m.cols; k++ {
			m.fillCell(i, k)
		}
	}
	return nil
}

func (m *matrix) initOrigin() {
	o := m.at(0, 0)
	m.h[o] = 0
	m.hOp[o] = hOrigin
	m.e1[o], m.e2[o], m.f1[o], m.f2[o] = negInf, negInf, negInf, negInf
}

// initRow0 fills the zero-symbols-consumed row. Global pays for skipped graph
// nodes through the deletion tracks; Local and SemiGlobal may start at any
// node for free.
func (m *matrix) initRow0() {
	for k := 1; k < m.cols; k++ {
		c := m.at(0, k)
		m.f1[c], m.f2[c] = negInf, negInf

		if m.sc.Mode != scoring.Global {
			m.h[c] = 0
			m.hOp[c] = hOrigin
			m.e1[c], m.e2[c] = negInf, negInf
			continue
		}

		m.fillGapInSeq(0, k)
		m.h[c] = m.e1[c]
		m.hOp[c] = hFromE1
		if m.e2[c] > m.h[c] {
			m.h[c] = m.e2[c]
			m.hOp[c] = hFromE2
		}
	}
}

// initCol0 fills the virtual-origin column for row i: everything before the
// graph is an insertion run. Local floors at zero instead (leading sequence
// symbols are re-attached as padding inserts after traceback).
func (m *matrix) initCol0(i int) {
	c := m.at(i, 0)
	up := m.at(i-1, 0)
	m.e1[c], m.e2[c] = negInf, negInf

	m.f1[c], m.f1Op[c] = openOrExtend(m.h[up]+m.sc.GapOpen, m.f1[up]+m.sc.GapExtend)
	m.f2[c], m.f2Op[c] = openOrExtend(m.h[up]+m.sc.GapOpen2, m.f2[up]+m.sc.GapExtend2)

	if m.sc.Mode == scoring.Local {
		m.h[c] = 0
		m.hOp[c] = hOrigin
		return
	}
	m.h[c] = m.f1[c]
	m.hOp[c] = hFromF1
	if m.f2[c] > m.h[c] {
		m.h[c] = m.f2[c]
		m.hOp[c] = hFromF2
	}
}

func openOrExtend(open, extend int) (int, uint8) {
	if open >= extend {
		return open, gapOpen
	}
	return extend, gapExtend
}

// fillGapInSeq computes both deletion tracks of cell (i,k): entering node k's
// column without consuming a symbol, from any predecessor column. Ties keep
// the earliest predecessor (ascending node id) and prefer opening over
// extending, both via strict improvement only.
func (m *matrix) fillGapInSeq(i, k int) {
	c := m.at(i, k)
	b1, op1, a1 := negInf, gapOpen, int32(0)
	b2, op2, a2 := negInf, gapOpen, int32(0)
	for _, kp := range m.preds[k] {
		p := m.at(i, int(kp))
		if s := m.h[p] + m.sc.GapOpen; s > b1 {
			b1, op1, a1 = s, gapOpen, kp
		}
		if s := m.e1[p] + m.sc.GapExtend; s > b1 {
			b1, op1, a1 = s, gapExtend, kp
		}
		if s := m.h[p] + m.sc.GapOpen2; s > b2 {
			b2, op2, a2 = s, gapOpen, kp
		}
		if s := m.e2[p] + m.sc.GapExtend2; s > b2 {
			b2, op2, a2 = s, gapExtend, kp
		}
	}
	m.e1[c], m.e1Op[c], m.e1Arg[c] = b1, op1, a1
	m.e2[c], m.e2Op[c], m.e2Arg[c] = b2, op2, a2
}

func (m *matrix) fillCell(i, k int) {
	c := m.at(i, k)
	sym := m.g.Symbol(m.order[k-1])
	sub := m.sc.Substitution(m.seq[i-1], sym)

	// Diagonal: consume a symbol while stepping pred -> node.
	best, arg := negInf, int32(0)
	for _, kp := range m.preds[k] {
		if s := m.h[m.at(i-1, int(kp))] + sub; s > best {
			best, arg = s, kp
		}
	}
	m.h[c], m.hOp[c], m.hArg[c] = best, hSub, arg

	m.fillGapInSeq(i, k)

	up := m.at(i-1, k)
	m.f1[c], m.f1Op[c] = openOrExtend(m.h[up]+m.sc.GapOpen, m.f1[up]+m.sc.GapExtend)
	m.f2[c], m.f2Op[c] = openOrExtend(m.h[up]+m.sc.GapOpen2, m.f2[up]+m.sc.GapExtend2)

	if m.e1[c] > m.h[c] {
		m.h[c], m.hOp[c] = m.e1[c], hFromE1
	}
	if m.e2[c] > m.h[c] {
		m.h[c], m.hOp[c] = m.e2[c], hFromE2
	}
	if m.f1[c] > m.h[c] {
		m.h[c], m.hOp[c] = m.f1[c], hFromF1
	}
	if m.f2[c] > m.h[c] {
		m.h[c], m.hOp[c] = m.f2[c], hFromF2
	}
	if m.sc.Mode == scoring.Local && m.h[c] < 0 {
		m.h[c], m.hOp[c] = 0, hOrigin
	}
}
