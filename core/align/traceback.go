// core/align/traceback.go
package align

import (
	"github.com/pkg/errors"

	"poa-core/poagraph"
	"poa-core/scoring"
)

// startCell picks the traceback origin for the mode: Global ends at the best
// graph sink with the sequence fully consumed, SemiGlobal at the best
// last-row cell (any node, or none), Local at the best cell anywhere. Ties
// break toward the smaller node id, then the earlier row.
func (m *matrix) startCell() (i, k int) {
	switch m.sc.Mode {
	case scoring.Global:
		bestK := -1
		for kk := 1; kk < m.cols; kk++ {
			if !m.g.IsSink(m.order[kk-1]) {
				continue
			}
			if bestK < 0 || m.better(m.rows-1, kk, m.rows-1, bestK) {
				bestK = kk
			}
		}
		if bestK < 0 {
			bestK = 0 // unreachable: a non-empty DAG always has a sink
		}
		return m.rows - 1, bestK

	case scoring.SemiGlobal:
		bestK := 0
		for kk := 1; kk < m.cols; kk++ {
			if m.better(m.rows-1, kk, m.rows-1, bestK) {
				bestK = kk
			}
		}
		return m.rows - 1, bestK

	default: // Local
		bi, bk := 0, 0
		for ii := 0; ii < m.rows; ii++ {
			for kk := 0; kk < m.cols; kk++ {
				if m.better(ii, kk, bi, bk) {
					bi, bk = ii, kk
				}
			}
		}
		return bi, bk
	}
}

// better reports whether cell (i,a) strictly beats (j,b): higher score, or
// equal score and smaller node id (column 0 counts as the smallest).
func (m *matrix) better(i, a, j, b int) bool {
	sa, sb := m.h[m.at(i, a)], m.h[m.at(j, b)]
	if sa != sb {
		return sa > sb
	}
	ida, idb := poagraph.None, poagraph.None
	if a > 0 {
		ida = m.order[a-1]
	}
	if b > 0 {
		idb = m.order[b-1]
	}
	return ida < idb
}

// traceback reconstructs the operation list from the backpointer planes,
// then pads any sequence symbols a Local traceback left uncovered as leading
// or trailing insertions so the merger always receives a full-coverage
// alignment.
func (m *matrix) traceback() (poagraph.Alignment, int, error) {
	i, k := m.startCell()
	score := m.h[m.at(i, k)]
	iStart := i

	rev := make(poagraph.Alignment, 0, m.rows+m.cols)
	track := tH

walk:
	for {
		c := m.at(i, k)
		switch track {
		case tH:
			switch m.hOp[c] {
			case hOrigin:
				break walk
			case hSub:
				node := m.order[k-1]
				kind := poagraph.StepMatch
				if m.g.Symbol(node) != m.seq[i-1] {
					kind = poagraph.StepMismatch
				}
				rev = append(rev, poagraph.Step{Kind: kind, Node: node, SeqPos: int32(i - 1)})
				k = int(m.hArg[c])
				i--
			case hFromE1:
				track = tE1
			case hFromE2:
				track = tE2
			case hFromF1:
				track = tF1
			case hFromF2:
				track = tF2
			}

		case tE1, tE2:
			op, arg := m.e1Op[c], m.e1Arg[c]
			if track == tE2 {
				op, arg = m.e2Op[c], m.e2Arg[c]
			}
			rev = append(rev, poagraph.Step{Kind: poagraph.StepDelete, Node: m.order[k-1], SeqPos: -1})
			if op == gapOpen {
				track = tH
			}
			k = int(arg)

		case tF1, tF2:
			op := m.f1Op[c]
			if track == tF2 {
				op = m.f2Op[c]
			}
			rev = append(rev, poagraph.Step{Kind: poagraph.StepInsert, Node: poagraph.None, SeqPos: int32(i - 1)})
			if op == gapOpen {
				track = tH
			}
			i--
		}
		if i < 0 || k < 0 {
			return nil, 0, errors.New("alignment traceback escaped the matrix")
		}
	}
	iStop := i

	aln := make(poagraph.Alignment, 0, iStop+len(rev)+(len(m.seq)-iStart))
	for p := 0; p < iStop; p++ {
		aln = append(aln, poagraph.Step{Kind: poagraph.StepInsert, Node: poagraph.None, SeqPos: int32(p)})
	}
	for j := len(rev) - 1; j >= 0; j-- {
		aln = append(aln, rev[j])
	}
	for p := iStart; p < len(m.seq); p++ {
		aln = append(aln, poagraph.Step{Kind: poagraph.StepInsert, Node: poagraph.None, SeqPos: int32(p)})
	}
	return aln, score, nil
}
