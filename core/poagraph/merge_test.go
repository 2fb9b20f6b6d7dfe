// core/poagraph/merge_test.go
package poagraph

import (
	"errors"
	"testing"
)

// insertionAlignment is what the aligner produces for the first sequence
// into an empty graph.
func insertionAlignment(n int) Alignment {
	aln := make(Alignment, n)
	for i := range aln {
		aln[i] = Step{Kind: StepInsert, Node: None, SeqPos: int32(i)}
	}
	return aln
}

func TestMergeFirstSequence(t *testing.T) {
	g := New()
	seq := []byte("ACGT")
	if err := g.AddAlignment(insertionAlignment(4), seq, nil); err != nil {
		t.Fatalf("AddAlignment: %v", err)
	}
	if g.NodeCount() != 4 || g.EdgeCount() != 3 {
		t.Fatalf("got %d nodes / %d edges, want 4 / 3", g.NodeCount(), g.EdgeCount())
	}
	for id := NodeID(0); id < 4; id++ {
		if g.Symbol(id) != seq[id] {
			t.Fatalf("node %d symbol %c, want %c", id, g.Symbol(id), seq[id])
		}
		if g.NodeWeight(id) != 1 {
			t.Fatalf("node %d weight %d, want 1", id, g.NodeWeight(id))
		}
	}
	if got := string(g.GenerateConsensus()); got != "ACGT" {
		t.Fatalf("consensus %q, want ACGT", got)
	}
}

func TestMergeMatchesReuseNodes(t *testing.T) {
	g := New()
	seq := []byte("ACGT")
	if err := g.AddAlignment(insertionAlignment(4), seq, nil); err != nil {
		t.Fatal(err)
	}

	matches := make(Alignment, 4)
	for i := range matches {
		matches[i] = Step{Kind: StepMatch, Node: NodeID(i), SeqPos: int32(i)}
	}
	if err := g.AddAlignment(matches, seq, nil); err != nil {
		t.Fatalf("AddAlignment: %v", err)
	}
	if g.NodeCount() != 4 {
		t.Fatalf("match merge grew the arena to %d nodes", g.NodeCount())
	}
	if w := g.NodeWeight(0); w != 2 {
		t.Fatalf("node 0 weight %d, want 2", w)
	}
	if w := g.EdgeWeight(0, 1); w != 2 {
		t.Fatalf("edge 0->1 weight %d, want 2", w)
	}
}

func TestMergeMismatchBranches(t *testing.T) {
	g := New()
	if err := g.AddAlignment(insertionAlignment(3), []byte("ACT"), nil); err != nil {
		t.Fatal(err)
	}
	aln := Alignment{
		{Kind: StepMatch, Node: 0, SeqPos: 0},
		{Kind: StepMismatch, Node: 1, SeqPos: 1}, // G against C
		{Kind: StepMatch, Node: 2, SeqPos: 2},
	}
	if err := g.AddAlignment(aln, []byte("AGT"), nil); err != nil {
		t.Fatalf("AddAlignment: %v", err)
	}
	if g.NodeCount() != 4 {
		t.Fatalf("node count %d, want 4 (one branch node)", g.NodeCount())
	}
	if g.Symbol(3) != 'G' || g.NodeWeight(3) != 1 {
		t.Fatal("branch node wrong")
	}
	// Branch hangs off node 0 and rejoins node 2.
	if g.EdgeWeight(0, 3) != 1 || g.EdgeWeight(3, 2) != 1 {
		t.Fatal("branch edges missing")
	}
}

func TestMergeDeletionKeepsChain(t *testing.T) {
	g := New()
	if err := g.AddAlignment(insertionAlignment(4), []byte("ACGT"), nil); err != nil {
		t.Fatal(err)
	}
	aln := Alignment{
		{Kind: StepMatch, Node: 0, SeqPos: 0},
		{Kind: StepDelete, Node: 1, SeqPos: -1},
		{Kind: StepMatch, Node: 2, SeqPos: 1},
		{Kind: StepMatch, Node: 3, SeqPos: 2},
	}
	if err := g.AddAlignment(aln, []byte("AGT"), nil); err != nil {
		t.Fatalf("AddAlignment: %v", err)
	}
	// The skip edge bridges the deleted node.
	if g.EdgeWeight(0, 2) != 1 {
		t.Fatal("skip edge 0->2 missing")
	}
	if g.NodeWeight(1) != 1 {
		t.Fatalf("deleted node gained weight: %d", g.NodeWeight(1))
	}
}

func TestMergeWeights(t *testing.T) {
	g := New()
	seq := []byte("ACG")
	if err := g.AddAlignment(insertionAlignment(3), seq, []uint32{0, 1, 9}); err != nil {
		t.Fatalf("AddAlignment: %v", err)
	}
	// Linear shifted mapping: increment = 1 + weight.
	for id, want := range []int64{1, 2, 10} {
		if got := g.NodeWeight(NodeID(id)); got != want {
			t.Fatalf("node %d weight %d, want %d", id, got, want)
		}
	}
	if g.EdgeWeight(1, 2) != 10 {
		t.Fatalf("edge 1->2 weight %d, want 10", g.EdgeWeight(1, 2))
	}
}

func TestMergeRejectsBadAlignments(t *testing.T) {
	build := func(t *testing.T) *Graph {
		t.Helper()
		g := New()
		if err := g.AddAlignment(insertionAlignment(4), []byte("ACGT"), nil); err != nil {
			t.Fatal(err)
		}
		return g
	}

	tests := []struct {
		name string
		aln  Alignment
		seq  string
		w    []uint32
	}{
		{"too few ops", Alignment{{Kind: StepMatch, Node: 0, SeqPos: 0}}, "AC", nil},
		{"node out of range", Alignment{{Kind: StepMatch, Node: 17, SeqPos: 0}}, "A", nil},
		{"match tag on mismatching symbol", Alignment{{Kind: StepMatch, Node: 1, SeqPos: 0}}, "A", nil},
		{"mismatch tag on matching symbol", Alignment{{Kind: StepMismatch, Node: 0, SeqPos: 0}}, "A", nil},
		{"weights length", insertionAlignment(2), "AC", []uint32{1}},
		{"positions out of order", Alignment{
			{Kind: StepInsert, Node: None, SeqPos: 1},
			{Kind: StepInsert, Node: None, SeqPos: 0},
		}, "AC", nil},
		{"nodes against topological order", Alignment{
			{Kind: StepMatch, Node: 2, SeqPos: 0},
			{Kind: StepMatch, Node: 1, SeqPos: 1},
		}, "GC", nil},
		{"delete bad node", Alignment{
			{Kind: StepMatch, Node: 0, SeqPos: 0},
			{Kind: StepDelete, Node: 44, SeqPos: -1},
		}, "A", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := build(t)
			nodes, edges, weight := g.NodeCount(), g.EdgeCount(), g.TotalNodeWeight()
			err := g.AddAlignment(tc.aln, []byte(tc.seq), tc.w)
			if !errors.Is(err, ErrBadAlignment) {
				t.Fatalf("err = %v, want ErrBadAlignment", err)
			}
			if g.NodeCount() != nodes || g.EdgeCount() != edges || g.TotalNodeWeight() != weight {
				t.Fatal("rejected merge mutated the graph")
			}
		})
	}
}
