// core/poagraph/alignment.go
package poagraph

// StepKind labels one alignment operation.
type StepKind uint8

const (
	// StepMatch aligns a sequence symbol onto an existing node with the same
	// symbol; merging reuses the node.
	StepMatch StepKind = iota
	// StepMismatch aligns a sequence symbol onto an existing node with a
	// different symbol; merging creates a fresh node beside it.
	StepMismatch
	// StepInsert consumes a sequence symbol with no graph counterpart.
	StepInsert
	// StepDelete skips a graph node with no sequence counterpart.
	StepDelete
)

func (k StepKind) String() string {
	switch k {
	case StepMatch:
		return "match"
	case StepMismatch:
		return "mismatch"
	case StepInsert:
		return "insert"
	case StepDelete:
		return "delete"
	default:
		return "?"
	}
}

// Step is one alignment operation. Node is None for inserts; SeqPos is -1
// for deletes.
type Step struct {
	Kind   StepKind
	Node   NodeID
	SeqPos int32
}

// Alignment is the ordered operation list produced by the aligner and
// consumed exactly once by AddAlignment. Every sequence position appears in
// exactly one non-delete step, in ascending order.
type Alignment []Step

// ConsumedSymbols counts the steps that consume a sequence symbol
// (match + mismatch + insert).
func (a Alignment) ConsumedSymbols() int {
	n := 0
	for _, s := range a {
		if s.Kind != StepDelete {
			n++
		}
	}
	return n
}
