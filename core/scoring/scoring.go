// core/scoring/scoring.go
package scoring

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrConfig is returned (wrapped) by Create for any invalid parameter set.
var ErrConfig = errors.New("invalid scoring configuration")

// Mode selects the alignment variant.
type Mode uint8

const (
	// Local alignment (Smith-Waterman style): scores clamp at zero and the
	// traceback starts at the best cell anywhere in the matrix.
	Local Mode = iota
	// Global alignment (Needleman-Wunsch style): the whole sequence against
	// the whole graph.
	Global
	// SemiGlobal: the whole sequence, but leading/trailing graph nodes are
	// free to be skipped.
	SemiGlobal
)

func (m Mode) String() string {
	switch m {
	case Local:
		return "local"
	case Global:
		return "global"
	case SemiGlobal:
		return "semi-global"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode maps a CLI string onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return Local, nil
	case "global":
		return Global, nil
	case "semi-global", "semiglobal":
		return SemiGlobal, nil
	default:
		return Local, errors.Wrapf(ErrConfig, "unknown alignment mode %q (want local, global or semi-global)", s)
	}
}

// Scoring is the immutable alignment parameter set: one substitution pair and
// two affine gap functions. A gap of length L under (open, ext) costs
// open + (L-1)*ext; the aligner takes the cheaper of the two functions per
// cell, so the second pair only matters where it beats the first for longer
// gaps. Safe to share across concurrent Align calls.
type Scoring struct {
	Mode     Mode
	Match    int
	Mismatch int

	GapOpen    int
	GapExtend  int
	GapOpen2   int
	GapExtend2 int
}

// Create validates the parameter set. Match must be positive, all four gap
// parameters must be zero or negative, and the second gap function must not
// be dominated by the first (equal pairs are fine and degenerate to a single
// affine function).
func Create(mode Mode, match, mismatch, gapOpen, gapExt, gapOpen2, gapExt2 int) (Scoring, error) {
	s := Scoring{
		Mode:       mode,
		Match:      match,
		Mismatch:   mismatch,
		GapOpen:    gapOpen,
		GapExtend:  gapExt,
		GapOpen2:   gapOpen2,
		GapExtend2: gapExt2,
	}
	if mode > SemiGlobal {
		return Scoring{}, errors.Wrapf(ErrConfig, "unknown alignment mode %d", mode)
	}
	if match <= 0 {
		return Scoring{}, errors.Wrapf(ErrConfig, "match score must be positive, got %d", match)
	}
	for _, g := range []struct {
		name string
		v    int
	}{
		{"gap-open", gapOpen},
		{"gap-extend", gapExt},
		{"gap-open2", gapOpen2},
		{"gap-extend2", gapExt2},
	} {
		if g.v > 0 {
			return Scoring{}, errors.Wrapf(ErrConfig, "%s must be zero or negative, got %d", g.name, g.v)
		}
	}
	// A second function that is never cheaper than the first (and somewhere
	// more expensive) can never be selected for any gap length; treat it as a
	// misconfiguration rather than silently carrying dead parameters.
	if gapOpen2 <= gapOpen && gapExt2 <= gapExt && (gapOpen2 != gapOpen || gapExt2 != gapExt) {
		return Scoring{}, errors.Wrapf(ErrConfig,
			"second gap function (%d,%d) is dominated by the first (%d,%d) for every gap length",
			gapOpen2, gapExt2, gapOpen, gapExt)
	}
	return s, nil
}

// CreateSingle builds a single-affine Scoring by duplicating the gap pair.
func CreateSingle(mode Mode, match, mismatch, gapOpen, gapExt int) (Scoring, error) {
	return Create(mode, match, mismatch, gapOpen, gapExt, gapOpen, gapExt)
}

// Substitution returns the score for aligning symbol a against symbol b.
func (s Scoring) Substitution(a, b byte) int {
	if a == b {
		return s.Match
	}
	return s.Mismatch
}

// GapCost returns the cost of a length-n gap under the cheaper of the two
// affine functions (a negative number; zero for n <= 0).
func (s Scoring) GapCost(n int) int {
	if n <= 0 {
		return 0
	}
	c1 := s.GapOpen + (n-1)*s.GapExtend
	c2 := s.GapOpen2 + (n-1)*s.GapExtend2
	if c1 > c2 {
		return c1
	}
	return c2
}
