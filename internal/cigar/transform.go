package cigar

import (
	"fmt"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

// MergeAdjacent coalesces consecutive runs with the same code.
func MergeAdjacent(c Cigar) Cigar {
	if len(c) == 0 {
		return nil
	}
	out := make(Cigar, 0, len(c))
	for _, op := range c {
		if n := len(out); n > 0 && out[n-1].Code == op.Code {
			out[n-1].Len += op.Len
			continue
		}
		out = append(out, op)
	}
	return out
}

// Reverse returns the operations of c in reverse order, as needed for an
// alignment on the opposite strand.
func Reverse(c Cigar) Cigar {
	if len(c) == 0 {
		return nil
	}
	out := make(Cigar, len(c))
	for i, op := range c {
		out[len(c)-1-i] = op
	}
	return out
}

// CollapseMatches folds = and X runs into M and merges the result.
func CollapseMatches(c Cigar) Cigar {
	return MergeAdjacent(recode(c, func(code OpCode) OpCode {
		if code == Equal || code == Diff {
			return Match
		}
		return code
	}))
}

// HardClipToSoft reclassifies H runs as S and merges the result. This
// increases QueryConsumed by the former hard-clipped length, so the query
// supplied alongside the Cigar must include those bases.
func HardClipToSoft(c Cigar) Cigar {
	return MergeAdjacent(recode(c, func(code OpCode) OpCode {
		if code == HardClip {
			return SoftClip
		}
		return code
	}))
}

func recode(c Cigar, fn func(OpCode) OpCode) Cigar {
	out := make(Cigar, len(c))
	for i, op := range c {
		out[i] = Op{Code: fn(op.Code), Len: op.Len}
	}
	return out
}

// SplitAtReference partitions c into two Cigars whose reference spans meet
// at refPos. A reference-consuming run crossing refPos is cut in two. Runs
// that do not consume the reference and sit exactly at refPos go to the
// right-hand side.
func SplitAtReference(c Cigar, refPos int) (left, right Cigar, err error) {
	total := c.ReferenceConsumed()
	if refPos < 0 || refPos > total {
		return nil, nil, fmt.Errorf("%w: split position %d outside reference span [0, %d]",
			bioerr.ErrLengthMismatch, refPos, total)
	}

	r := 0
	for _, op := range c {
		if !op.Code.ConsumesReference() {
			if r < refPos {
				left = append(left, op)
			} else {
				right = append(right, op)
			}
			continue
		}
		switch {
		case r+op.Len <= refPos:
			left = append(left, op)
		case r >= refPos:
			right = append(right, op)
		default:
			cut := refPos - r
			left = append(left, Op{Code: op.Code, Len: cut})
			right = append(right, Op{Code: op.Code, Len: op.Len - cut})
		}
		r += op.Len
	}
	return left, right, nil
}
