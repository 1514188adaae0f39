package alignment

import (
	"fmt"
	"strings"

	"github.com/aria-lang/bioalign-go/internal/cigar"
)

// Result is the outcome of a pairwise alignment. It is never modified after
// the engine returns it.
type Result struct {
	Score         int
	AlignedQuery  string
	AlignedTarget string
	// Half-open, zero-based spans of the input consumed by the alignment.
	QueryStart  int
	QueryEnd    int
	TargetStart int
	TargetEnd   int
	// Lengths of the unaligned inputs, used for clipped CIGARs.
	QueryLength  int
	TargetLength int
	Mode         Mode
}

// Length returns the number of alignment columns.
func (r *Result) Length() int {
	return len(r.AlignedQuery)
}

// Matches returns the number of identical residue columns.
func (r *Result) Matches() int {
	count := 0
	for i := 0; i < len(r.AlignedQuery); i++ {
		q, t := r.AlignedQuery[i], r.AlignedTarget[i]
		if q != cigar.Gap && t != cigar.Gap && upper(q) == upper(t) {
			count++
		}
	}
	return count
}

// Mismatches returns the number of substitution columns.
func (r *Result) Mismatches() int {
	count := 0
	for i := 0; i < len(r.AlignedQuery); i++ {
		q, t := r.AlignedQuery[i], r.AlignedTarget[i]
		if q != cigar.Gap && t != cigar.Gap && upper(q) != upper(t) {
			count++
		}
	}
	return count
}

// Gaps returns the number of columns with a gap on either side.
func (r *Result) Gaps() int {
	return strings.Count(r.AlignedQuery, "-") + strings.Count(r.AlignedTarget, "-")
}

// GapOpenings counts maximal gap runs in both rows.
func (r *Result) GapOpenings() int {
	openings := 0
	inGapQ, inGapT := false, false

	for i := 0; i < len(r.AlignedQuery); i++ {
		if r.AlignedQuery[i] == cigar.Gap && !inGapQ {
			openings++
		}
		inGapQ = r.AlignedQuery[i] == cigar.Gap

		if r.AlignedTarget[i] == cigar.Gap && !inGapT {
			openings++
		}
		inGapT = r.AlignedTarget[i] == cigar.Gap
	}

	return openings
}

// Identity returns matches / alignment length, or 0 for an empty alignment.
func (r *Result) Identity() float64 {
	if len(r.AlignedQuery) == 0 {
		return 0
	}
	return float64(r.Matches()) / float64(len(r.AlignedQuery))
}

// Cigar encodes the aligned columns with the target as reference, using M
// for every aligned pair.
func (r *Result) Cigar() cigar.Cigar {
	c, _ := cigar.FromAlignment([]byte(r.AlignedQuery), []byte(r.AlignedTarget), false)
	return c
}

// ExtendedCigar is Cigar with = and X in place of M.
func (r *Result) ExtendedCigar() cigar.Cigar {
	c, _ := cigar.FromAlignment([]byte(r.AlignedQuery), []byte(r.AlignedTarget), true)
	return c
}

// ClippedCigar is Cigar with the unaligned query ends added as soft clips,
// the form a SAM record for the query would carry.
func (r *Result) ClippedCigar() cigar.Cigar {
	var c cigar.Cigar
	if r.QueryStart > 0 {
		c = append(c, cigar.Op{Code: cigar.SoftClip, Len: r.QueryStart})
	}
	c = append(c, r.Cigar()...)
	if tail := r.QueryLength - r.QueryEnd; tail > 0 {
		c = append(c, cigar.Op{Code: cigar.SoftClip, Len: tail})
	}
	return c
}

// CigarString renders Cigar, or "*" for an empty alignment.
func (r *Result) CigarString() string {
	return r.Cigar().String()
}

// Format renders the alignment over three lines with a match track.
func (r *Result) Format() string {
	var matchLine strings.Builder
	for i := 0; i < len(r.AlignedQuery); i++ {
		q, t := r.AlignedQuery[i], r.AlignedTarget[i]
		switch {
		case q == cigar.Gap || t == cigar.Gap:
			matchLine.WriteByte(' ')
		case upper(q) == upper(t):
			matchLine.WriteByte('|')
		default:
			matchLine.WriteByte('.')
		}
	}

	return fmt.Sprintf("Query:  %s\n        %s\nTarget: %s\nScore: %d\nIdentity: %.1f%%\nCIGAR: %s",
		r.AlignedQuery, matchLine.String(), r.AlignedTarget,
		r.Score, r.Identity()*100, r.CigarString())
}

func (r *Result) String() string {
	return fmt.Sprintf("Alignment { mode: %s, score: %d, identity: %.1f%%, length: %d }",
		r.Mode, r.Score, r.Identity()*100, r.Length())
}
