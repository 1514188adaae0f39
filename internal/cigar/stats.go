package cigar

import (
	"fmt"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

// Stats summarizes a Cigar.
type Stats struct {
	Cigar             string  `json:"cigar" yaml:"cigar"`
	ReferenceConsumed int     `json:"reference_consumed" yaml:"reference_consumed"`
	QueryConsumed     int     `json:"query_consumed" yaml:"query_consumed"`
	Columns           int     `json:"alignment_columns" yaml:"alignment_columns"`
	Identity          float64 `json:"identity" yaml:"identity"`
	GapCount          int     `json:"gap_count" yaml:"gap_count"`
	GapBases          int     `json:"gap_bases" yaml:"gap_bases"`
	SoftClipped       int     `json:"soft_clipped" yaml:"soft_clipped"`
	HardClipped       int     `json:"hard_clipped" yaml:"hard_clipped"`
}

// Summarize computes all statistics of c. Plain M runs count as matches
// in Identity, so for an M-vocabulary Cigar it is an upper bound; use
// IdentityAgainst for the exact value.
func Summarize(c Cigar) Stats {
	var matches, mismatches int
	for _, op := range c {
		switch op.Code {
		case Match, Equal:
			matches += op.Len
		case Diff:
			mismatches += op.Len
		}
	}
	return Stats{
		Cigar:             c.String(),
		ReferenceConsumed: c.ReferenceConsumed(),
		QueryConsumed:     c.QueryConsumed(),
		Columns:           c.Columns(),
		Identity:          ratio(matches, matches+mismatches+c.GapBases()),
		GapCount:          c.GapCount(),
		GapBases:          c.GapBases(),
		SoftClipped:       c.SoftClipped(),
		HardClipped:       c.HardClipped(),
	}
}

// ReferenceConsumed returns the number of reference bases spanned by c.
func (c Cigar) ReferenceConsumed() int {
	n := 0
	for _, op := range c {
		if op.Code.ConsumesReference() {
			n += op.Len
		}
	}
	return n
}

// QueryConsumed returns the number of query bases described by c,
// including soft clips.
func (c Cigar) QueryConsumed() int {
	n := 0
	for _, op := range c {
		if op.Code.ConsumesQuery() {
			n += op.Len
		}
	}
	return n
}

// Columns returns the sum of all run lengths.
func (c Cigar) Columns() int {
	n := 0
	for _, op := range c {
		n += op.Len
	}
	return n
}

// GapCount returns the number of I and D runs.
func (c Cigar) GapCount() int {
	n := 0
	for _, op := range c {
		if op.Code == Insertion || op.Code == Deletion {
			n++
		}
	}
	return n
}

// GapBases returns the total length of I and D runs.
func (c Cigar) GapBases() int {
	n := 0
	for _, op := range c {
		if op.Code == Insertion || op.Code == Deletion {
			n += op.Len
		}
	}
	return n
}

// SoftClipped returns the total length of S runs.
func (c Cigar) SoftClipped() int {
	return c.total(SoftClip)
}

// HardClipped returns the total length of H runs.
func (c Cigar) HardClipped() int {
	return c.total(HardClip)
}

func (c Cigar) total(code OpCode) int {
	n := 0
	for _, op := range c {
		if op.Code == code {
			n += op.Len
		}
	}
	return n
}

// Identity returns matches / (matches + mismatches + indel bases) for an
// extended-vocabulary Cigar. A plain M run cannot be classified without
// the sequences, so it yields ErrInconsistentCigar.
func (c Cigar) Identity() (float64, error) {
	var matches, mismatches int
	for i, op := range c {
		switch op.Code {
		case Match:
			return 0, fmt.Errorf("%w: M run at index %d needs sequences to compute identity", bioerr.ErrInconsistentCigar, i)
		case Equal:
			matches += op.Len
		case Diff:
			mismatches += op.Len
		}
	}
	return ratio(matches, matches+mismatches+c.GapBases()), nil
}

// IdentityAgainst computes identity by comparing the bases that each M run
// aligns. Comparison is case-insensitive.
func (c Cigar) IdentityAgainst(query, reference []byte) (float64, error) {
	if err := c.checkLengths(query, reference); err != nil {
		return 0, err
	}

	var qi, ri, matches, mismatches int
	for _, op := range c {
		switch op.Code {
		case Match:
			for k := 0; k < op.Len; k++ {
				if upper(query[qi+k]) == upper(reference[ri+k]) {
					matches++
				} else {
					mismatches++
				}
			}
		case Equal:
			matches += op.Len
		case Diff:
			mismatches += op.Len
		}
		if op.Code.ConsumesQuery() {
			qi += op.Len
		}
		if op.Code.ConsumesReference() {
			ri += op.Len
		}
	}
	return ratio(matches, matches+mismatches+c.GapBases()), nil
}

func (c Cigar) checkLengths(query, reference []byte) error {
	if q := c.QueryConsumed(); q != len(query) {
		return fmt.Errorf("%w: cigar %s consumes %d query bases, got %d", bioerr.ErrLengthMismatch, c, q, len(query))
	}
	if r := c.ReferenceConsumed(); r != len(reference) {
		return fmt.Errorf("%w: cigar %s consumes %d reference bases, got %d", bioerr.ErrLengthMismatch, c, r, len(reference))
	}
	return nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
