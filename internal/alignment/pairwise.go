package alignment

import (
	"fmt"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
	"github.com/aria-lang/bioalign-go/internal/cigar"
)

// Align computes the optimal alignment of query against target.
//
// Global alignments span both sequences. Local alignments report the
// highest-scoring cell, ties broken by smallest query then target position;
// if no cell scores above zero the result is empty with score 0.
// Semi-global alignments span the whole query and may start and end
// anywhere in the target; among equal end scores the leftmost wins.
func Align(query, target []byte, mode Mode, scheme Scheme) (*Result, error) {
	if err := checkInputs(query, target, mode, scheme); err != nil {
		return nil, err
	}
	b := fullBand(len(query), len(target))
	return newKernel(query, target, mode, scheme, b, true).run(), nil
}

// ScoreOnly returns the score Align would report, keeping two rows of the
// matrix instead of the full traceback.
func ScoreOnly(query, target []byte, mode Mode, scheme Scheme) (int, error) {
	if err := checkInputs(query, target, mode, scheme); err != nil {
		return 0, err
	}
	b := fullBand(len(query), len(target))
	score, _, _ := newKernel(query, target, mode, scheme, b, false).fill()
	return score, nil
}

// NeedlemanWunsch performs global alignment.
func NeedlemanWunsch(query, target []byte, scheme Scheme) (*Result, error) {
	return Align(query, target, Global, scheme)
}

// SmithWaterman performs local alignment.
func SmithWaterman(query, target []byte, scheme Scheme) (*Result, error) {
	return Align(query, target, Local, scheme)
}

// SemiGlobalAlignment fits the whole query inside target.
func SemiGlobalAlignment(query, target []byte, scheme Scheme) (*Result, error) {
	return Align(query, target, SemiGlobal, scheme)
}

func checkInputs(query, target []byte, mode Mode, scheme Scheme) error {
	if mode != Local && mode != Global && mode != SemiGlobal {
		return fmt.Errorf("%w: unknown alignment mode %d", bioerr.ErrInvalidScoring, int(mode))
	}
	if scheme == nil {
		return fmt.Errorf("%w: scoring scheme is nil", bioerr.ErrInvalidScoring)
	}
	if err := checkGaps(scheme.GapOpen(), scheme.GapExtend()); err != nil {
		return err
	}
	if len(query) == 0 {
		return fmt.Errorf("%w: query sequence is empty", bioerr.ErrEmptyInput)
	}
	if len(target) == 0 {
		return fmt.Errorf("%w: target sequence is empty", bioerr.ErrEmptyInput)
	}
	return nil
}

// IndexedResult pairs a result with the index of its target.
type IndexedResult struct {
	Index  int
	Result *Result
}

// AlignAgainstMultiple locally aligns query against every target.
func AlignAgainstMultiple(query []byte, targets [][]byte, scheme Scheme) ([]IndexedResult, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: target list is empty", bioerr.ErrEmptyInput)
	}

	results := make([]IndexedResult, len(targets))
	for i, target := range targets {
		res, err := SmithWaterman(query, target, scheme)
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
		results[i] = IndexedResult{Index: i, Result: res}
	}

	return results, nil
}

// FindBestAlignment returns the highest-scoring local alignment among
// targets, preferring the lowest index on ties.
func FindBestAlignment(query []byte, targets [][]byte, scheme Scheme) (*IndexedResult, error) {
	results, err := AlignAgainstMultiple(query, targets, scheme)
	if err != nil {
		return nil, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Result.Score > best.Result.Score {
			best = r
		}
	}

	return &best, nil
}

// PercentIdentity returns the percentage of identical columns in two
// gapped rows.
func PercentIdentity(aligned1, aligned2 string) (float64, error) {
	if len(aligned1) != len(aligned2) {
		return 0, fmt.Errorf("%w: aligned rows have lengths %d and %d", bioerr.ErrLengthMismatch, len(aligned1), len(aligned2))
	}
	if len(aligned1) == 0 {
		return 0, fmt.Errorf("%w: aligned rows are empty", bioerr.ErrEmptyInput)
	}

	matches := 0
	for i := 0; i < len(aligned1); i++ {
		if aligned1[i] != cigar.Gap && upper(aligned1[i]) == upper(aligned2[i]) {
			matches++
		}
	}

	return float64(matches) / float64(len(aligned1)) * 100.0, nil
}
