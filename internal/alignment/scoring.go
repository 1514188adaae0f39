// Package alignment provides pairwise and progressive multiple sequence
// alignment.
//
// Pairwise alignment uses affine gap penalties in global, local and
// semi-global modes, with full, banded and score-only variants. Scores
// follow the sign convention of the scoring scheme: matches are positive,
// gaps are non-positive, and a gap of length k costs GapOpen + k*GapExtend.
package alignment

import (
	"fmt"
	"strings"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

// Mode selects the DP boundary conditions and where traceback starts.
type Mode int

const (
	// Local finds the best-scoring pair of substrings (Smith-Waterman).
	Local Mode = iota
	// Global aligns both sequences end to end (Needleman-Wunsch).
	Global
	// SemiGlobal aligns the whole query and leaves the target's unaligned
	// prefix and suffix free of penalty.
	SemiGlobal
)

func (m Mode) String() string {
	switch m {
	case Local:
		return "local"
	case Global:
		return "global"
	case SemiGlobal:
		return "semiglobal"
	default:
		return "unknown"
	}
}

// ParseMode parses "local", "global" or "semiglobal".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return Local, nil
	case "global":
		return Global, nil
	case "semiglobal", "semi-global":
		return SemiGlobal, nil
	}
	return 0, fmt.Errorf("%w: unknown alignment mode %q (expected local, global, or semiglobal)", bioerr.ErrInvalidScoring, s)
}

// Scheme scores aligned residue pairs and gaps.
type Scheme interface {
	// Score returns the score of aligning a against b.
	Score(a, b byte) int
	// GapOpen returns the one-off cost added when a gap starts.
	GapOpen() int
	// GapExtend returns the cost added for every gap base.
	GapExtend() int
}

// ScoringMatrix is a match/mismatch scheme for nucleotides.
type ScoringMatrix struct {
	MatchScore       int `json:"match" yaml:"match"`
	MismatchPenalty  int `json:"mismatch" yaml:"mismatch"`
	GapOpenPenalty   int `json:"gap_open" yaml:"gap_open"`
	GapExtendPenalty int `json:"gap_extend" yaml:"gap_extend"`
}

// MaxPenalty bounds the magnitude of every residue score and gap penalty
// a scheme may use.
const MaxPenalty = 1 << 20

// NewScoringMatrix creates a match/mismatch scheme. match must be positive
// and both gap penalties non-positive; the mismatch score may take either
// sign. No magnitude may exceed MaxPenalty.
func NewScoringMatrix(match, mismatch, gapOpen, gapExtend int) (*ScoringMatrix, error) {
	if match <= 0 || match > MaxPenalty {
		return nil, fmt.Errorf("%w: match score must be in [1, %d], got %d", bioerr.ErrInvalidScoring, MaxPenalty, match)
	}
	if mismatch < -MaxPenalty || mismatch > MaxPenalty {
		return nil, fmt.Errorf("%w: mismatch score must be within +/-%d, got %d", bioerr.ErrInvalidScoring, MaxPenalty, mismatch)
	}
	if err := checkGaps(gapOpen, gapExtend); err != nil {
		return nil, err
	}

	return &ScoringMatrix{
		MatchScore:       match,
		MismatchPenalty:  mismatch,
		GapOpenPenalty:   gapOpen,
		GapExtendPenalty: gapExtend,
	}, nil
}

// DefaultDNA returns the default nucleotide scheme: +2/-1, gaps -2/-1.
func DefaultDNA() *ScoringMatrix {
	return &ScoringMatrix{
		MatchScore:       2,
		MismatchPenalty:  -1,
		GapOpenPenalty:   -2,
		GapExtendPenalty: -1,
	}
}

// BLASTLike returns the blastn-style scheme: +1/-3, gaps -5/-2.
func BLASTLike() *ScoringMatrix {
	return &ScoringMatrix{
		MatchScore:       1,
		MismatchPenalty:  -3,
		GapOpenPenalty:   -5,
		GapExtendPenalty: -2,
	}
}

// Score compares two residues case-insensitively.
func (s *ScoringMatrix) Score(a, b byte) int {
	if upper(a) == upper(b) {
		return s.MatchScore
	}
	return s.MismatchPenalty
}

func (s *ScoringMatrix) GapOpen() int   { return s.GapOpenPenalty }
func (s *ScoringMatrix) GapExtend() int { return s.GapExtendPenalty }

func (s *ScoringMatrix) String() string {
	return fmt.Sprintf("ScoringMatrix { match: %d, mismatch: %d, gap_open: %d, gap_extend: %d }",
		s.MatchScore, s.MismatchPenalty, s.GapOpenPenalty, s.GapExtendPenalty)
}

// SubstitutionScheme scores residues through a substitution matrix.
type SubstitutionScheme struct {
	Matrix           *Matrix
	GapOpenPenalty   int
	GapExtendPenalty int
}

// NewSubstitutionScheme looks up a built-in matrix by name (case
// insensitive) with its customary gap penalties.
func NewSubstitutionScheme(name string) (*SubstitutionScheme, error) {
	entry, ok := matrices[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown substitution matrix %q (expected %s)",
			bioerr.ErrInvalidScoring, name, strings.Join(MatrixNames(), ", "))
	}
	return &SubstitutionScheme{
		Matrix:           entry.matrix,
		GapOpenPenalty:   entry.gapOpen,
		GapExtendPenalty: entry.gapExtend,
	}, nil
}

// NewSubstitutionSchemeWithGaps is NewSubstitutionScheme with explicit gap
// penalties.
func NewSubstitutionSchemeWithGaps(name string, gapOpen, gapExtend int) (*SubstitutionScheme, error) {
	s, err := NewSubstitutionScheme(name)
	if err != nil {
		return nil, err
	}
	if err := checkGaps(gapOpen, gapExtend); err != nil {
		return nil, err
	}
	s.GapOpenPenalty, s.GapExtendPenalty = gapOpen, gapExtend
	return s, nil
}

// DefaultProtein returns BLOSUM62 with gaps -11/-1.
func DefaultProtein() *SubstitutionScheme {
	s, _ := NewSubstitutionScheme("blosum62")
	return s
}

func (s *SubstitutionScheme) Score(a, b byte) int { return s.Matrix.Score(a, b) }
func (s *SubstitutionScheme) GapOpen() int        { return s.GapOpenPenalty }
func (s *SubstitutionScheme) GapExtend() int      { return s.GapExtendPenalty }

func (s *SubstitutionScheme) String() string {
	return fmt.Sprintf("SubstitutionScheme { matrix: %s, gap_open: %d, gap_extend: %d }",
		s.Matrix.Name(), s.GapOpenPenalty, s.GapExtendPenalty)
}

// SchemeForMolecule returns the default scheme for "dna" or "protein".
func SchemeForMolecule(molecule string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(molecule)) {
	case "dna", "rna", "nucleotide":
		return DefaultDNA(), nil
	case "protein":
		return DefaultProtein(), nil
	}
	return nil, fmt.Errorf("%w: unknown molecule type %q (expected dna or protein)", bioerr.ErrInvalidScoring, molecule)
}

func checkGaps(gapOpen, gapExtend int) error {
	if gapOpen > 0 || gapOpen < -MaxPenalty {
		return fmt.Errorf("%w: gap open penalty must be in [-%d, 0], got %d", bioerr.ErrInvalidScoring, MaxPenalty, gapOpen)
	}
	if gapExtend > 0 || gapExtend < -MaxPenalty {
		return fmt.Errorf("%w: gap extend penalty must be in [-%d, 0], got %d", bioerr.ErrInvalidScoring, MaxPenalty, gapExtend)
	}
	return nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
