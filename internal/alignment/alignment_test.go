package alignment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

func TestGlobalIdentical(t *testing.T) {
	res, err := Align([]byte("ACGT"), []byte("ACGT"), Global, DefaultDNA())
	require.NoError(t, err)

	assert.Equal(t, 8, res.Score)
	assert.Equal(t, "ACGT", res.AlignedQuery)
	assert.Equal(t, "ACGT", res.AlignedTarget)
	assert.Equal(t, 1.0, res.Identity())
	assert.Equal(t, 4, res.Matches())
	assert.Equal(t, 0, res.Mismatches())
	assert.Equal(t, 0, res.Gaps())
	assert.Equal(t, "4M", res.CigarString())
}

func TestGlobalSingleGap(t *testing.T) {
	res, err := Align([]byte("ACGT"), []byte("AGT"), Global, DefaultDNA())
	require.NoError(t, err)

	// 3 matches minus one single-base gap (open + extend).
	assert.Equal(t, 3, res.Score)
	assert.Equal(t, "ACGT", res.AlignedQuery)
	assert.Equal(t, "A-GT", res.AlignedTarget)
	assert.Equal(t, 4, res.Length())
	assert.Equal(t, 1, res.Gaps())
	assert.Equal(t, 1, res.GapOpenings())
	assert.Equal(t, "1M1I2M", res.CigarString())
	assert.InDelta(t, 0.75, res.Identity(), 1e-9)
}

func TestAffineGapIsSingleRun(t *testing.T) {
	res, err := Align([]byte("AAAATTTT"), []byte("AAAAGGTTTT"), Global, DefaultDNA())
	require.NoError(t, err)

	// 8 matches, one gap of length 2: -2 + 2*-1.
	assert.Equal(t, 12, res.Score)
	assert.Equal(t, "AAAA--TTTT", res.AlignedQuery)
	assert.Equal(t, 1, res.GapOpenings())
	assert.Equal(t, "4M2D4M", res.CigarString())
}

func TestLocal(t *testing.T) {
	t.Run("embedded match", func(t *testing.T) {
		res, err := Align([]byte("TTACGTAA"), []byte("GGACGTCC"), Local, DefaultDNA())
		require.NoError(t, err)

		assert.Equal(t, 8, res.Score)
		assert.Equal(t, "ACGT", res.AlignedQuery)
		assert.Equal(t, 2, res.QueryStart)
		assert.Equal(t, 6, res.QueryEnd)
		assert.Equal(t, 2, res.TargetStart)
		assert.Equal(t, 6, res.TargetEnd)
		assert.Equal(t, "2S4M2S", res.ClippedCigar().String())
	})

	t.Run("no positive cell", func(t *testing.T) {
		res, err := Align([]byte("AAAA"), []byte("TTTT"), Local, DefaultDNA())
		require.NoError(t, err)

		assert.Equal(t, 0, res.Score)
		assert.Equal(t, 0, res.Length())
		assert.Equal(t, 0.0, res.Identity())
		assert.Equal(t, "*", res.CigarString())
	})

	t.Run("ties prefer earliest cell", func(t *testing.T) {
		res, err := Align([]byte("AC"), []byte("ACAC"), Local, DefaultDNA())
		require.NoError(t, err)

		assert.Equal(t, 4, res.Score)
		assert.Equal(t, 0, res.TargetStart)
		assert.Equal(t, 2, res.TargetEnd)
	})

	t.Run("case insensitive", func(t *testing.T) {
		res, err := Align([]byte("acgt"), []byte("ACGT"), Local, DefaultDNA())
		require.NoError(t, err)
		assert.Equal(t, 8, res.Score)
		assert.Equal(t, 1.0, res.Identity())
	})
}

func TestSemiGlobalTargetEndsFree(t *testing.T) {
	res, err := Align([]byte("ACGT"), []byte("TTTACGTTTT"), SemiGlobal, DefaultDNA())
	require.NoError(t, err)

	assert.Equal(t, 8, res.Score)
	assert.Equal(t, "ACGT", res.AlignedQuery)
	assert.Equal(t, "ACGT", res.AlignedTarget)
	assert.Equal(t, 0, res.QueryStart)
	assert.Equal(t, 4, res.QueryEnd)
	assert.Equal(t, 3, res.TargetStart)
	assert.Equal(t, 7, res.TargetEnd)

	global, err := Align([]byte("ACGT"), []byte("TTTACGTTTT"), Global, DefaultDNA())
	require.NoError(t, err)
	assert.Less(t, global.Score, res.Score)
}

func TestSemiGlobalQueryEndsPenalized(t *testing.T) {
	res, err := Align([]byte("GGACGT"), []byte("ACGT"), SemiGlobal, DefaultDNA())
	require.NoError(t, err)

	// The whole query is aligned, so the leading GG is a gap of length 2.
	assert.Equal(t, 0, res.QueryStart)
	assert.Equal(t, 6, res.QueryEnd)
	assert.Equal(t, 8-4, res.Score)
	assert.Equal(t, "--ACGT", res.AlignedTarget)
}

func TestProtein(t *testing.T) {
	scheme, err := NewSubstitutionScheme("blosum62")
	require.NoError(t, err)

	res, err := Align([]byte("HEAGAWGHEE"), []byte("PAWHEAE"), Local, scheme)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Score, 17)
	assert.Equal(t, len(res.AlignedQuery), len(res.AlignedTarget))
}

func TestAlignErrors(t *testing.T) {
	_, err := Align(nil, []byte("ACGT"), Global, DefaultDNA())
	require.ErrorIs(t, err, bioerr.ErrEmptyInput)

	_, err = Align([]byte("ACGT"), []byte{}, Local, DefaultDNA())
	require.ErrorIs(t, err, bioerr.ErrEmptyInput)

	_, err = Align([]byte("ACGT"), []byte("ACGT"), Global, nil)
	require.ErrorIs(t, err, bioerr.ErrInvalidScoring)

	_, err = ScoreOnly([]byte(""), []byte("A"), Global, DefaultDNA())
	require.ErrorIs(t, err, bioerr.ErrEmptyInput)
}

var propertyPairs = []struct{ q, t string }{
	{"ACGT", "ACGT"},
	{"ACGT", "AGT"},
	{"GATTACA", "GCATGCU"},
	{"ATGCATGCATGC", "ATGATGCAATGC"},
	{"TTTTACGTACGTTTTT", "ACGTACGT"},
	{"A", "TTTTTTTA"},
	{"CCCCGGGG", "GGGGCCCC"},
}

func TestGlobalScoreSymmetric(t *testing.T) {
	schemes := map[string]Scheme{"dna": DefaultDNA(), "blastlike": BLASTLike(), "blosum62": DefaultProtein()}
	for name, scheme := range schemes {
		for _, p := range propertyPairs {
			t.Run(name+"/"+p.q+"/"+p.t, func(t *testing.T) {
				fwd, err := Align([]byte(p.q), []byte(p.t), Global, scheme)
				require.NoError(t, err)
				rev, err := Align([]byte(p.t), []byte(p.q), Global, scheme)
				require.NoError(t, err)
				assert.Equal(t, fwd.Score, rev.Score)
			})
		}
	}
}

func TestResultInvariants(t *testing.T) {
	for _, mode := range []Mode{Global, Local, SemiGlobal} {
		for _, p := range propertyPairs {
			t.Run(mode.String()+"/"+p.q+"/"+p.t, func(t *testing.T) {
				res, err := Align([]byte(p.q), []byte(p.t), mode, DefaultDNA())
				require.NoError(t, err)

				require.Equal(t, len(res.AlignedQuery), len(res.AlignedTarget))
				assert.Equal(t, p.q[res.QueryStart:res.QueryEnd], strings.ReplaceAll(res.AlignedQuery, "-", ""))
				assert.Equal(t, p.t[res.TargetStart:res.TargetEnd], strings.ReplaceAll(res.AlignedTarget, "-", ""))
				for i := 0; i < res.Length(); i++ {
					assert.False(t, res.AlignedQuery[i] == '-' && res.AlignedTarget[i] == '-', "double gap at column %d", i)
				}

				c := res.Cigar()
				assert.Equal(t, res.QueryEnd-res.QueryStart, c.QueryConsumed())
				assert.Equal(t, res.TargetEnd-res.TargetStart, c.ReferenceConsumed())
				assert.Equal(t, len(p.q), res.ClippedCigar().QueryConsumed())

				score, err := ScoreOnly([]byte(p.q), []byte(p.t), mode, DefaultDNA())
				require.NoError(t, err)
				assert.Equal(t, res.Score, score)

				if mode == Local {
					assert.GreaterOrEqual(t, res.Score, 0)
				}
				if mode == Global {
					assert.Equal(t, 0, res.QueryStart)
					assert.Equal(t, len(p.q), res.QueryEnd)
					assert.Equal(t, len(p.t), res.TargetEnd)
				}
			})
		}
	}
}

func TestRescoreMatchesReportedScore(t *testing.T) {
	scheme := DefaultDNA()
	for _, mode := range []Mode{Global, Local, SemiGlobal} {
		for _, p := range propertyPairs {
			res, err := Align([]byte(p.q), []byte(p.t), mode, scheme)
			require.NoError(t, err)
			assert.Equal(t, res.Score, rescore(res, scheme), "%s %s/%s", mode, p.q, p.t)
		}
	}
}

func TestLargeGapPenalties(t *testing.T) {
	scheme, err := NewScoringMatrix(1, -1, 0, -MaxPenalty)
	require.NoError(t, err)
	q, target := []byte("AAAA"), []byte("C")

	// One mismatch plus a single three-base gap.
	want := map[Mode]int{Global: -1 - 3*MaxPenalty, SemiGlobal: -1 - 3*MaxPenalty, Local: 0}

	for _, mode := range []Mode{Global, Local, SemiGlobal} {
		t.Run(mode.String(), func(t *testing.T) {
			res, err := Align(q, target, mode, scheme)
			require.NoError(t, err)
			assert.Equal(t, want[mode], res.Score)
			assert.Equal(t, res.Score, rescore(res, scheme))

			score, err := ScoreOnly(q, target, mode, scheme)
			require.NoError(t, err)
			assert.Equal(t, want[mode], score)

			banded, err := AlignBanded(q, target, mode, scheme, 3)
			require.NoError(t, err)
			assert.Equal(t, want[mode], banded.Score)
			assert.Equal(t, banded.Score, rescore(banded, scheme))
		})
	}
}

func TestRejectsUnboundedSchemes(t *testing.T) {
	schemes := map[string]Scheme{
		"gap extend": &ScoringMatrix{MatchScore: 1, MismatchPenalty: -1, GapExtendPenalty: -600000000},
		"gap open":   &ScoringMatrix{MatchScore: 1, MismatchPenalty: -1, GapOpenPenalty: -MaxPenalty - 1},
		"positive":   &ScoringMatrix{MatchScore: 1, MismatchPenalty: -1, GapOpenPenalty: 1},
	}
	for name, scheme := range schemes {
		t.Run(name, func(t *testing.T) {
			_, err := Align([]byte("AAAA"), []byte("C"), Global, scheme)
			require.ErrorIs(t, err, bioerr.ErrInvalidScoring)

			_, err = ScoreOnly([]byte("AAAA"), []byte("C"), SemiGlobal, scheme)
			require.ErrorIs(t, err, bioerr.ErrInvalidScoring)
		})
	}
}

func TestUnknownMode(t *testing.T) {
	q, target := []byte("ACGT"), []byte("ACGT")
	mode := Mode(7)

	_, err := Align(q, target, mode, DefaultDNA())
	require.ErrorIs(t, err, bioerr.ErrInvalidScoring)

	_, err = ScoreOnly(q, target, mode, DefaultDNA())
	require.ErrorIs(t, err, bioerr.ErrInvalidScoring)

	_, err = AlignBanded(q, target, mode, DefaultDNA(), 2)
	require.ErrorIs(t, err, bioerr.ErrInvalidScoring)

	_, err = ScoreOnlyBanded(q, target, mode, DefaultDNA(), 2)
	require.ErrorIs(t, err, bioerr.ErrInvalidScoring)

	_, err = AlignBatch([]Pair{{Query: q, Target: target}}, mode, DefaultDNA())
	require.ErrorIs(t, err, bioerr.ErrInvalidScoring)
}

// rescore recomputes an alignment's score column by column, charging
// global-mode leading query gaps like any other gap.
func rescore(res *Result, scheme Scheme) int {
	score := 0
	var inGapQ, inGapT bool
	for i := 0; i < res.Length(); i++ {
		q, t := res.AlignedQuery[i], res.AlignedTarget[i]
		switch {
		case q == '-':
			if !inGapQ {
				score += scheme.GapOpen()
			}
			score += scheme.GapExtend()
			inGapQ, inGapT = true, false
		case t == '-':
			if !inGapT {
				score += scheme.GapOpen()
			}
			score += scheme.GapExtend()
			inGapQ, inGapT = false, true
		default:
			score += scheme.Score(q, t)
			inGapQ, inGapT = false, false
		}
	}
	return score
}

func TestFormat(t *testing.T) {
	res, err := Align([]byte("ACGT"), []byte("AGGT"), Global, DefaultDNA())
	require.NoError(t, err)

	out := res.Format()
	assert.Contains(t, out, "Query:  ACGT")
	assert.Contains(t, out, "        |.||")
	assert.Contains(t, out, "CIGAR: 4M")
	assert.Contains(t, res.String(), "mode: global")
	assert.Equal(t, "1=1X2=", res.ExtendedCigar().String())
}

func TestPercentIdentity(t *testing.T) {
	tests := []struct {
		name     string
		aligned1 string
		aligned2 string
		want     float64
		wantErr  error
	}{
		{"perfect", "ATGC", "ATGC", 100.0, nil},
		{"50%", "ATGC", "ATTT", 50.0, nil},
		{"with gap", "AT-GC", "ATGGC", 80.0, nil},
		{"different lengths", "ATGC", "ATG", 0, bioerr.ErrLengthMismatch},
		{"empty", "", "", 0, bioerr.ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PercentIdentity(tt.aligned1, tt.aligned2)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestAlignAgainstMultiple(t *testing.T) {
	query := []byte("ATGCATGC")
	targets := [][]byte{[]byte("ATGCATGC"), []byte("GCTAGCTA"), []byte("ATGCGGGG")}

	results, err := AlignAgainstMultiple(query, targets, DefaultDNA())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Greater(t, results[0].Result.Score, results[1].Result.Score)

	_, err = AlignAgainstMultiple(query, nil, DefaultDNA())
	require.ErrorIs(t, err, bioerr.ErrEmptyInput)
}

func TestFindBestAlignment(t *testing.T) {
	query := []byte("ATGCATGC")
	targets := [][]byte{[]byte("GCTAGCTA"), []byte("ATGCATGC"), []byte("AAAAAAAA")}

	best, err := FindBestAlignment(query, targets, DefaultDNA())
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 1, best.Index)
	assert.Equal(t, 16, best.Result.Score)
}

func TestNamedAligners(t *testing.T) {
	q, target := []byte("ATGCATGC"), []byte("ATGATGC")

	nw, err := NeedlemanWunsch(q, target, DefaultDNA())
	require.NoError(t, err)
	assert.Equal(t, Global, nw.Mode)

	sw, err := SmithWaterman(q, target, DefaultDNA())
	require.NoError(t, err)
	assert.Equal(t, Local, sw.Mode)
	assert.GreaterOrEqual(t, sw.Score, nw.Score)

	sg, err := SemiGlobalAlignment(q, target, DefaultDNA())
	require.NoError(t, err)
	assert.Equal(t, SemiGlobal, sg.Mode)
}

func repeat(unit string, n int) []byte {
	return []byte(strings.Repeat(unit, n))
}

func BenchmarkAlignLocal(b *testing.B) {
	q, t := repeat("ACGT", 250), repeat("AGCT", 250)
	scheme := DefaultDNA()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Align(q, t, Local, scheme)
	}
}

func BenchmarkAlignGlobal(b *testing.B) {
	q, t := repeat("ACGT", 250), repeat("AGCT", 250)
	scheme := DefaultDNA()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Align(q, t, Global, scheme)
	}
}

func BenchmarkScoreOnly(b *testing.B) {
	q, t := repeat("ACGT", 250), repeat("AGCT", 250)
	scheme := DefaultDNA()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ScoreOnly(q, t, Global, scheme)
	}
}
