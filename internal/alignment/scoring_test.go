package alignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

func TestScoringMatrix(t *testing.T) {
	t.Run("DefaultDNA", func(t *testing.T) {
		s := DefaultDNA()
		assert.Equal(t, 2, s.MatchScore)
		assert.Equal(t, -1, s.MismatchPenalty)
		assert.Equal(t, -2, s.GapOpen())
		assert.Equal(t, -1, s.GapExtend())
	})

	t.Run("BLASTLike", func(t *testing.T) {
		s := BLASTLike()
		assert.Equal(t, 1, s.MatchScore)
		assert.Equal(t, -3, s.MismatchPenalty)
	})

	t.Run("Score", func(t *testing.T) {
		s := DefaultDNA()
		assert.Equal(t, 2, s.Score('A', 'A'))
		assert.Equal(t, 2, s.Score('a', 'A'))
		assert.Equal(t, -1, s.Score('A', 'T'))
	})

	t.Run("mismatch above zero is allowed", func(t *testing.T) {
		s, err := NewScoringMatrix(2, 1, -2, -1)
		require.NoError(t, err)
		assert.Equal(t, 1, s.Score('A', 'C'))
	})

	invalid := []struct {
		name                              string
		match, mismatch, gapOpen, gapExt int
	}{
		{"zero match", 0, -1, -2, -1},
		{"positive gap open", 2, -1, 1, -1},
		{"positive gap extend", 2, -1, -2, 1},
		{"match above bound", MaxPenalty + 1, -1, -2, -1},
		{"mismatch below bound", 2, -MaxPenalty - 1, -2, -1},
		{"gap open below bound", 2, -1, -MaxPenalty - 1, -1},
		{"gap extend below bound", 1, -1, 0, -600000000},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScoringMatrix(tt.match, tt.mismatch, tt.gapOpen, tt.gapExt)
			require.ErrorIs(t, err, bioerr.ErrInvalidScoring)
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"local", Local},
		{"global", Global},
		{"semiglobal", SemiGlobal},
		{"semi-global", SemiGlobal},
		{" Global ", Global},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMode("glocal")
	require.ErrorIs(t, err, bioerr.ErrInvalidScoring)

	for _, m := range []Mode{Local, Global, SemiGlobal} {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
}

func TestSubstitutionScheme(t *testing.T) {
	tests := []struct {
		name      string
		gapOpen   int
		gapExtend int
		pairs     map[[2]byte]int
	}{
		{"blosum62", -11, -1, map[[2]byte]int{{'A', 'A'}: 4, {'W', 'W'}: 11, {'A', 'R'}: -1, {'C', 'C'}: 9, {'I', 'V'}: 3}},
		{"blosum45", -15, -2, map[[2]byte]int{{'A', 'A'}: 5, {'C', 'C'}: 12, {'W', 'W'}: 15}},
		{"blosum80", -10, -1, map[[2]byte]int{{'A', 'A'}: 5, {'W', 'W'}: 11, {'P', 'P'}: 8}},
		{"pam250", -14, -2, map[[2]byte]int{{'A', 'A'}: 2, {'W', 'W'}: 17, {'C', 'C'}: 12, {'Y', 'Y'}: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSubstitutionScheme(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.gapOpen, s.GapOpen())
			assert.Equal(t, tt.gapExtend, s.GapExtend())
			assert.Equal(t, tt.name, s.Matrix.Name())
			for pair, want := range tt.pairs {
				assert.Equal(t, want, s.Score(pair[0], pair[1]), "%c/%c", pair[0], pair[1])
			}
		})
	}

	t.Run("symmetric", func(t *testing.T) {
		for _, name := range MatrixNames() {
			s, err := NewSubstitutionScheme(name)
			require.NoError(t, err)
			for i := 0; i < len(matrixAlphabet); i++ {
				for j := 0; j < len(matrixAlphabet); j++ {
					a, b := matrixAlphabet[i], matrixAlphabet[j]
					assert.Equal(t, s.Score(a, b), s.Score(b, a))
				}
			}
		}
	})

	t.Run("lower case and unknown residues", func(t *testing.T) {
		s := DefaultProtein()
		assert.Equal(t, 11, s.Score('w', 'W'))
		assert.Equal(t, s.Score('X', 'A'), s.Score('J', 'A'))
		assert.Equal(t, s.Score('X', 'X'), s.Score('*', '#'))
	})

	t.Run("name is case insensitive", func(t *testing.T) {
		_, err := NewSubstitutionScheme("BLOSUM62")
		require.NoError(t, err)
	})

	t.Run("unknown matrix", func(t *testing.T) {
		_, err := NewSubstitutionScheme("blosum50")
		require.ErrorIs(t, err, bioerr.ErrInvalidScoring)
	})

	t.Run("custom gaps", func(t *testing.T) {
		s, err := NewSubstitutionSchemeWithGaps("pam250", -8, -2)
		require.NoError(t, err)
		assert.Equal(t, -8, s.GapOpen())

		_, err = NewSubstitutionSchemeWithGaps("pam250", 3, -2)
		require.ErrorIs(t, err, bioerr.ErrInvalidScoring)

		_, err = NewSubstitutionSchemeWithGaps("pam250", -8, -MaxPenalty-1)
		require.ErrorIs(t, err, bioerr.ErrInvalidScoring)
	})
}

func TestSchemeForMolecule(t *testing.T) {
	dna, err := SchemeForMolecule("dna")
	require.NoError(t, err)
	assert.Equal(t, DefaultDNA(), dna)

	protein, err := SchemeForMolecule("protein")
	require.NoError(t, err)
	assert.Equal(t, -11, protein.GapOpen())

	_, err = SchemeForMolecule("lipid")
	require.ErrorIs(t, err, bioerr.ErrInvalidScoring)
}
