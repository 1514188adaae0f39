package cigar

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

func TestParse(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		c, err := Parse("3M1I2M")
		require.NoError(t, err)
		assert.Equal(t, Cigar{{Match, 3}, {Insertion, 1}, {Match, 2}}, c)
		assert.Equal(t, 5, c.ReferenceConsumed())
		assert.Equal(t, 6, c.QueryConsumed())
	})

	t.Run("all codes", func(t *testing.T) {
		c, err := Parse("2H3S4M1I2D5N1P6=7X")
		require.NoError(t, err)
		require.Len(t, c, 9)
		assert.Equal(t, Diff, c[8].Code)
		assert.Equal(t, 7, c[8].Len)
	})

	t.Run("multi digit", func(t *testing.T) {
		c, err := Parse("150M")
		require.NoError(t, err)
		assert.Equal(t, Cigar{{Match, 150}}, c)
	})

	t.Run("empty and star", func(t *testing.T) {
		for _, s := range []string{"", "*"} {
			c, err := Parse(s)
			require.NoError(t, err)
			assert.Empty(t, c)
		}
	})

	malformed := []struct {
		name  string
		input string
	}{
		{"missing length", "M"},
		{"zero length", "0M"},
		{"unknown code", "3Q"},
		{"trailing digits", "3M2"},
		{"lowercase code", "3m"},
		{"space", "3M 2I"},
		{"overflow", "999999999M"},
	}
	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.ErrorIs(t, err, bioerr.ErrMalformedCigar)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	inputs := []string{"3M1I2M", "5S10M2D3M", "1H2S3=1X4=2S1H", "100M"}
	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			c := MustParse(s)
			assert.Equal(t, s, c.String())
			again, err := Parse(c.String())
			require.NoError(t, err)
			assert.True(t, c.Equal(again))
		})
	}

	assert.Equal(t, "*", Cigar(nil).String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		cigar Cigar
		valid bool
	}{
		{"plain", MustParse("10M"), true},
		{"soft clips at ends", MustParse("2S6M2S"), true},
		{"hard then soft", MustParse("3H2S6M2S3H"), true},
		{"interior soft clip", MustParse("3M2S3M"), false},
		{"interior hard clip", MustParse("3M2H3M"), false},
		{"soft outside hard", MustParse("2S3H6M"), false},
		{"empty", Cigar{}, false},
		{"zero length", Cigar{{Match, 0}}, false},
		{"unknown code", Cigar{{OpCode('Q'), 2}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cigar)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, bioerr.ErrInconsistentCigar)
			}
		})
	}
}

func TestStats(t *testing.T) {
	c := MustParse("2H3S4=1X2I3=1D2S")

	assert.Equal(t, 9, c.ReferenceConsumed())
	assert.Equal(t, 15, c.QueryConsumed())
	assert.Equal(t, 18, c.Columns())
	assert.Equal(t, 2, c.GapCount())
	assert.Equal(t, 3, c.GapBases())
	assert.Equal(t, 5, c.SoftClipped())
	assert.Equal(t, 2, c.HardClipped())

	identity, err := c.Identity()
	require.NoError(t, err)
	assert.InDelta(t, 7.0/11.0, identity, 1e-9)

	s := Summarize(c)
	assert.Equal(t, "2H3S4=1X2I3=1D2S", s.Cigar)
	assert.Equal(t, 18, s.Columns)
	assert.InDelta(t, identity, s.Identity, 1e-9)
}

func TestIdentityNeedsSequencesForM(t *testing.T) {
	c := MustParse("4M")
	_, err := c.Identity()
	require.ErrorIs(t, err, bioerr.ErrInconsistentCigar)

	identity, err := c.IdentityAgainst([]byte("ACGT"), []byte("ACCT"))
	require.NoError(t, err)
	assert.InDelta(t, 0.75, identity, 1e-9)

	_, err = c.IdentityAgainst([]byte("ACG"), []byte("ACCT"))
	require.ErrorIs(t, err, bioerr.ErrLengthMismatch)
}

func TestToAlignment(t *testing.T) {
	t.Run("insertion and deletion", func(t *testing.T) {
		aq, ar, err := ToAlignment(MustParse("2M1I1M1D1M"), []byte("ACGTA"), []byte("ACTCA"))
		require.NoError(t, err)
		assert.Equal(t, "ACGT-A", string(aq))
		assert.Equal(t, "AC-TCA", string(ar))
	})

	t.Run("soft clip not rendered", func(t *testing.T) {
		aq, ar, err := ToAlignment(MustParse("2S3M"), []byte("TTACG"), []byte("ACG"))
		require.NoError(t, err)
		assert.Equal(t, "ACG", string(aq))
		assert.Equal(t, "ACG", string(ar))
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, _, err := ToAlignment(MustParse("4M"), []byte("ACG"), []byte("ACGT"))
		require.ErrorIs(t, err, bioerr.ErrLengthMismatch)
	})

	t.Run("invalid cigar", func(t *testing.T) {
		_, _, err := ToAlignment(MustParse("2M1S2M"), []byte("ACGTA"), []byte("ACTA"))
		require.ErrorIs(t, err, bioerr.ErrInconsistentCigar)
	})
}

func TestFromAlignment(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		c, err := FromAlignment([]byte("ACGT-A"), []byte("AC-TCA"), false)
		require.NoError(t, err)
		assert.Equal(t, "2M1I1M1D1M", c.String())
	})

	t.Run("extended", func(t *testing.T) {
		c, err := FromAlignment([]byte("ACGTA"), []byte("ACCTa"), true)
		require.NoError(t, err)
		assert.Equal(t, "2=1X2=", c.String())
	})

	t.Run("double gap column skipped", func(t *testing.T) {
		c, err := FromAlignment([]byte("A-C"), []byte("A-C"), false)
		require.NoError(t, err)
		assert.Equal(t, "2M", c.String())
	})

	t.Run("unequal rows", func(t *testing.T) {
		_, err := FromAlignment([]byte("ACG"), []byte("AC"), false)
		require.ErrorIs(t, err, bioerr.ErrLengthMismatch)
	})

	t.Run("round trip", func(t *testing.T) {
		q, r := []byte("ACGTA"), []byte("ACTCA")
		c := MustParse("2M1I1M1D1M")
		aq, ar, err := ToAlignment(c, q, r)
		require.NoError(t, err)
		back, err := FromAlignment(aq, ar, false)
		require.NoError(t, err)
		assert.True(t, c.Equal(back))
	})
}

func TestGenerateMD(t *testing.T) {
	tests := []struct {
		name      string
		cigar     string
		query     string
		reference string
		want      string
	}{
		{"all match", "4M", "ACGT", "ACGT", "4"},
		{"mismatch", "6M", "ACGTAC", "ACCTAC", "2C3"},
		{"deletion", "2M2D2M", "ACGT", "ACTTGT", "2^TT2"},
		{"mismatch after deletion", "2M1D2M", "ACAT", "ACGGT", "2^G0G1"},
		{"insertion ignored", "2M2I2M", "ACTTGT", "ACGT", "4"},
		{"clips ignored", "2S3M1H", "TTACG", "ACG", "3"},
		{"leading mismatch", "3M", "TCG", "ACG", "0A2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := GenerateMD(MustParse(tt.cigar), []byte(tt.query), []byte(tt.reference))
			require.NoError(t, err)
			assert.Equal(t, tt.want, md)
		})
	}

	_, err := GenerateMD(MustParse("3M"), []byte("ACGT"), []byte("ACG"))
	require.ErrorIs(t, err, bioerr.ErrLengthMismatch)
}

func TestTransforms(t *testing.T) {
	t.Run("merge adjacent", func(t *testing.T) {
		c := Cigar{{Match, 2}, {Match, 3}, {Insertion, 1}, {Insertion, 1}, {Match, 1}}
		merged := MergeAdjacent(c)
		assert.Equal(t, "5M2I1M", merged.String())
		assert.Equal(t, merged, MergeAdjacent(merged))
		assert.Len(t, c, 5)
	})

	t.Run("reverse", func(t *testing.T) {
		c := MustParse("2S3M1D4M")
		assert.Equal(t, "4M1D3M2S", Reverse(c).String())
		assert.Equal(t, c, Reverse(Reverse(c)))
		assert.Equal(t, "2S3M1D4M", c.String())
	})

	t.Run("collapse matches", func(t *testing.T) {
		c := MustParse("3=1X2=1I2=")
		assert.Equal(t, "6M1I2M", CollapseMatches(c).String())
	})

	t.Run("hard clip to soft", func(t *testing.T) {
		c := MustParse("2H3S5M2H")
		soft := HardClipToSoft(c)
		assert.Equal(t, "5S5M2S", soft.String())
		assert.Equal(t, c.QueryConsumed()+c.HardClipped(), soft.QueryConsumed())
		assert.NoError(t, Validate(soft))
	})
}

func TestSplitAtReference(t *testing.T) {
	tests := []struct {
		name        string
		cigar       string
		pos         int
		left, right string
	}{
		{"middle of match", "4M", 2, "2M", "2M"},
		{"at op boundary", "2M1D2M", 2, "2M", "1D2M"},
		{"insertion at split goes right", "2M3I2M", 2, "2M", "3I2M"},
		{"split deletion", "1M4D1M", 3, "1M2D", "2D1M"},
		{"at start", "2S4M", 0, "*", "2S4M"},
		{"at end", "4M2S", 4, "4M", "2S"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right, err := SplitAtReference(MustParse(tt.cigar), tt.pos)
			require.NoError(t, err)
			assert.Equal(t, tt.left, left.String())
			assert.Equal(t, tt.right, right.String())
			assert.Equal(t, tt.pos, left.ReferenceConsumed())
		})
	}

	_, _, err := SplitAtReference(MustParse("4M"), 5)
	require.ErrorIs(t, err, bioerr.ErrLengthMismatch)
	_, _, err = SplitAtReference(MustParse("4M"), -1)
	require.ErrorIs(t, err, bioerr.ErrLengthMismatch)
}

func TestSAMInterop(t *testing.T) {
	c := MustParse("2S3=1X2I4M1D")
	sc, err := ToSAM(c)
	require.NoError(t, err)
	assert.Equal(t, c.String(), sc.String())

	ref, read := sc.Lengths()
	assert.Equal(t, c.ReferenceConsumed(), ref)
	assert.Equal(t, c.QueryConsumed(), read)

	back, err := FromSAM(sc)
	require.NoError(t, err)
	assert.True(t, c.Equal(back))

	_, err = FromSAM(sam.Cigar{sam.NewCigarOp(sam.CigarBack, 2)})
	require.ErrorIs(t, err, bioerr.ErrMalformedCigar)
}

func BenchmarkParse(b *testing.B) {
	s := "5S20M2I30M1D40=3X10M5S"
	for i := 0; i < b.N; i++ {
		_, _ = Parse(s)
	}
}
