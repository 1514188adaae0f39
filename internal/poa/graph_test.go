package poa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

func TestFromSequence(t *testing.T) {
	g, err := FromSequence([]byte("ACGT"))
	require.NoError(t, err)

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, 1, g.SequenceCount())
	assert.Equal(t, []int{0, 1, 2, 3}, g.TopologicalOrder())
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, g.EdgeWeight(i, i+1))
	}
	assert.Equal(t, "ACGT", string(g.Consensus()))

	_, err = FromSequence(nil)
	require.ErrorIs(t, err, bioerr.ErrEmptyInput)
}

func TestAddIdenticalSequence(t *testing.T) {
	g, err := FromSequence([]byte("AC"))
	require.NoError(t, err)
	require.NoError(t, g.AddSequence([]byte("AC"), DefaultScoring()))

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 2, g.EdgeWeight(0, 1))
	assert.Equal(t, 2, g.Node(0).Multiplicity)
	assert.Equal(t, 2, g.Node(1).Multiplicity)
	assert.Equal(t, 2, g.SequenceCount())
	assert.Equal(t, "AC", string(g.Consensus()))
}

func TestAddSequenceWithDeletion(t *testing.T) {
	g, err := FromSequence([]byte("ACGT"))
	require.NoError(t, err)
	require.NoError(t, g.AddSequence([]byte("AGT"), DefaultScoring()))

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 1, g.EdgeWeight(0, 1))
	assert.Equal(t, 1, g.EdgeWeight(1, 2))
	assert.Equal(t, 1, g.EdgeWeight(0, 2))
	assert.Equal(t, 2, g.EdgeWeight(2, 3))
	assert.Equal(t, 1, g.Node(1).Multiplicity)
	assert.Equal(t, "ACGT", string(g.Consensus()))

	// Once the skipping path outweighs the original, the consensus follows it.
	require.NoError(t, g.AddSequence([]byte("AGT"), DefaultScoring()))
	require.NoError(t, g.AddSequence([]byte("AGT"), DefaultScoring()))
	assert.Equal(t, 3, g.EdgeWeight(0, 2))
	assert.Equal(t, "AGT", string(g.Consensus()))
}

func TestAddSequenceWithInsertion(t *testing.T) {
	g, err := FromSequence([]byte("ACGT"))
	require.NoError(t, err)
	require.NoError(t, g.AddSequence([]byte("ACTGT"), DefaultScoring()))

	require.Equal(t, 5, g.NodeCount())
	inserted := g.Node(4)
	assert.Equal(t, byte('T'), inserted.Base)
	assert.Equal(t, 1, inserted.Multiplicity)
	assert.Equal(t, 1, g.EdgeWeight(1, 4))
	assert.Equal(t, 1, g.EdgeWeight(4, 2))
	assert.Equal(t, []int{0, 1, 4, 2, 3}, g.TopologicalOrder())
	assert.Equal(t, "ACTGT", string(g.Consensus()))
}

func TestAddSequenceWithSubstitution(t *testing.T) {
	g, err := FromSequence([]byte("ACGT"))
	require.NoError(t, err)
	require.NoError(t, g.AddSequence([]byte("AGGT"), DefaultScoring()))

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, byte('C'), g.Node(1).Base)
	assert.Equal(t, 2, g.Node(1).Multiplicity)
	assert.Equal(t, 2, g.EdgeWeight(1, 2))
}

func TestLargeGapPenaltyPrefersSubstitution(t *testing.T) {
	g, err := FromSequence([]byte("AAAA"))
	require.NoError(t, err)
	require.NoError(t, g.AddSequence([]byte("C"), Scoring{Match: 1, Mismatch: -1, Gap: -MaxPenalty}))

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 2, g.SequenceCount())
	total := 0
	for i := 0; i < g.NodeCount(); i++ {
		total += g.Node(i).Multiplicity
	}
	assert.Equal(t, 5, total)
}

func TestTopologicalOrderIsValid(t *testing.T) {
	g, err := Build([][]byte{
		[]byte("ATGCATGCAT"),
		[]byte("ATGATGCAT"),
		[]byte("TTGCATGCATT"),
		[]byte("ATGCAAGCAT"),
		[]byte("GCATGC"),
		[]byte("ATGCCCATGCAT"),
	}, DefaultScoring())
	require.NoError(t, err)
	require.Equal(t, 6, g.SequenceCount())

	order := g.TopologicalOrder()
	require.Len(t, order, g.NodeCount())
	rank := make(map[int]int, len(order))
	for r, id := range order {
		rank[id] = r
	}
	for _, u := range g.Nodes() {
		for _, v := range g.Nodes() {
			if g.EdgeWeight(u.ID, v.ID) > 0 {
				assert.Less(t, rank[u.ID], rank[v.ID], "edge %d -> %d", u.ID, v.ID)
			}
		}
	}
	assert.NotEmpty(t, g.Consensus())
}

func TestConsensus(t *testing.T) {
	tests := []struct {
		name string
		seqs []string
		want string
	}{
		{"single", []string{"GATTACA"}, "GATTACA"},
		{"identical", []string{"GATTACA", "GATTACA", "GATTACA"}, "GATTACA"},
		{"majority deletion", []string{"ACGT", "AGT", "AGT", "AGT"}, "AGT"},
		{"majority substitution keeps backbone residue", []string{"ACGT", "AGGT"}, "ACGT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seqs := make([][]byte, len(tt.seqs))
			for i, s := range tt.seqs {
				seqs[i] = []byte(s)
			}
			got, err := Consensus(seqs, DefaultScoring())
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestErrors(t *testing.T) {
	_, err := Consensus(nil, DefaultScoring())
	require.ErrorIs(t, err, bioerr.ErrEmptyInput)

	_, err = Consensus([][]byte{[]byte("ACGT"), nil}, DefaultScoring())
	require.ErrorIs(t, err, bioerr.ErrEmptyInput)
	assert.Contains(t, err.Error(), "sequence 1")

	_, err = Consensus([][]byte{[]byte("ACGT")}, Scoring{Match: 0, Mismatch: -1, Gap: -2})
	require.ErrorIs(t, err, bioerr.ErrInvalidScoring)

	g, err := FromSequence([]byte("ACGT"))
	require.NoError(t, err)
	require.ErrorIs(t, g.AddSequence([]byte("ACGT"), Scoring{Match: 1, Gap: 1}), bioerr.ErrInvalidScoring)
	require.ErrorIs(t, g.AddSequence([]byte("C"), Scoring{Match: 1, Mismatch: -1, Gap: -600000000}), bioerr.ErrInvalidScoring)
	require.ErrorIs(t, g.AddSequence([]byte("C"), Scoring{Match: 1, Mismatch: -MaxPenalty - 1, Gap: -1}), bioerr.ErrInvalidScoring)
	require.ErrorIs(t, g.AddSequence(nil, DefaultScoring()), bioerr.ErrEmptyInput)
	assert.Equal(t, 1, g.SequenceCount())
}

func TestCaseInsensitiveMatching(t *testing.T) {
	g, err := FromSequence([]byte("acgt"))
	require.NoError(t, err)
	require.NoError(t, g.AddSequence([]byte("ACGT"), DefaultScoring()))
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 2, g.EdgeWeight(0, 1))
}
