package alignment

import (
	"fmt"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
	"github.com/aria-lang/bioalign-go/internal/cigar"
)

// MsaResult is a multiple alignment: one gapped row per input sequence,
// all of equal length.
type MsaResult struct {
	Aligned    [][]byte
	NumColumns int
}

// NumSequences returns the number of rows.
func (r *MsaResult) NumSequences() int {
	return len(r.Aligned)
}

// Consensus returns the majority residue of every column.
func (r *MsaResult) Consensus() []byte {
	return columnConsensus(r.Aligned, r.NumColumns)
}

// ColumnConservation returns, per column, the fraction of rows holding the
// column's majority residue. Gaps never count as the majority.
func (r *MsaResult) ColumnConservation() []float64 {
	out := make([]float64, r.NumColumns)
	if len(r.Aligned) == 0 {
		return out
	}
	for c := 0; c < r.NumColumns; c++ {
		_, count := majority(r.Aligned, c)
		out[c] = float64(count) / float64(len(r.Aligned))
	}
	return out
}

// Conservation is the mean of ColumnConservation, 1.0 for a single row.
func (r *MsaResult) Conservation() float64 {
	if r.NumColumns == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range r.ColumnConservation() {
		sum += v
	}
	return sum / float64(r.NumColumns)
}

// ProgressiveMSA aligns sequences in input order. The first sequence seeds
// the profile; each later one is globally aligned to the profile's
// consensus, and gap columns are inserted into existing rows wherever that
// alignment gapped the consensus. There is no guide tree, so reordering the
// input can change the result.
func ProgressiveMSA(sequences [][]byte, scheme Scheme) (*MsaResult, error) {
	if len(sequences) == 0 {
		return nil, fmt.Errorf("%w: no sequences to align", bioerr.ErrEmptyInput)
	}
	if scheme == nil {
		return nil, fmt.Errorf("%w: scoring scheme is nil", bioerr.ErrInvalidScoring)
	}
	for i, s := range sequences {
		if len(s) == 0 {
			return nil, fmt.Errorf("%w: sequence %d is empty", bioerr.ErrEmptyInput, i)
		}
	}

	rows := [][]byte{append([]byte(nil), sequences[0]...)}
	cols := len(sequences[0])

	for k := 1; k < len(sequences); k++ {
		consensus := columnConsensus(rows, cols)
		res, err := Align(sequences[k], consensus, Global, scheme)
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", k, err)
		}

		width := len(res.AlignedTarget)
		merged := make([][]byte, len(rows), len(rows)+1)
		for r := range rows {
			merged[r] = make([]byte, 0, width)
		}
		c := 0
		for col := 0; col < width; col++ {
			if res.AlignedTarget[col] == cigar.Gap {
				for r := range rows {
					merged[r] = append(merged[r], cigar.Gap)
				}
				continue
			}
			for r := range rows {
				merged[r] = append(merged[r], rows[r][c])
			}
			c++
		}

		rows = append(merged, []byte(res.AlignedQuery))
		cols = width
	}

	return &MsaResult{Aligned: rows, NumColumns: cols}, nil
}

// MSAForMolecule runs ProgressiveMSA with the default scheme for "dna" or
// "protein".
func MSAForMolecule(sequences [][]byte, molecule string) (*MsaResult, error) {
	scheme, err := SchemeForMolecule(molecule)
	if err != nil {
		return nil, err
	}
	return ProgressiveMSA(sequences, scheme)
}

func columnConsensus(rows [][]byte, cols int) []byte {
	out := make([]byte, cols)
	for c := 0; c < cols; c++ {
		b, count := majority(rows, c)
		if count == 0 {
			b = 'N'
		}
		out[c] = b
	}
	return out
}

// majority returns the most frequent non-gap residue of column c, folded to
// upper case, with ties going to the lowest byte value.
func majority(rows [][]byte, c int) (residue byte, count int) {
	var counts [256]int
	for _, row := range rows {
		if b := row[c]; b != cigar.Gap {
			counts[upper(b)]++
		}
	}
	for b := 0; b < 256; b++ {
		if counts[b] > count {
			residue, count = byte(b), counts[b]
		}
	}
	return residue, count
}
