// Package bioalign provides a high-level API for sequence alignment.
//
// It wraps the pairwise, banded, batch, progressive and partial-order
// aligners behind validated sequence types, and reads and writes FASTA.
//
// Example usage:
//
//	q, _ := bioalign.NewSequence("ACGTACGT")
//	t, _ := bioalign.NewSequence("ACGACGT")
//
//	res, err := bioalign.Align(q, t, bioalign.Global, bioalign.DefaultScoring())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Format())
package bioalign

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/internal/cigar"
	"github.com/aria-lang/bioalign-go/internal/poa"
	"github.com/aria-lang/bioalign-go/internal/sequence"
	"github.com/aria-lang/bioalign-go/internal/stats"
)

// Re-export types for convenience
type (
	Sequence           = sequence.Sequence
	SequenceType       = sequence.SequenceType
	Mode               = alignment.Mode
	Scheme             = alignment.Scheme
	ScoringMatrix      = alignment.ScoringMatrix
	SubstitutionScheme = alignment.SubstitutionScheme
	Result             = alignment.Result
	Pair               = alignment.Pair
	IndexedResult      = alignment.IndexedResult
	MsaResult          = alignment.MsaResult
	Cigar              = cigar.Cigar
	CigarStats         = cigar.Stats
	PoaGraph           = poa.Graph
	PoaScoring         = poa.Scoring
	BatchSummary       = stats.BatchSummary
)

// Constants
const (
	DNA     = sequence.DNA
	RNA     = sequence.RNA
	Protein = sequence.Protein

	Local      = alignment.Local
	Global     = alignment.Global
	SemiGlobal = alignment.SemiGlobal
)

// NewSequence creates a new DNA sequence.
func NewSequence(bases string) (*Sequence, error) {
	return sequence.New(bases)
}

// NewTypedSequence creates a sequence of the given type with an identifier.
func NewTypedSequence(bases, id string, seqType SequenceType) (*Sequence, error) {
	return sequence.WithMetadata(bases, id, "", seqType)
}

// ParseSequenceType maps "dna", "rna" or "protein" to a SequenceType.
func ParseSequenceType(name string) (SequenceType, error) {
	return sequence.ParseType(name)
}

// ParseMode parses "local", "global" or "semiglobal".
func ParseMode(name string) (Mode, error) {
	return alignment.ParseMode(name)
}

// MatrixNames lists the built-in substitution matrices.
func MatrixNames() []string {
	return alignment.MatrixNames()
}

// DefaultScoring returns the default DNA scoring matrix.
func DefaultScoring() *ScoringMatrix {
	return alignment.DefaultDNA()
}

// DefaultProteinScoring returns BLOSUM62 with its default gaps.
func DefaultProteinScoring() *SubstitutionScheme {
	return alignment.DefaultProtein()
}

// DefaultPoaScoring returns the default partial-order scoring.
func DefaultPoaScoring() PoaScoring {
	return poa.DefaultScoring()
}

// Align aligns q against t.
func Align(q, t *Sequence, mode Mode, scheme Scheme) (*Result, error) {
	return alignment.Align(q.Bytes(), t.Bytes(), mode, scheme)
}

// Score returns the optimal score of q against t without a traceback.
func Score(q, t *Sequence, mode Mode, scheme Scheme) (int, error) {
	return alignment.ScoreOnly(q.Bytes(), t.Bytes(), mode, scheme)
}

// Search locally aligns query against every target. It returns all hits in
// target order and the best one, the earliest target winning ties.
func Search(query *Sequence, targets []*Sequence, scheme Scheme) ([]IndexedResult, *IndexedResult, error) {
	hits, err := alignment.AlignAgainstMultiple(query.Bytes(), Bytes(targets), scheme)
	if err != nil {
		return nil, nil, err
	}
	best, err := alignment.FindBestAlignment(query.Bytes(), Bytes(targets), scheme)
	if err != nil {
		return nil, nil, err
	}
	return hits, best, nil
}

// AlignBanded aligns q against t within a diagonal band.
func AlignBanded(q, t *Sequence, mode Mode, scheme Scheme, bandwidth int) (*Result, error) {
	return alignment.AlignBanded(q.Bytes(), t.Bytes(), mode, scheme, bandwidth)
}

// ScoreBanded returns the banded score only.
func ScoreBanded(q, t *Sequence, mode Mode, scheme Scheme, bandwidth int) (int, error) {
	return alignment.ScoreOnlyBanded(q.Bytes(), t.Bytes(), mode, scheme, bandwidth)
}

// AlignBatch aligns every pair over a pool of workers, 0 meaning GOMAXPROCS.
// Cancelling ctx stops the batch whatever the worker count.
func AlignBatch(ctx context.Context, pairs []Pair, mode Mode, scheme Scheme, workers int) ([]*Result, error) {
	return alignment.AlignBatchParallel(ctx, pairs, mode, scheme, workers)
}

// PairsOf zips queries and targets into pairs.
func PairsOf(queries, targets []*Sequence) ([]Pair, error) {
	if len(queries) != len(targets) {
		return nil, fmt.Errorf("%d queries but %d targets", len(queries), len(targets))
	}
	pairs := make([]Pair, len(queries))
	for i := range queries {
		pairs[i] = Pair{Query: queries[i].Bytes(), Target: targets[i].Bytes()}
	}
	return pairs, nil
}

// Summarize computes batch statistics.
func Summarize(results []*Result) (*BatchSummary, error) {
	return stats.Summarize(results)
}

// ProgressiveMSA aligns all sequences progressively in input order.
func ProgressiveMSA(seqs []*Sequence, scheme Scheme) (*MsaResult, error) {
	return alignment.ProgressiveMSA(Bytes(seqs), scheme)
}

// BuildPoaGraph threads all sequences into a partial-order graph.
func BuildPoaGraph(seqs []*Sequence, scoring PoaScoring) (*PoaGraph, error) {
	return poa.Build(Bytes(seqs), scoring)
}

// PoaConsensus returns the heaviest-path consensus of seqs.
func PoaConsensus(seqs []*Sequence, scoring PoaScoring) (string, error) {
	c, err := poa.Consensus(Bytes(seqs), scoring)
	if err != nil {
		return "", err
	}
	return string(c), nil
}

// ParseCigar parses a CIGAR string.
func ParseCigar(s string) (Cigar, error) {
	return cigar.Parse(s)
}

// CigarSummary parses, validates and summarizes a CIGAR string.
func CigarSummary(s string) (CigarStats, error) {
	c, err := cigar.Parse(s)
	if err != nil {
		return CigarStats{}, err
	}
	if err := cigar.Validate(c); err != nil {
		return CigarStats{}, err
	}
	return cigar.Summarize(c), nil
}

// Bytes returns the residues of each sequence.
func Bytes(seqs []*Sequence) [][]byte {
	out := make([][]byte, len(seqs))
	for i, s := range seqs {
		if s != nil {
			out[i] = s.Bytes()
		}
	}
	return out
}

// ReadFASTA reads sequences from a FASTA file.
func ReadFASTA(filename string, seqType SequenceType) ([]*Sequence, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	return ParseFASTA(file, seqType)
}

// ParseFASTA parses FASTA format from a reader. Every record is validated
// against seqType.
func ParseFASTA(r io.Reader, seqType SequenceType) ([]*Sequence, error) {
	sequences := make([]*Sequence, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var currentID, currentDesc string
	var currentBases strings.Builder
	inRecord := false

	flushSequence := func() error {
		if !inRecord {
			return nil
		}
		seq, err := sequence.WithMetadata(
			currentBases.String(),
			currentID,
			currentDesc,
			seqType,
		)
		if err != nil {
			return err
		}
		sequences = append(sequences, seq)
		currentBases.Reset()
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || line[0] == ';' {
			continue
		}

		if line[0] == '>' {
			if err := flushSequence(); err != nil {
				return nil, err
			}
			inRecord = true

			header := line[1:]
			parts := strings.SplitN(header, " ", 2)
			currentID = parts[0]
			currentDesc = ""
			if len(parts) > 1 {
				currentDesc = strings.TrimSpace(parts[1])
			}
		} else {
			if !inRecord {
				return nil, fmt.Errorf("sequence data before first FASTA header")
			}
			currentBases.WriteString(line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	if err := flushSequence(); err != nil {
		return nil, err
	}

	return sequences, nil
}

// WriteFASTA writes sequences in FASTA format.
func WriteFASTA(w io.Writer, sequences []*Sequence) error {
	for _, seq := range sequences {
		if _, err := io.WriteString(w, seq.ToFASTA()); err != nil {
			return fmt.Errorf("writing sequence: %w", err)
		}
	}
	return nil
}

// WriteMSA writes the aligned rows of an MSA as gapped FASTA. ids may be
// shorter than the row count; missing names become seqN.
func WriteMSA(w io.Writer, ids []string, msa *MsaResult) error {
	for i, row := range msa.Aligned {
		id := fmt.Sprintf("seq%d", i+1)
		if i < len(ids) && ids[i] != "" {
			id = ids[i]
		}
		if _, err := io.WriteString(w, sequence.FormatFASTA(id, "", string(row))); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return nil
}

// Version returns the bioalign version.
func Version() string {
	return "1.0.0"
}

// Info returns information about bioalign.
func Info() string {
	return fmt.Sprintf(`bioalign v%s - Sequence Alignment Toolkit

Features:
  - Global, local and semi-global alignment with affine gaps
  - Banded alignment and score-only modes
  - Parallel batch alignment
  - Progressive multiple alignment
  - Partial-order alignment consensus
  - CIGAR parsing, statistics, MD tags and SAM interop
  - Scoring: match/mismatch or %s
`, Version(), strings.Join(MatrixNames(), ", "))
}
