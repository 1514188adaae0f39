// Package sequence provides validated DNA, RNA and protein sequences for the
// outer surfaces. The alignment engine itself works on raw bytes; this
// package is where user input is checked before it gets there.
package sequence

import (
	"fmt"
	"strings"
)

// SequenceType represents the type of biological sequence.
type SequenceType int

const (
	// DNA represents a DNA sequence (A, C, G, T, N)
	DNA SequenceType = iota
	// RNA represents an RNA sequence (A, C, G, U, N)
	RNA
	// Protein represents an amino-acid sequence
	Protein
)

func (t SequenceType) String() string {
	switch t {
	case DNA:
		return "DNA"
	case RNA:
		return "RNA"
	case Protein:
		return "Protein"
	default:
		return "Unknown"
	}
}

// ParseType maps a molecule name to a SequenceType. "nucleotide" is DNA.
func ParseType(name string) (SequenceType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dna", "nucleotide":
		return DNA, nil
	case "rna":
		return RNA, nil
	case "protein":
		return Protein, nil
	default:
		return DNA, fmt.Errorf("unknown sequence type %q", name)
	}
}

// Sequence represents a validated biological sequence. Bases are stored
// upper case.
type Sequence struct {
	Bases       string
	ID          string
	Description string
	SeqType     SequenceType
}

// New creates a new DNA sequence with validation.
func New(bases string) (*Sequence, error) {
	return WithMetadata(bases, "", "", DNA)
}

// WithMetadata creates a new sequence with full metadata.
func WithMetadata(bases, id, description string, seqType SequenceType) (*Sequence, error) {
	normalized := strings.ToUpper(bases)

	if len(normalized) == 0 {
		return nil, &EmptySequenceError{ID: id}
	}

	if err := Validate(normalized, seqType); err != nil {
		return nil, err
	}

	return &Sequence{
		Bases:       normalized,
		ID:          id,
		Description: description,
		SeqType:     seqType,
	}, nil
}

// Len returns the length of the sequence.
func (s *Sequence) Len() int {
	return len(s.Bases)
}

// Bytes returns the bases as a byte slice for the alignment engine.
func (s *Sequence) Bytes() []byte {
	return []byte(s.Bases)
}

// IsValid checks if all bases are valid for the sequence type.
func (s *Sequence) IsValid() bool {
	return Validate(s.Bases, s.SeqType) == nil
}

func complementBase(c byte) byte {
	switch c {
	case 'A':
		return 'T'
	case 'T', 'U':
		return 'A'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	default:
		return 'N'
	}
}

// ReverseComplement returns the reverse complement of a DNA sequence.
// RNA input yields DNA complements, and protein input is rejected.
func (s *Sequence) ReverseComplement() (*Sequence, error) {
	if s.SeqType == Protein {
		return nil, fmt.Errorf("reverse complement is not defined for protein sequences")
	}

	n := len(s.Bases)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = complementBase(s.Bases[i])
	}

	return &Sequence{
		Bases:       string(out),
		ID:          s.ID,
		Description: s.Description,
		SeqType:     DNA,
	}, nil
}

// ToFASTA returns the sequence in FASTA format.
func (s *Sequence) ToFASTA() string {
	return FormatFASTA(s.ID, s.Description, s.Bases)
}

// FormatFASTA renders one FASTA record with 80-character lines. Gapped rows
// are written as given.
func FormatFASTA(id, description, bases string) string {
	header := ">sequence"
	if id != "" {
		header = ">" + id
		if description != "" {
			header += " " + description
		}
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteByte('\n')

	// Split sequence into 80-character lines
	for i := 0; i < len(bases); i += 80 {
		end := min(i+80, len(bases))
		sb.WriteString(bases[i:end])
		sb.WriteByte('\n')
	}

	return sb.String()
}

// String returns a string representation of the sequence.
func (s *Sequence) String() string {
	if s.ID != "" {
		return fmt.Sprintf(">%s\n%s", s.ID, s.Bases)
	}
	return s.Bases
}

// Equal checks equality with another sequence.
func (s *Sequence) Equal(other *Sequence) bool {
	if other == nil {
		return false
	}
	return s.Bases == other.Bases && s.SeqType == other.SeqType
}
