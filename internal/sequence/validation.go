package sequence

import (
	"fmt"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

// Valid residues per alphabet, upper case.
var (
	ValidDNABases     = alphabet("ACGTN")
	ValidRNABases     = alphabet("ACGUN")
	ValidProteinBases = alphabet("ACDEFGHIKLMNPQRSTVWYBZXJUO*")
)

func alphabet(s string) [256]bool {
	var set [256]bool
	for i := 0; i < len(s); i++ {
		set[s[i]] = true
	}
	return set
}

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// EmptySequenceError is returned when a sequence is empty.
type EmptySequenceError struct {
	ID string
}

func (e *EmptySequenceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("sequence %q must have at least one base", e.ID)
	}
	return "sequence must have at least one base"
}

func (e *EmptySequenceError) IsSequenceError() {}

// Is makes EmptySequenceError match bioerr.ErrEmptyInput.
func (e *EmptySequenceError) Is(target error) bool {
	return target == bioerr.ErrEmptyInput
}

// InvalidBaseError is returned when an invalid base is encountered.
type InvalidBaseError struct {
	Position int
	Found    byte
	SeqType  SequenceType
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("invalid %s residue '%c' at position %d", e.SeqType, e.Found, e.Position)
}

func (e *InvalidBaseError) IsSequenceError() {}

// Validate checks that an upper-case string uses only the residues of the
// given alphabet.
func Validate(bases string, seqType SequenceType) error {
	set := &ValidDNABases
	switch seqType {
	case RNA:
		set = &ValidRNABases
	case Protein:
		set = &ValidProteinBases
	}
	for i := 0; i < len(bases); i++ {
		if !set[bases[i]] {
			return &InvalidBaseError{Position: i, Found: bases[i], SeqType: seqType}
		}
	}
	return nil
}

// ValidateDNA validates that a string contains only valid DNA bases.
func ValidateDNA(bases string) error {
	return Validate(bases, DNA)
}

// ValidateRNA validates that a string contains only valid RNA bases.
func ValidateRNA(bases string) error {
	return Validate(bases, RNA)
}

// ValidateProtein validates that a string contains only amino-acid codes.
func ValidateProtein(bases string) error {
	return Validate(bases, Protein)
}
