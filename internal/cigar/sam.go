package cigar

import (
	"fmt"

	"github.com/biogo/hts/sam"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

var toSAMType = map[OpCode]sam.CigarOpType{
	Match:     sam.CigarMatch,
	Insertion: sam.CigarInsertion,
	Deletion:  sam.CigarDeletion,
	Skip:      sam.CigarSkipped,
	SoftClip:  sam.CigarSoftClipped,
	HardClip:  sam.CigarHardClipped,
	Pad:       sam.CigarPadded,
	Equal:     sam.CigarEqual,
	Diff:      sam.CigarMismatch,
}

var fromSAMType = func() map[sam.CigarOpType]OpCode {
	m := make(map[sam.CigarOpType]OpCode, len(toSAMType))
	for code, t := range toSAMType {
		m[t] = code
	}
	return m
}()

// ToSAM converts c to the packed representation used by biogo/hts records.
func ToSAM(c Cigar) (sam.Cigar, error) {
	out := make(sam.Cigar, 0, len(c))
	for i, op := range c {
		t, ok := toSAMType[op.Code]
		if !ok {
			return nil, fmt.Errorf("%w: unknown operation %q at index %d", bioerr.ErrInconsistentCigar, byte(op.Code), i)
		}
		if op.Len <= 0 || op.Len > maxOpLen {
			return nil, fmt.Errorf("%w: length %d at index %d not representable", bioerr.ErrInconsistentCigar, op.Len, i)
		}
		out = append(out, sam.NewCigarOp(t, op.Len))
	}
	return out, nil
}

// FromSAM converts a biogo/hts Cigar. The B (back) operation has no
// counterpart here and is rejected.
func FromSAM(sc sam.Cigar) (Cigar, error) {
	if len(sc) == 0 {
		return nil, nil
	}
	out := make(Cigar, 0, len(sc))
	for i, op := range sc {
		code, ok := fromSAMType[op.Type()]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported operation %s at index %d", bioerr.ErrMalformedCigar, op.Type(), i)
		}
		out = append(out, Op{Code: code, Len: op.Len()})
	}
	return out, nil
}
