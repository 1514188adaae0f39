// Package cigar implements the run-length CIGAR encoding of alignments.
//
// A Cigar is an ordered list of (code, length) operations. Each code consumes
// query bases, reference bases, both or neither; see OpCode.ConsumesQuery and
// OpCode.ConsumesReference. All transforms in this package are pure: they
// return a new Cigar and never modify their input.
package cigar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

// OpCode is a single CIGAR operation letter.
type OpCode byte

const (
	// Match is an aligned column that may be a match or a mismatch.
	Match OpCode = 'M'
	// Insertion is a run of query bases absent from the reference.
	Insertion OpCode = 'I'
	// Deletion is a run of reference bases absent from the query.
	Deletion OpCode = 'D'
	// Skip is a skipped reference region, e.g. an intron.
	Skip OpCode = 'N'
	// SoftClip is a clipped query run still present in the read.
	SoftClip OpCode = 'S'
	// HardClip is a clipped query run removed from the read.
	HardClip OpCode = 'H'
	// Pad is a silent deletion from a padded reference.
	Pad OpCode = 'P'
	// Equal is an aligned column where both bases are identical.
	Equal OpCode = '='
	// Diff is an aligned column where the bases differ.
	Diff OpCode = 'X'
)

// maxOpLen is the largest run length representable in BAM.
const maxOpLen = 1<<28 - 1

// Valid reports whether c is one of the nine SAM operation codes.
func (c OpCode) Valid() bool {
	switch c {
	case Match, Insertion, Deletion, Skip, SoftClip, HardClip, Pad, Equal, Diff:
		return true
	}
	return false
}

// ConsumesQuery reports whether the operation advances along the query.
func (c OpCode) ConsumesQuery() bool {
	switch c {
	case Match, Insertion, SoftClip, Equal, Diff:
		return true
	}
	return false
}

// ConsumesReference reports whether the operation advances along the reference.
func (c OpCode) ConsumesReference() bool {
	switch c {
	case Match, Deletion, Skip, Equal, Diff:
		return true
	}
	return false
}

// IsClip reports whether the operation is a soft or hard clip.
func (c OpCode) IsClip() bool {
	return c == SoftClip || c == HardClip
}

func (c OpCode) String() string {
	return string(rune(c))
}

// Op is one run-length operation.
type Op struct {
	Code OpCode
	Len  int
}

func (o Op) String() string {
	return strconv.Itoa(o.Len) + o.Code.String()
}

// Cigar is an ordered list of operations.
type Cigar []Op

// Parse reads a textual CIGAR. The empty string and "*" both denote an
// empty Cigar.
func Parse(s string) (Cigar, error) {
	if s == "" || s == "*" {
		return nil, nil
	}

	var (
		c      Cigar
		n      int
		digits int
	)
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= '0' && b <= '9' {
			n = n*10 + int(b-'0')
			digits++
			if n > maxOpLen {
				return nil, fmt.Errorf("%w: run length overflow at offset %d in %q", bioerr.ErrMalformedCigar, i, s)
			}
			continue
		}

		code := OpCode(b)
		switch {
		case !code.Valid():
			return nil, fmt.Errorf("%w: unknown operation %q at offset %d in %q", bioerr.ErrMalformedCigar, b, i, s)
		case digits == 0:
			return nil, fmt.Errorf("%w: operation %q at offset %d has no length in %q", bioerr.ErrMalformedCigar, b, i, s)
		case n == 0:
			return nil, fmt.Errorf("%w: zero-length run at offset %d in %q", bioerr.ErrMalformedCigar, i, s)
		}
		c = append(c, Op{Code: code, Len: n})
		n, digits = 0, 0
	}
	if digits > 0 {
		return nil, fmt.Errorf("%w: trailing length without operation in %q", bioerr.ErrMalformedCigar, s)
	}
	return c, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level literals.
func MustParse(s string) Cigar {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String renders c in run-length form, or "*" when empty.
func (c Cigar) String() string {
	if len(c) == 0 {
		return "*"
	}
	var b strings.Builder
	for _, op := range c {
		b.WriteString(strconv.Itoa(op.Len))
		b.WriteByte(byte(op.Code))
	}
	return b.String()
}

// Validate checks the structural invariants of c: it must be non-empty,
// every run positive with a known code, and clips may only sit at the ends.
// A soft clip may be separated from its end by a single hard clip.
func Validate(c Cigar) error {
	if len(c) == 0 {
		return fmt.Errorf("%w: empty operation list", bioerr.ErrInconsistentCigar)
	}
	last := len(c) - 1
	for i, op := range c {
		if !op.Code.Valid() {
			return fmt.Errorf("%w: unknown operation %q at index %d", bioerr.ErrInconsistentCigar, byte(op.Code), i)
		}
		if op.Len <= 0 {
			return fmt.Errorf("%w: non-positive length %d at index %d", bioerr.ErrInconsistentCigar, op.Len, i)
		}
		switch op.Code {
		case HardClip:
			if i != 0 && i != last {
				return fmt.Errorf("%w: interior hard clip at index %d", bioerr.ErrInconsistentCigar, i)
			}
		case SoftClip:
			if i == 0 || i == last {
				continue
			}
			leading := i == 1 && c[0].Code == HardClip
			trailing := i == last-1 && c[last].Code == HardClip
			if !leading && !trailing {
				return fmt.Errorf("%w: interior soft clip at index %d", bioerr.ErrInconsistentCigar, i)
			}
		}
	}
	return nil
}

// Equal reports whether c and other hold the same operations.
func (c Cigar) Equal(other Cigar) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}
