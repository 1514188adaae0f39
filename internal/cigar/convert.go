package cigar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

// Gap is the symbol used for the non-consumed side of an indel column.
const Gap byte = '-'

// ToAlignment reconstructs the gapped query and reference rows described by
// c. Soft-clipped query bases are consumed but not rendered, and skipped
// reference regions are rendered like deletions.
func ToAlignment(c Cigar, query, reference []byte) (alignedQuery, alignedReference []byte, err error) {
	if err := Validate(c); err != nil {
		return nil, nil, err
	}
	if err := c.checkLengths(query, reference); err != nil {
		return nil, nil, err
	}

	cols := 0
	for _, op := range c {
		if op.Code != SoftClip && (op.Code.ConsumesQuery() || op.Code.ConsumesReference()) {
			cols += op.Len
		}
	}
	alignedQuery = make([]byte, 0, cols)
	alignedReference = make([]byte, 0, cols)

	var qi, ri int
	for _, op := range c {
		switch op.Code {
		case Match, Equal, Diff:
			alignedQuery = append(alignedQuery, query[qi:qi+op.Len]...)
			alignedReference = append(alignedReference, reference[ri:ri+op.Len]...)
		case Insertion:
			alignedQuery = append(alignedQuery, query[qi:qi+op.Len]...)
			alignedReference = appendGaps(alignedReference, op.Len)
		case Deletion, Skip:
			alignedQuery = appendGaps(alignedQuery, op.Len)
			alignedReference = append(alignedReference, reference[ri:ri+op.Len]...)
		}
		if op.Code.ConsumesQuery() {
			qi += op.Len
		}
		if op.Code.ConsumesReference() {
			ri += op.Len
		}
	}
	return alignedQuery, alignedReference, nil
}

func appendGaps(b []byte, n int) []byte {
	for i := 0; i < n; i++ {
		b = append(b, Gap)
	}
	return b
}

// FromAlignment encodes two gapped rows as a Cigar. A gap in the query row
// becomes D, a gap in the reference row becomes I, and columns gapped on
// both sides are dropped. When extended is set, aligned columns are split
// into = and X runs; otherwise they are all M.
func FromAlignment(alignedQuery, alignedReference []byte, extended bool) (Cigar, error) {
	if len(alignedQuery) != len(alignedReference) {
		return nil, fmt.Errorf("%w: aligned rows have lengths %d and %d",
			bioerr.ErrLengthMismatch, len(alignedQuery), len(alignedReference))
	}

	var c Cigar
	for i := range alignedQuery {
		q, r := alignedQuery[i], alignedReference[i]
		var code OpCode
		switch {
		case q == Gap && r == Gap:
			continue
		case q == Gap:
			code = Deletion
		case r == Gap:
			code = Insertion
		case !extended:
			code = Match
		case upper(q) == upper(r):
			code = Equal
		default:
			code = Diff
		}
		if n := len(c); n > 0 && c[n-1].Code == code {
			c[n-1].Len++
		} else {
			c = append(c, Op{Code: code, Len: 1})
		}
	}
	return c, nil
}

// GenerateMD builds the SAM MD tag for a query aligned to reference by c.
// Match runs are written as counts, mismatches as the reference base and
// deleted reference runs as ^ followed by the bases. A count, possibly 0,
// separates every mismatch and deletion.
func GenerateMD(c Cigar, query, reference []byte) (string, error) {
	if err := Validate(c); err != nil {
		return "", err
	}
	if err := c.checkLengths(query, reference); err != nil {
		return "", err
	}

	var (
		b      strings.Builder
		qi, ri int
		run    int
	)
	flush := func() {
		b.WriteString(strconv.Itoa(run))
		run = 0
	}
	for _, op := range c {
		switch op.Code {
		case Match, Equal, Diff:
			for k := 0; k < op.Len; k++ {
				if upper(query[qi+k]) == upper(reference[ri+k]) {
					run++
					continue
				}
				flush()
				b.WriteByte(reference[ri+k])
			}
		case Deletion:
			flush()
			b.WriteByte('^')
			b.Write(reference[ri : ri+op.Len])
		}
		if op.Code.ConsumesQuery() {
			qi += op.Len
		}
		if op.Code.ConsumesReference() {
			ri += op.Len
		}
	}
	flush()
	return b.String(), nil
}
