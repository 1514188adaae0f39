package alignment

import (
	"fmt"
	"math"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
	"github.com/aria-lang/bioalign-go/internal/cigar"
)

// negInf marks unreachable cells. Penalties are bounded by MaxPenalty, so
// no reachable path sums to anywhere near it and adding a few more
// penalties to it cannot overflow.
const negInf = math.MinInt / 4

// Trace bits stored per cell. The low two bits record which track H came
// from; the extend bits record whether E and F extended a gap in the
// neighbouring cell rather than opening one from H.
const (
	fromStop uint8 = iota
	fromDiag
	fromUp   // F track: consumes query, gap in target
	fromLeft // E track: consumes target, gap in query

	srcMask uint8 = 0x3
	eExtend uint8 = 1 << 2
	fExtend uint8 = 1 << 3
)

type track int

const (
	trackH track = iota
	trackE
	trackF
)

// band describes which cells of the (m+1) x (n+1) matrix are computed.
// A negative half-width means the full matrix.
type band struct {
	m, n   int
	w      int
	stride int
}

func fullBand(m, n int) band {
	return band{m: m, n: n, w: -1, stride: n + 1}
}

// newBand validates a bandwidth for the given mode. A bandwidth that covers
// the whole matrix is clamped to the full matrix.
func newBand(m, n, w int, mode Mode) (band, error) {
	if w <= 0 {
		return band{}, fmt.Errorf("%w: bandwidth must be positive, got %d", bioerr.ErrInvalidBandwidth, w)
	}
	if w >= max(m, n) {
		return fullBand(m, n), nil
	}
	switch mode {
	case Global:
		if abs(m-n) > w {
			return band{}, fmt.Errorf("%w: bandwidth %d cannot reach the end cell of %dx%d global alignment",
				bioerr.ErrInvalidBandwidth, w, m, n)
		}
	case SemiGlobal:
		if m-n > w {
			return band{}, fmt.Errorf("%w: bandwidth %d leaves no end cell in the last row of %dx%d semi-global alignment",
				bioerr.ErrInvalidBandwidth, w, m, n)
		}
	}
	return band{m: m, n: n, w: w, stride: 2*w + 1}, nil
}

func (b band) lo(i int) int {
	if b.w < 0 {
		return 0
	}
	return max(0, i-b.w)
}

func (b band) hi(i int) int {
	if b.w < 0 {
		return b.n
	}
	return min(b.n, i+b.w)
}

// col maps column j of row i to its offset inside the row storage.
func (b band) col(i, j int) int {
	if b.w < 0 {
		return j
	}
	return j - i + b.w
}

func (b band) index(i, j int) int {
	return i*b.stride + b.col(i, j)
}

// kernel runs the three-track affine recurrence over a band. With trace set
// it records per-cell choices for traceback; otherwise it keeps only two
// rows of scores.
type kernel struct {
	query, target []byte
	scheme        Scheme
	mode          Mode
	band          band
	trace         []uint8
}

func newKernel(query, target []byte, mode Mode, scheme Scheme, b band, withTrace bool) *kernel {
	k := &kernel{query: query, target: target, scheme: scheme, mode: mode, band: b}
	if withTrace {
		k.trace = make([]uint8, (b.m+1)*b.stride)
	}
	return k
}

func (k *kernel) mark(i, j int, flags uint8) {
	if k.trace != nil {
		k.trace[k.band.index(i, j)] = flags
	}
}

// fill computes the matrix and returns the optimal score with its end cell.
func (k *kernel) fill() (best, endI, endJ int) {
	b := k.band
	m, n := b.m, b.n
	gapOpen, gapExtend := k.scheme.GapOpen(), k.scheme.GapExtend()

	prevH, prevF := make([]int, b.stride), make([]int, b.stride)
	curH, curF := make([]int, b.stride), make([]int, b.stride)

	for j := 0; j <= b.hi(0); j++ {
		c := b.col(0, j)
		prevF[c] = negInf
		if j > 0 && k.mode == Global {
			prevH[c] = gapOpen + j*gapExtend
			flags := fromLeft
			if j > 1 {
				flags |= eExtend
			}
			k.mark(0, j, flags)
			continue
		}
		prevH[c] = 0
	}

	for i := 1; i <= m; i++ {
		lo, hi := b.lo(i), b.hi(i)
		prevHi := b.hi(i - 1)
		e, hLeft := negInf, negInf
		qi := k.query[i-1]

		for j := lo; j <= hi; j++ {
			c := b.col(i, j)
			if j == 0 {
				if k.mode == Local {
					curH[c], curF[c] = 0, negInf
				} else {
					curH[c] = gapOpen + i*gapExtend
					curF[c] = curH[c]
					flags := fromUp
					if i > 1 {
						flags |= fExtend
					}
					k.mark(i, 0, flags)
				}
				e, hLeft = negInf, curH[c]
				continue
			}

			var flags uint8
			if j > lo {
				open, ext := hLeft+gapOpen+gapExtend, e+gapExtend
				if ext > open {
					e = ext
					flags |= eExtend
				} else {
					e = open
				}
			} else {
				e = negInf
			}

			f := negInf
			if j <= prevHi {
				pc := b.col(i-1, j)
				open, ext := prevH[pc]+gapOpen+gapExtend, prevF[pc]+gapExtend
				if ext > open {
					f = ext
					flags |= fExtend
				} else {
					f = open
				}
			}

			h, src := prevH[b.col(i-1, j-1)]+k.scheme.Score(qi, k.target[j-1]), fromDiag
			if f > h {
				h, src = f, fromUp
			}
			if e > h {
				h, src = e, fromLeft
			}
			if k.mode == Local && h <= 0 {
				h, src = 0, fromStop
			}

			curH[c], curF[c] = h, f
			hLeft = h
			k.mark(i, j, flags|src)

			if k.mode == Local && h > best {
				best, endI, endJ = h, i, j
			}
		}
		prevH, curH = curH, prevH
		prevF, curF = curF, prevF
	}

	switch k.mode {
	case Global:
		return prevH[b.col(m, n)], m, n
	case SemiGlobal:
		best, endJ = negInf, b.lo(m)
		for j := b.lo(m); j <= b.hi(m); j++ {
			if h := prevH[b.col(m, j)]; h > best {
				best, endJ = h, j
			}
		}
		return best, m, endJ
	}
	return best, endI, endJ
}

// traceback walks recorded choices back from the end cell until it meets
// a stop cell, returning the gapped rows and the start cell.
func (k *kernel) traceback(endI, endJ int) (alignedQuery, alignedTarget []byte, startI, startJ int) {
	i, j := endI, endJ
	state := trackH
	for {
		flags := k.trace[k.band.index(i, j)]
		switch state {
		case trackH:
			switch flags & srcMask {
			case fromStop:
				reverseBytes(alignedQuery)
				reverseBytes(alignedTarget)
				return alignedQuery, alignedTarget, i, j
			case fromDiag:
				alignedQuery = append(alignedQuery, k.query[i-1])
				alignedTarget = append(alignedTarget, k.target[j-1])
				i--
				j--
			case fromUp:
				state = trackF
			case fromLeft:
				state = trackE
			}
		case trackF:
			alignedQuery = append(alignedQuery, k.query[i-1])
			alignedTarget = append(alignedTarget, cigar.Gap)
			if flags&fExtend == 0 {
				state = trackH
			}
			i--
		case trackE:
			alignedQuery = append(alignedQuery, cigar.Gap)
			alignedTarget = append(alignedTarget, k.target[j-1])
			if flags&eExtend == 0 {
				state = trackH
			}
			j--
		}
	}
}

// run fills the matrix and assembles a Result.
func (k *kernel) run() *Result {
	score, endI, endJ := k.fill()
	res := &Result{
		Score:        score,
		QueryLength:  len(k.query),
		TargetLength: len(k.target),
		Mode:         k.mode,
	}
	if k.mode == Local && score == 0 {
		return res
	}

	aq, at, startI, startJ := k.traceback(endI, endJ)
	res.AlignedQuery, res.AlignedTarget = string(aq), string(at)
	res.QueryStart, res.QueryEnd = startI, endI
	res.TargetStart, res.TargetEnd = startJ, endJ
	return res
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
