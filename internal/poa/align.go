package poa

import (
	"fmt"
	"math"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

// Scoring holds the linear scores used to align a sequence to the graph.
type Scoring struct {
	Match    int `json:"match" yaml:"match"`
	Mismatch int `json:"mismatch" yaml:"mismatch"`
	Gap      int `json:"gap" yaml:"gap"`
}

// DefaultScoring returns match 2, mismatch -1, gap -2.
func DefaultScoring() Scoring {
	return Scoring{Match: 2, Mismatch: -1, Gap: -2}
}

// MaxPenalty bounds the magnitude of every score.
const MaxPenalty = 1 << 20

// Validate requires a positive match score and a non-positive gap, each
// no larger in magnitude than MaxPenalty.
func (s Scoring) Validate() error {
	if s.Match <= 0 || s.Match > MaxPenalty {
		return fmt.Errorf("%w: match score must be in [1, %d], got %d", bioerr.ErrInvalidScoring, MaxPenalty, s.Match)
	}
	if s.Mismatch < -MaxPenalty || s.Mismatch > MaxPenalty {
		return fmt.Errorf("%w: mismatch score must be within +/-%d, got %d", bioerr.ErrInvalidScoring, MaxPenalty, s.Mismatch)
	}
	if s.Gap > 0 || s.Gap < -MaxPenalty {
		return fmt.Errorf("%w: gap penalty must be in [-%d, 0], got %d", bioerr.ErrInvalidScoring, MaxPenalty, s.Gap)
	}
	return nil
}

func (s Scoring) score(a, b byte) int {
	if upper(a) == upper(b) {
		return s.Match
	}
	return s.Mismatch
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}

const negInf = math.MinInt / 4

const (
	opNone uint8 = iota
	opMatch
	opDelete // graph node skipped by the sequence
	opInsert // sequence residue absent from the graph
)

// step pairs a graph node with a sequence position; either may be -1.
type step struct {
	node, pos int
}

// AddSequence aligns seq globally against the graph and threads it in.
// Matched and substituted residues reuse the aligned node, inserted
// residues become new nodes, and skipped nodes are left untouched.
func (g *Graph) AddSequence(seq []byte, s Scoring) error {
	if len(seq) == 0 {
		return fmt.Errorf("%w: cannot add an empty sequence", bioerr.ErrEmptyInput)
	}
	if err := s.Validate(); err != nil {
		return err
	}

	g.thread(seq, g.align(seq, s))
	g.sort()
	g.sequences++
	return nil
}

// align runs the graph DP. Row 0 is a virtual start; row r is the node at
// topological rank r-1. A path must enter at a source and leave at a sink.
func (g *Graph) align(seq []byte, s Scoring) []step {
	n, m := len(g.order), len(seq)
	width := m + 1
	size := (n + 1) * width
	score := make([]int, size)
	op := make([]uint8, size)
	from := make([]int32, size)

	for j := 1; j <= m; j++ {
		score[j] = j * s.Gap
		op[j] = opInsert
	}

	for r := 1; r <= n; r++ {
		v := g.order[r-1]
		preds := g.predecessorRanks(v)
		for i := range preds {
			preds[i]++
		}
		if len(preds) == 0 {
			preds = []int{0}
		}

		base := g.nodes[v].Base
		row := r * width

		best, bp := negInf, 0
		for _, p := range preds {
			if sc := score[p*width] + s.Gap; sc > best {
				best, bp = sc, p
			}
		}
		score[row], op[row], from[row] = best, opDelete, int32(bp)

		for j := 1; j <= m; j++ {
			best, bop, bp := negInf, opNone, 0
			sub := s.score(base, seq[j-1])
			for _, p := range preds {
				if sc := score[p*width+j-1] + sub; sc > best {
					best, bop, bp = sc, opMatch, p
				}
			}
			for _, p := range preds {
				if sc := score[p*width+j] + s.Gap; sc > best {
					best, bop, bp = sc, opDelete, p
				}
			}
			if sc := score[row+j-1] + s.Gap; sc > best {
				best, bop, bp = sc, opInsert, r
			}
			score[row+j], op[row+j], from[row+j] = best, bop, int32(bp)
		}
	}

	end, best := 0, negInf
	for r := 1; r <= n; r++ {
		if len(g.out[g.order[r-1]]) > 0 {
			continue
		}
		if sc := score[r*width+m]; sc > best {
			end, best = r, sc
		}
	}

	var steps []step
	r, j := end, m
	for r > 0 || j > 0 {
		if r == 0 {
			steps = append(steps, step{node: -1, pos: j - 1})
			j--
			continue
		}
		idx := r*width + j
		v := g.order[r-1]
		switch op[idx] {
		case opMatch:
			steps = append(steps, step{node: v, pos: j - 1})
			r, j = int(from[idx]), j-1
		case opDelete:
			steps = append(steps, step{node: v, pos: -1})
			r = int(from[idx])
		case opInsert:
			steps = append(steps, step{node: -1, pos: j - 1})
			j--
		default:
			panic(fmt.Sprintf("poa: unreachable cell (%d, %d) on traceback", r, j))
		}
	}

	for i, k := 0, len(steps)-1; i < k; i, k = i+1, k-1 {
		steps[i], steps[k] = steps[k], steps[i]
	}
	return steps
}

func (g *Graph) thread(seq []byte, steps []step) {
	prev := -1
	for _, st := range steps {
		switch {
		case st.pos < 0:
			continue
		case st.node >= 0:
			g.nodes[st.node].Multiplicity++
			g.link(prev, st.node)
			prev = st.node
		default:
			id := g.addNode(seq[st.pos])
			g.nodes[id].Multiplicity = 1
			g.link(prev, id)
			prev = id
		}
	}
}

// Consensus builds a graph from seqs in order and returns its heaviest path.
func Consensus(seqs [][]byte, s Scoring) ([]byte, error) {
	g, err := Build(seqs, s)
	if err != nil {
		return nil, err
	}
	return g.Consensus(), nil
}

// Build threads seqs into a new graph, the first one forming the backbone.
func Build(seqs [][]byte, s Scoring) (*Graph, error) {
	if len(seqs) == 0 {
		return nil, fmt.Errorf("%w: no sequences", bioerr.ErrEmptyInput)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	g, err := FromSequence(seqs[0])
	if err != nil {
		return nil, fmt.Errorf("sequence 0: %w", err)
	}
	for i, seq := range seqs[1:] {
		if err := g.AddSequence(seq, s); err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i+1, err)
		}
	}
	return g, nil
}
