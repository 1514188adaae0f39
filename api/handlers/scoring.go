package handlers

import (
	"fmt"
	"strings"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/pkg/bioalign"
)

// ScoringRequest selects the scoring scheme and the input alphabet. Every
// field is optional.
type ScoringRequest struct {
	Mode      string `json:"mode,omitempty"`
	Molecule  string `json:"molecule,omitempty"`
	Matrix    string `json:"matrix,omitempty"`
	Match     *int   `json:"match,omitempty"`
	Mismatch  *int   `json:"mismatch,omitempty"`
	GapOpen   *int   `json:"gap_open,omitempty"`
	GapExtend *int   `json:"gap_extend,omitempty"`
}

// resolved is a ScoringRequest with the server defaults filled in.
type resolved struct {
	mode    bioalign.Mode
	scheme  bioalign.Scheme
	seqType bioalign.SequenceType
}

func (h *Handler) resolve(req ScoringRequest) (*resolved, error) {
	out := &resolved{mode: h.opts.Mode, scheme: h.opts.Scheme}

	if req.Mode != "" {
		mode, err := bioalign.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		out.mode = mode
	}

	molecule := strings.TrimSpace(req.Molecule)
	switch {
	case req.Matrix != "":
		s, err := alignment.NewSubstitutionScheme(req.Matrix)
		if err != nil {
			return nil, err
		}
		open, extend := override(s.GapOpen(), req.GapOpen), override(s.GapExtend(), req.GapExtend)
		if out.scheme, err = alignment.NewSubstitutionSchemeWithGaps(req.Matrix, open, extend); err != nil {
			return nil, err
		}
		if molecule == "" {
			molecule = "protein"
		}
	case req.Match != nil || req.Mismatch != nil || req.GapOpen != nil || req.GapExtend != nil:
		d := bioalign.DefaultScoring()
		s, err := alignment.NewScoringMatrix(
			override(d.MatchScore, req.Match),
			override(d.MismatchPenalty, req.Mismatch),
			override(d.GapOpenPenalty, req.GapOpen),
			override(d.GapExtendPenalty, req.GapExtend),
		)
		if err != nil {
			return nil, err
		}
		out.scheme = s
	case molecule != "":
		s, err := alignment.SchemeForMolecule(molecule)
		if err != nil {
			return nil, err
		}
		out.scheme = s
	}

	if molecule == "" {
		if _, ok := out.scheme.(*alignment.SubstitutionScheme); ok {
			molecule = "protein"
		} else {
			molecule = "dna"
		}
	}
	seqType, err := bioalign.ParseSequenceType(molecule)
	if err != nil {
		return nil, err
	}
	out.seqType = seqType
	return out, nil
}

func override(def int, v *int) int {
	if v != nil {
		return *v
	}
	return def
}

func (rs *resolved) sequence(name, bases string) (*bioalign.Sequence, error) {
	seq, err := bioalign.NewTypedSequence(bases, name, rs.seqType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return seq, nil
}

func (rs *resolved) sequences(name string, all []string) ([]*bioalign.Sequence, error) {
	out := make([]*bioalign.Sequence, len(all))
	for i, s := range all {
		seq, err := rs.sequence(fmt.Sprintf("%s[%d]", name, i), s)
		if err != nil {
			return nil, err
		}
		out[i] = seq
	}
	return out, nil
}
