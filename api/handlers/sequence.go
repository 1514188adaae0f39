package handlers

import (
	"net/http"

	"github.com/aria-lang/bioalign-go/pkg/bioalign"
)

// SequenceRequest represents a request with a sequence.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
	Molecule string `json:"molecule,omitempty"`
}

// ValidateResponse represents validation result.
type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	Molecule string `json:"molecule"`
	Length   int    `json:"length,omitempty"`
	Message  string `json:"message,omitempty"`
}

func moleculeOf(req SequenceRequest) (bioalign.SequenceType, error) {
	if req.Molecule == "" {
		return bioalign.DNA, nil
	}
	return bioalign.ParseSequenceType(req.Molecule)
}

// Validate handles POST /api/sequence/validate. An invalid sequence is a
// successful request with valid=false; an unknown molecule is a 400.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}

	seqType, err := moleculeOf(req)
	if err != nil {
		writeError(w, err)
		return
	}

	seq, err := bioalign.NewTypedSequence(req.Sequence, "", seqType)
	if err != nil {
		writeJSON(w, http.StatusOK, ValidateResponse{
			Valid:    false,
			Molecule: seqType.String(),
			Message:  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:    true,
		Molecule: seqType.String(),
		Length:   seq.Len(),
	})
}

// ReverseComplementResponse represents the response for reverse complement.
type ReverseComplementResponse struct {
	ReverseComplement string `json:"reverse_complement"`
}

// ReverseComplement handles POST /api/sequence/reverse-complement.
func (h *Handler) ReverseComplement(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}

	seqType, err := moleculeOf(req)
	if err != nil {
		writeError(w, err)
		return
	}

	seq, err := bioalign.NewTypedSequence(req.Sequence, "", seqType)
	if err != nil {
		writeError(w, err)
		return
	}

	rc, err := seq.ReverseComplement()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ReverseComplementResponse{
		ReverseComplement: rc.Bases,
	})
}
