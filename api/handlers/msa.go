package handlers

import (
	"net/http"

	"github.com/aria-lang/bioalign-go/pkg/bioalign"
)

// MultiRequest carries several sequences for MSA or POA.
type MultiRequest struct {
	ScoringRequest
	Sequences []string `json:"sequences"`
}

// MSAResponse represents a progressive multiple alignment.
type MSAResponse struct {
	Aligned      []string  `json:"aligned"`
	NumColumns   int       `json:"num_columns"`
	Consensus    string    `json:"consensus"`
	Conservation float64   `json:"conservation"`
	Columns      []float64 `json:"column_conservation"`
}

// MSA handles POST /api/msa.
func (h *Handler) MSA(w http.ResponseWriter, r *http.Request) {
	var req MultiRequest
	if !decode(w, r, &req) {
		return
	}

	rs, err := h.resolve(req.ScoringRequest)
	if err != nil {
		writeError(w, err)
		return
	}
	seqs, err := rs.sequences("sequences", req.Sequences)
	if err != nil {
		writeError(w, err)
		return
	}

	msa, err := bioalign.ProgressiveMSA(seqs, rs.scheme)
	if err != nil {
		writeError(w, err)
		return
	}

	rows := make([]string, len(msa.Aligned))
	for i, row := range msa.Aligned {
		rows[i] = string(row)
	}

	h.opts.Metrics.ObserveSequences("msa", len(seqs))
	writeJSON(w, http.StatusOK, MSAResponse{
		Aligned:      rows,
		NumColumns:   msa.NumColumns,
		Consensus:    string(msa.Consensus()),
		Conservation: msa.Conservation(),
		Columns:      msa.ColumnConservation(),
	})
}

// PoaRequest carries the sequences and optional linear scores for POA.
type PoaRequest struct {
	Molecule  string               `json:"molecule,omitempty"`
	Sequences []string             `json:"sequences"`
	Scoring   *bioalign.PoaScoring `json:"scoring,omitempty"`
}

// PoaResponse represents a partial-order consensus.
type PoaResponse struct {
	Consensus string `json:"consensus"`
	Nodes     int    `json:"nodes"`
	Edges     int    `json:"edges"`
	Sequences int    `json:"sequences"`
}

// PoaConsensus handles POST /api/poa/consensus.
func (h *Handler) PoaConsensus(w http.ResponseWriter, r *http.Request) {
	var req PoaRequest
	if !decode(w, r, &req) {
		return
	}

	molecule := req.Molecule
	if molecule == "" {
		molecule = "dna"
	}
	seqType, err := bioalign.ParseSequenceType(molecule)
	if err != nil {
		writeError(w, err)
		return
	}
	rs := &resolved{seqType: seqType}
	seqs, err := rs.sequences("sequences", req.Sequences)
	if err != nil {
		writeError(w, err)
		return
	}

	scoring := h.opts.POA
	if req.Scoring != nil {
		scoring = *req.Scoring
	}

	g, err := bioalign.BuildPoaGraph(seqs, scoring)
	if err != nil {
		writeError(w, err)
		return
	}

	h.opts.Metrics.ObserveSequences("poa", len(seqs))
	writeJSON(w, http.StatusOK, PoaResponse{
		Consensus: string(g.Consensus()),
		Nodes:     g.NodeCount(),
		Edges:     g.EdgeCount(),
		Sequences: g.SequenceCount(),
	})
}
