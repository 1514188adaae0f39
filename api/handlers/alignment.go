package handlers

import (
	"net/http"

	"github.com/aria-lang/bioalign-go/pkg/bioalign"
)

// AlignmentRequest represents a pairwise alignment request.
type AlignmentRequest struct {
	ScoringRequest
	Query     string `json:"query"`
	Target    string `json:"target"`
	Bandwidth int    `json:"bandwidth,omitempty"`
}

// AlignmentResponse represents one pairwise alignment.
type AlignmentResponse struct {
	Mode          string  `json:"mode"`
	Score         int     `json:"score"`
	AlignedQuery  string  `json:"aligned_query"`
	AlignedTarget string  `json:"aligned_target"`
	QueryStart    int     `json:"query_start"`
	QueryEnd      int     `json:"query_end"`
	TargetStart   int     `json:"target_start"`
	TargetEnd     int     `json:"target_end"`
	Identity      float64 `json:"identity"`
	CIGAR         string  `json:"cigar"`
	ExtendedCIGAR string  `json:"extended_cigar"`
	Matches       int     `json:"matches"`
	Mismatches    int     `json:"mismatches"`
	Gaps          int     `json:"gaps"`
}

func newAlignmentResponse(res *bioalign.Result) AlignmentResponse {
	return AlignmentResponse{
		Mode:          res.Mode.String(),
		Score:         res.Score,
		AlignedQuery:  res.AlignedQuery,
		AlignedTarget: res.AlignedTarget,
		QueryStart:    res.QueryStart,
		QueryEnd:      res.QueryEnd,
		TargetStart:   res.TargetStart,
		TargetEnd:     res.TargetEnd,
		Identity:      res.Identity(),
		CIGAR:         res.CigarString(),
		ExtendedCIGAR: res.ExtendedCigar().String(),
		Matches:       res.Matches(),
		Mismatches:    res.Mismatches(),
		Gaps:          res.Gaps(),
	}
}

// ScoreResponse represents the response for a score-only request.
type ScoreResponse struct {
	Score int `json:"score"`
}

func (h *Handler) pair(w http.ResponseWriter, r *http.Request) (*AlignmentRequest, *resolved, *bioalign.Sequence, *bioalign.Sequence, bool) {
	var req AlignmentRequest
	if !decode(w, r, &req) {
		return nil, nil, nil, nil, false
	}

	rs, err := h.resolve(req.ScoringRequest)
	if err != nil {
		writeError(w, err)
		return nil, nil, nil, nil, false
	}

	query, err := rs.sequence("query", req.Query)
	if err != nil {
		writeError(w, err)
		return nil, nil, nil, nil, false
	}

	target, err := rs.sequence("target", req.Target)
	if err != nil {
		writeError(w, err)
		return nil, nil, nil, nil, false
	}
	return &req, rs, query, target, true
}

// Align handles POST /api/align.
func (h *Handler) Align(w http.ResponseWriter, r *http.Request) {
	_, rs, query, target, ok := h.pair(w, r)
	if !ok {
		return
	}

	res, err := bioalign.Align(query, target, rs.mode, rs.scheme)
	if err != nil {
		writeError(w, err)
		return
	}

	h.opts.Metrics.ObserveSequences("align", 2)
	writeJSON(w, http.StatusOK, newAlignmentResponse(res))
}

// AlignBanded handles POST /api/align/banded.
func (h *Handler) AlignBanded(w http.ResponseWriter, r *http.Request) {
	req, rs, query, target, ok := h.pair(w, r)
	if !ok {
		return
	}

	res, err := bioalign.AlignBanded(query, target, rs.mode, rs.scheme, req.Bandwidth)
	if err != nil {
		writeError(w, err)
		return
	}

	h.opts.Metrics.ObserveSequences("banded", 2)
	writeJSON(w, http.StatusOK, newAlignmentResponse(res))
}

// ScoreBanded handles POST /api/align/banded/score.
func (h *Handler) ScoreBanded(w http.ResponseWriter, r *http.Request) {
	req, rs, query, target, ok := h.pair(w, r)
	if !ok {
		return
	}

	score, err := bioalign.ScoreBanded(query, target, rs.mode, rs.scheme, req.Bandwidth)
	if err != nil {
		writeError(w, err)
		return
	}

	h.opts.Metrics.ObserveSequences("banded_score", 2)
	writeJSON(w, http.StatusOK, ScoreResponse{Score: score})
}

// PairRequest is one query/target pair of a batch.
type PairRequest struct {
	Query  string `json:"query"`
	Target string `json:"target"`
}

// BatchRequest represents a batch alignment request.
type BatchRequest struct {
	ScoringRequest
	Pairs   []PairRequest `json:"pairs"`
	Workers int           `json:"workers,omitempty"`
}

// BatchResponse holds results in input order plus their summary.
type BatchResponse struct {
	Results []AlignmentResponse    `json:"results"`
	Summary *bioalign.BatchSummary `json:"summary"`
}

// AlignBatch handles POST /api/align/batch.
func (h *Handler) AlignBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decode(w, r, &req) {
		return
	}

	rs, err := h.resolve(req.ScoringRequest)
	if err != nil {
		writeError(w, err)
		return
	}

	queries := make([]string, len(req.Pairs))
	targets := make([]string, len(req.Pairs))
	for i, p := range req.Pairs {
		queries[i], targets[i] = p.Query, p.Target
	}
	qs, err := rs.sequences("query", queries)
	if err != nil {
		writeError(w, err)
		return
	}
	ts, err := rs.sequences("target", targets)
	if err != nil {
		writeError(w, err)
		return
	}
	pairs, err := bioalign.PairsOf(qs, ts)
	if err != nil {
		writeError(w, err)
		return
	}

	workers := req.Workers
	if workers <= 0 {
		workers = h.opts.Workers
	}
	results, err := bioalign.AlignBatch(r.Context(), pairs, rs.mode, rs.scheme, workers)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := bioalign.Summarize(results)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := BatchResponse{Results: make([]AlignmentResponse, len(results)), Summary: summary}
	for i, res := range results {
		resp.Results[i] = newAlignmentResponse(res)
	}

	h.opts.Metrics.ObserveSequences("batch", 2*len(pairs))
	writeJSON(w, http.StatusOK, resp)
}
