// Package handlers provides HTTP handlers for the bioalign API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aria-lang/bioalign-go/api/middleware"
	"github.com/aria-lang/bioalign-go/pkg/bioalign"
)

// Options carries the server-wide defaults applied when a request leaves a
// field unset.
type Options struct {
	Scheme  bioalign.Scheme
	Mode    bioalign.Mode
	Workers int
	POA     bioalign.PoaScoring
	Metrics *middleware.Metrics
}

// Handler serves the alignment endpoints.
type Handler struct {
	opts Options
}

// New returns a Handler. A nil Scheme falls back to the DNA default and a
// zero POA scoring to the partial-order default.
func New(opts Options) *Handler {
	if opts.Scheme == nil {
		opts.Scheme = bioalign.DefaultScoring()
	}
	if opts.POA == (bioalign.PoaScoring{}) {
		opts.POA = bioalign.DefaultPoaScoring()
	}
	return &Handler{opts: opts}
}

// Routes mounts every endpoint on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/align", func(r chi.Router) {
		r.Post("/", h.Align)
		r.Post("/batch", h.AlignBatch)
		r.Post("/banded", h.AlignBanded)
		r.Post("/banded/score", h.ScoreBanded)
	})
	r.Post("/msa", h.MSA)
	r.Post("/poa/consensus", h.PoaConsensus)
	r.Route("/cigar", func(r chi.Router) {
		r.Post("/stats", h.CigarStats)
		r.Post("/md", h.CigarMD)
	})
	r.Route("/sequence", func(r chi.Router) {
		r.Post("/validate", h.Validate)
		r.Post("/reverse-complement", h.ReverseComplement)
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps cancellation to 503 and everything else to 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
