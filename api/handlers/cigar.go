package handlers

import (
	"net/http"

	"github.com/aria-lang/bioalign-go/internal/cigar"
	"github.com/aria-lang/bioalign-go/pkg/bioalign"
)

// CigarRequest carries a CIGAR string and, optionally, the sequences it
// describes.
type CigarRequest struct {
	Cigar     string `json:"cigar"`
	Query     string `json:"query,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// CigarStatsResponse extends the summary with the exact identity when
// sequences were supplied.
type CigarStatsResponse struct {
	bioalign.CigarStats
	ExactIdentity *float64 `json:"exact_identity,omitempty"`
}

// CigarStats handles POST /api/cigar/stats.
func (h *Handler) CigarStats(w http.ResponseWriter, r *http.Request) {
	var req CigarRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := cigar.Parse(req.Cigar)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := cigar.Validate(c); err != nil {
		writeError(w, err)
		return
	}

	resp := CigarStatsResponse{CigarStats: cigar.Summarize(c)}
	if req.Query != "" || req.Reference != "" {
		identity, err := c.IdentityAgainst([]byte(req.Query), []byte(req.Reference))
		if err != nil {
			writeError(w, err)
			return
		}
		resp.ExactIdentity = &identity
	}
	writeJSON(w, http.StatusOK, resp)
}

// MDResponse holds a SAM MD tag value.
type MDResponse struct {
	MD string `json:"md"`
}

// CigarMD handles POST /api/cigar/md.
func (h *Handler) CigarMD(w http.ResponseWriter, r *http.Request) {
	var req CigarRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := cigar.Parse(req.Cigar)
	if err != nil {
		writeError(w, err)
		return
	}

	md, err := cigar.GenerateMD(c, []byte(req.Query), []byte(req.Reference))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MDResponse{MD: md})
}
