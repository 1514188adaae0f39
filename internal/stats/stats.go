// Package stats provides aggregate summaries over batches of alignment
// results.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

// BatchSummary represents aggregated statistics for a batch of alignments.
type BatchSummary struct {
	Count        int     `json:"count" yaml:"count"`
	MinScore     int     `json:"min_score" yaml:"min_score"`
	MaxScore     int     `json:"max_score" yaml:"max_score"`
	MeanScore    float64 `json:"mean_score" yaml:"mean_score"`
	MedianScore  float64 `json:"median_score" yaml:"median_score"`
	MeanIdentity float64 `json:"mean_identity" yaml:"mean_identity"`
	TotalColumns int     `json:"total_columns" yaml:"total_columns"`
	TotalGaps    int     `json:"total_gaps" yaml:"total_gaps"`
	EmptyCount   int     `json:"empty_count" yaml:"empty_count"`
}

// Summarize calculates statistics for a collection of results. Nil entries
// are rejected.
func Summarize(results []*alignment.Result) (*BatchSummary, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: result list cannot be empty", bioerr.ErrEmptyInput)
	}

	count := len(results)
	scores := make([]int, count)
	s := &BatchSummary{Count: count}
	totalScore, identitySum := 0, 0.0

	for i, r := range results {
		if r == nil {
			return nil, fmt.Errorf("%w: result %d is nil", bioerr.ErrEmptyInput, i)
		}
		scores[i] = r.Score
		totalScore += r.Score
		identitySum += r.Identity()
		s.TotalColumns += r.Length()
		s.TotalGaps += r.Gaps()
		if r.Length() == 0 {
			s.EmptyCount++
		}
	}

	sort.Ints(scores)
	s.MinScore = scores[0]
	s.MaxScore = scores[count-1]
	s.MeanScore = float64(totalScore) / float64(count)
	s.MeanIdentity = identitySum / float64(count)

	// Calculate median
	mid := count / 2
	if count%2 == 0 {
		s.MedianScore = float64(scores[mid-1]+scores[mid]) / 2
	} else {
		s.MedianScore = float64(scores[mid])
	}

	return s, nil
}

func (s *BatchSummary) String() string {
	return fmt.Sprintf(`BatchSummary {
  count: %d
  score range: %d - %d
  mean score: %.2f
  median score: %.1f
  mean identity: %.1f%%
  aligned columns: %d
  gap columns: %d
  empty alignments: %d
}`, s.Count, s.MinScore, s.MaxScore, s.MeanScore, s.MedianScore,
		s.MeanIdentity*100, s.TotalColumns, s.TotalGaps, s.EmptyCount)
}

// IdentityHistogram bins the identity of each result over [0, 1].
type IdentityHistogram struct {
	Bins    []int
	BinSize float64
	NumBins int
}

// NewIdentityHistogram creates an identity histogram from results.
func NewIdentityHistogram(results []*alignment.Result, numBins int) (*IdentityHistogram, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: result list cannot be empty", bioerr.ErrEmptyInput)
	}
	if numBins <= 0 {
		return nil, fmt.Errorf("numBins must be positive")
	}

	binSize := 1.0 / float64(numBins)
	bins := make([]int, numBins)

	for _, r := range results {
		binIndex := int(r.Identity() / binSize)
		if binIndex >= numBins {
			binIndex = numBins - 1
		}
		bins[binIndex]++
	}

	return &IdentityHistogram{
		Bins:    bins,
		BinSize: binSize,
		NumBins: numBins,
	}, nil
}

// ModeBin returns the most common identity range.
func (h *IdentityHistogram) ModeBin() (float64, float64) {
	maxCount := h.Bins[0]
	maxBin := 0

	for i, count := range h.Bins {
		if count > maxCount {
			maxCount = count
			maxBin = i
		}
	}

	start := float64(maxBin) * h.BinSize
	return start, start + h.BinSize
}

func (h *IdentityHistogram) String() string {
	var sb strings.Builder
	sb.WriteString("Identity Histogram:\n")
	for i := 0; i < h.NumBins; i++ {
		start := int(float64(i) * h.BinSize * 100)
		end := start + int(h.BinSize*100)
		count := h.Bins[i]
		fmt.Fprintf(&sb, "%3d-%3d%%: %s (%d)\n", start, end, strings.Repeat("#", count), count)
	}
	return sb.String()
}
