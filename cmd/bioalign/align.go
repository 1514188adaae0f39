package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aria-lang/bioalign-go/internal/config"
	"github.com/aria-lang/bioalign-go/pkg/bioalign"
)

type alignReport struct {
	Mode          string  `yaml:"mode"`
	Score         int     `yaml:"score"`
	AlignedQuery  string  `yaml:"aligned_query"`
	AlignedTarget string  `yaml:"aligned_target"`
	QueryStart    int     `yaml:"query_start"`
	QueryEnd      int     `yaml:"query_end"`
	TargetStart   int     `yaml:"target_start"`
	TargetEnd     int     `yaml:"target_end"`
	Identity      float64 `yaml:"identity"`
	Cigar         string  `yaml:"cigar"`
	ExtendedCigar string  `yaml:"extended_cigar"`
}

func newAlignReport(r *bioalign.Result) alignReport {
	return alignReport{
		Mode:          r.Mode.String(),
		Score:         r.Score,
		AlignedQuery:  r.AlignedQuery,
		AlignedTarget: r.AlignedTarget,
		QueryStart:    r.QueryStart,
		QueryEnd:      r.QueryEnd,
		TargetStart:   r.TargetStart,
		TargetEnd:     r.TargetEnd,
		Identity:      r.Identity(),
		Cigar:         r.CigarString(),
		ExtendedCigar: r.ExtendedCigar().String(),
	}
}

type scoreReport struct {
	Mode      string `yaml:"mode"`
	Bandwidth int    `yaml:"bandwidth"`
	Score     int    `yaml:"score"`
}

func (c *cli) newAlignCmd() *cobra.Command {
	var queryFile, targetFile string
	var scoreOnly bool

	cmd := &cobra.Command{
		Use:   "align [QUERY TARGET]",
		Short: "Align two sequences",
		Long: `Align a query against a target, given inline or as the first record of
two FASTA files. A positive --bandwidth restricts the alignment to a
diagonal band.`,
		Example: `  bioalign align ACGTACGT ACGACGT
  bioalign align --mode local --query-file q.fa --target-file t.fa
  bioalign align --bandwidth 8 --score-only ACGTACGT ACGACGT`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, target, err := c.pairFromInput(cmd, args, queryFile, targetFile)
			if err != nil {
				return err
			}
			scheme, err := c.scheme()
			if err != nil {
				return err
			}

			mode, bandwidth := c.cfg.Align.Mode, c.cfg.Align.Bandwidth
			c.logger.Info("aligning pair",
				"query", query.ID, "query_len", query.Len(),
				"target", target.ID, "target_len", target.Len(),
				"mode", mode.String(), "bandwidth", bandwidth)

			if scoreOnly {
				var score int
				if bandwidth > 0 {
					score, err = bioalign.ScoreBanded(query, target, mode, scheme, bandwidth)
				} else {
					score, err = bioalign.Score(query, target, mode, scheme)
				}
				if err != nil {
					return err
				}
				report := scoreReport{Mode: mode.String(), Bandwidth: bandwidth, Score: score}
				return c.emit(cmd.OutOrStdout(), report, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Score: %d\n", score)
					return err
				})
			}

			var res *bioalign.Result
			if bandwidth > 0 {
				res, err = bioalign.AlignBanded(query, target, mode, scheme, bandwidth)
			} else {
				res, err = bioalign.Align(query, target, mode, scheme)
			}
			if err != nil {
				return err
			}

			return c.emit(cmd.OutOrStdout(), newAlignReport(res), func(w io.Writer) error {
				_, err := fmt.Fprintln(w, res.Format())
				return err
			})
		},
	}

	cmd.Flags().StringVar(&queryFile, "query-file", "", "FASTA file whose first record is the query")
	cmd.Flags().StringVar(&targetFile, "target-file", "", "FASTA file whose first record is the target")
	cmd.Flags().BoolVar(&scoreOnly, "score-only", false, "print only the score")

	cmd.Flags().Int("bandwidth", c.v.GetInt(config.KeyBandwidth), "band half-width; 0 aligns the full matrix")
	c.bindFlagToConfig(cmd.Flags().Lookup("bandwidth"), config.KeyBandwidth)

	return cmd
}

// pairFromInput returns the query and target from positional arguments or
// from the first record of each FASTA file.
func (c *cli) pairFromInput(cmd *cobra.Command, args []string, queryFile, targetFile string) (*bioalign.Sequence, *bioalign.Sequence, error) {
	seqType, err := c.seqType()
	if err != nil {
		return nil, nil, err
	}

	switch {
	case len(args) == 2 && queryFile == "" && targetFile == "":
		query, err := bioalign.NewTypedSequence(args[0], "query", seqType)
		if err != nil {
			return nil, nil, fmt.Errorf("query: %w", err)
		}
		target, err := bioalign.NewTypedSequence(args[1], "target", seqType)
		if err != nil {
			return nil, nil, fmt.Errorf("target: %w", err)
		}
		return query, target, nil

	case len(args) == 0 && queryFile != "" && targetFile != "":
		queries, err := c.readFASTA(cmd, queryFile)
		if err != nil {
			return nil, nil, err
		}
		targets, err := c.readFASTA(cmd, targetFile)
		if err != nil {
			return nil, nil, err
		}
		return queries[0], targets[0], nil
	}

	return nil, nil, errors.New("give QUERY and TARGET as arguments, or both --query-file and --target-file")
}
