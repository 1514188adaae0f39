package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aria-lang/bioalign-go/pkg/bioalign"
)

type searchHit struct {
	Target string      `yaml:"target"`
	Result alignReport `yaml:"result"`
}

type searchReport struct {
	Best int         `yaml:"best"`
	Hits []searchHit `yaml:"hits"`
}

func (c *cli) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY TARGETS.fa",
		Short: "Locally align one query against every record of a FASTA file",
		Long: `Run a local alignment of QUERY against each record of TARGETS and report
every hit with the best one marked. Ties go to the earlier record.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seqType, err := c.seqType()
			if err != nil {
				return err
			}
			query, err := bioalign.NewTypedSequence(args[0], "query", seqType)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}
			targets, err := c.readFASTA(cmd, args[1])
			if err != nil {
				return err
			}
			scheme, err := c.scheme()
			if err != nil {
				return err
			}

			hits, best, err := bioalign.Search(query, targets, scheme)
			if err != nil {
				return err
			}
			c.logger.Info("search complete", "targets", len(targets), "best", targets[best.Index].ID, "score", best.Result.Score)

			report := searchReport{Best: best.Index, Hits: make([]searchHit, len(hits))}
			for i, h := range hits {
				report.Hits[i] = searchHit{Target: targets[h.Index].ID, Result: newAlignReport(h.Result)}
			}

			return c.emit(cmd.OutOrStdout(), report, func(w io.Writer) error {
				renderSearchTable(w, report)
				return nil
			})
		},
	}
}

func renderSearchTable(w io.Writer, report searchReport) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "Target", "Score", "Target Span", "CIGAR"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for i, h := range report.Hits {
		marker := ""
		if i == report.Best {
			marker = "*"
		}
		table.Append([]string{
			marker,
			h.Target,
			fmt.Sprintf("%d", h.Result.Score),
			fmt.Sprintf("%d-%d", h.Result.TargetStart, h.Result.TargetEnd),
			h.Result.Cigar,
		})
	}

	table.Render()
}
