package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aria-lang/bioalign-go/internal/config"
	"github.com/aria-lang/bioalign-go/internal/stats"
	"github.com/aria-lang/bioalign-go/pkg/bioalign"
)

type batchRow struct {
	Query  string      `yaml:"query"`
	Target string      `yaml:"target"`
	Result alignReport `yaml:"result"`
}

type batchReport struct {
	Results   []batchRow             `yaml:"results"`
	Summary   *bioalign.BatchSummary `yaml:"summary"`
	Histogram []int                  `yaml:"identity_histogram,omitempty"`
}

func (c *cli) newBatchCmd() *cobra.Command {
	var bins int

	cmd := &cobra.Command{
		Use:   "batch QUERIES.fa TARGETS.fa",
		Short: "Align query/target FASTA files pairwise",
		Long: `Align the i-th record of QUERIES against the i-th record of TARGETS.
Both files must hold the same number of records. The whole batch fails if
any pair is invalid.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := c.readFASTA(cmd, args[0])
			if err != nil {
				return err
			}
			targets, err := c.readFASTA(cmd, args[1])
			if err != nil {
				return err
			}
			pairs, err := bioalign.PairsOf(queries, targets)
			if err != nil {
				return err
			}
			scheme, err := c.scheme()
			if err != nil {
				return err
			}

			mode, workers := c.cfg.Align.Mode, c.cfg.Batch.Workers
			c.logger.Info("aligning batch", "pairs", len(pairs), "mode", mode.String(), "workers", workers)

			results, err := bioalign.AlignBatch(cmd.Context(), pairs, mode, scheme, workers)
			if err != nil {
				return err
			}
			summary, err := bioalign.Summarize(results)
			if err != nil {
				return err
			}

			report := batchReport{Results: make([]batchRow, len(results)), Summary: summary}
			for i, r := range results {
				report.Results[i] = batchRow{
					Query:  queries[i].ID,
					Target: targets[i].ID,
					Result: newAlignReport(r),
				}
			}

			var hist *stats.IdentityHistogram
			if bins > 0 {
				hist, err = stats.NewIdentityHistogram(results, bins)
				if err != nil {
					return err
				}
				report.Histogram = hist.Bins
			}

			return c.emit(cmd.OutOrStdout(), report, func(w io.Writer) error {
				renderBatchTable(w, report)
				if _, err := fmt.Fprintln(w, summary.String()); err != nil {
					return err
				}
				if hist != nil {
					_, err := fmt.Fprint(w, hist.String())
					return err
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&bins, "histogram", 0, "also print an identity histogram with this many bins")

	cmd.Flags().Int("workers", c.v.GetInt(config.KeyWorkers), "worker goroutines; 0 uses GOMAXPROCS, 1 runs sequentially")
	c.bindFlagToConfig(cmd.Flags().Lookup("workers"), config.KeyWorkers)

	return cmd
}

func renderBatchTable(w io.Writer, report batchReport) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Query", "Target", "Score", "Identity", "CIGAR"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})

	for i, row := range report.Results {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			row.Query,
			row.Target,
			fmt.Sprintf("%d", row.Result.Score),
			fmt.Sprintf("%.1f%%", row.Result.Identity*100),
			row.Result.Cigar,
		})
	}

	table.Render()
}
