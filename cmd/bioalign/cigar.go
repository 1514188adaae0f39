package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aria-lang/bioalign-go/internal/cigar"
)

func (c *cli) newCigarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cigar",
		Short: "Inspect and transform CIGAR strings",
	}
	cmd.AddCommand(
		c.newCigarStatsCmd(),
		c.newCigarMDCmd(),
		c.newCigarSplitCmd(),
		c.newCigarConvertCmd(),
	)
	return cmd
}

type cigarStatsReport struct {
	cigar.Stats   `yaml:",inline"`
	ExactIdentity *float64 `yaml:"exact_identity,omitempty"`
}

func (c *cli) newCigarStatsCmd() *cobra.Command {
	var query, reference string

	cmd := &cobra.Command{
		Use:   "stats CIGAR",
		Short: "Summarize a CIGAR string",
		Long: `Print consumed lengths, gap counts, clipping and identity. M runs count as
matches; pass --query and --reference to compute the exact identity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseValidCigar(args[0])
			if err != nil {
				return err
			}

			report := cigarStatsReport{Stats: cigar.Summarize(parsed)}
			if query != "" || reference != "" {
				identity, err := parsed.IdentityAgainst([]byte(query), []byte(reference))
				if err != nil {
					return err
				}
				report.ExactIdentity = &identity
			}

			return c.emit(cmd.OutOrStdout(), report, func(w io.Writer) error {
				renderCigarStats(w, report)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "query sequence described by the CIGAR")
	cmd.Flags().StringVar(&reference, "reference", "", "reference sequence described by the CIGAR")
	return cmd
}

func renderCigarStats(w io.Writer, r cigarStatsReport) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	table.Append([]string{"cigar", r.Cigar})
	table.Append([]string{"reference consumed", strconv.Itoa(r.ReferenceConsumed)})
	table.Append([]string{"query consumed", strconv.Itoa(r.QueryConsumed)})
	table.Append([]string{"alignment columns", strconv.Itoa(r.Columns)})
	table.Append([]string{"gap runs", strconv.Itoa(r.GapCount)})
	table.Append([]string{"gap bases", strconv.Itoa(r.GapBases)})
	table.Append([]string{"soft clipped", strconv.Itoa(r.SoftClipped)})
	table.Append([]string{"hard clipped", strconv.Itoa(r.HardClipped)})
	table.Append([]string{"identity", fmt.Sprintf("%.4f", r.Identity)})
	if r.ExactIdentity != nil {
		table.Append([]string{"exact identity", fmt.Sprintf("%.4f", *r.ExactIdentity)})
	}

	table.Render()
}

func (c *cli) newCigarMDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "md CIGAR QUERY REFERENCE",
		Short: "Generate the SAM MD tag for an alignment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := cigar.Parse(args[0])
			if err != nil {
				return err
			}
			md, err := cigar.GenerateMD(parsed, []byte(args[1]), []byte(args[2]))
			if err != nil {
				return err
			}

			report := struct {
				MD string `yaml:"md"`
			}{md}
			return c.emit(cmd.OutOrStdout(), report, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, md)
				return err
			})
		},
	}
}

func (c *cli) newCigarSplitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split CIGAR REF_POS",
		Short: "Split a CIGAR at a reference offset",
		Long: `Partition CIGAR into the runs covering reference positions [0, REF_POS)
and [REF_POS, end). A run crossing REF_POS is cut in two.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseValidCigar(args[0])
			if err != nil {
				return err
			}
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("reference position %q: %w", args[1], err)
			}

			left, right, err := cigar.SplitAtReference(parsed, pos)
			if err != nil {
				return err
			}

			report := struct {
				Left  string `yaml:"left"`
				Right string `yaml:"right"`
			}{left.String(), right.String()}
			return c.emit(cmd.OutOrStdout(), report, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "left:  %s\nright: %s\n", report.Left, report.Right)
				return err
			})
		},
	}
}

func (c *cli) newCigarConvertCmd() *cobra.Command {
	var collapse, softClip, reverse bool

	cmd := &cobra.Command{
		Use:   "convert CIGAR",
		Short: "Rewrite a CIGAR and check it round-trips through SAM encoding",
		Long: `Apply the selected rewrites, merge adjacent runs and print the result in
SAM form. The output is packed into the binary SAM representation and read
back, so it is guaranteed to be storable in a BAM record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := cigar.Parse(args[0])
			if err != nil {
				return err
			}

			out := cigar.MergeAdjacent(parsed)
			if collapse {
				out = cigar.CollapseMatches(out)
			}
			if softClip {
				out = cigar.HardClipToSoft(out)
			}
			if reverse {
				out = cigar.Reverse(out)
			}
			if err := cigar.Validate(out); err != nil {
				return err
			}

			packed, err := cigar.ToSAM(out)
			if err != nil {
				return err
			}
			back, err := cigar.FromSAM(packed)
			if err != nil {
				return err
			}
			if !back.Equal(out) {
				return fmt.Errorf("cigar %s changed in SAM encoding: %s", out, back)
			}
			c.logger.Debug("converted cigar", "input", args[0], "output", packed.String())

			report := struct {
				Cigar string `yaml:"cigar"`
			}{packed.String()}
			return c.emit(cmd.OutOrStdout(), report, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, report.Cigar)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&collapse, "collapse", false, "fold = and X runs into M")
	cmd.Flags().BoolVar(&softClip, "soft-clip", false, "turn hard clips into soft clips")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "reverse the operation order")
	return cmd
}

func parseValidCigar(s string) (cigar.Cigar, error) {
	parsed, err := cigar.Parse(s)
	if err != nil {
		return nil, err
	}
	if err := cigar.Validate(parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}
