package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/aria-lang/bioalign-go/internal/config"
	"github.com/aria-lang/bioalign-go/pkg/bioalign"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

const rootLongDescription = `bioalign aligns DNA, RNA and protein sequences.

Scoring, mode and worker settings are read from bioalign.yaml in the
working directory, then BIOALIGN_* environment variables (for example
BIOALIGN_ALIGN_MODE=local), then command-line flags.`

// cli holds the state shared by every subcommand of one invocation.
type cli struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer

	configFile string
	format     string
	molecule   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.New()}

	cmd := &cobra.Command{
		Use:                "bioalign",
		Short:              "Sequence alignment toolkit",
		Long:               rootLongDescription,
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	c.configureRootFlags(cmd)

	cmd.AddCommand(
		c.newAlignCmd(),
		c.newBatchCmd(),
		c.newSearchCmd(),
		c.newMSACmd(),
		c.newPoaCmd(),
		c.newCigarCmd(),
		c.newInitCmd(),
		newVersionCmd(),
	)
	return cmd
}

func (c *cli) configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default ./"+config.FileName+")")
	flags.StringVar(&c.format, "format", formatText, "output format: text or yaml")
	flags.StringVar(&c.molecule, "molecule", "", "sequence type: dna, rna or protein (default dna, protein with --matrix)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	flags.String("mode", c.v.GetString(config.KeyMode), "alignment mode: global, local or semi-global")
	c.bindFlagToConfig(flags.Lookup("mode"), config.KeyMode)

	flags.Int("match", c.v.GetInt(config.KeyMatch), "match score")
	c.bindFlagToConfig(flags.Lookup("match"), config.KeyMatch)

	flags.Int("mismatch", c.v.GetInt(config.KeyMismatch), "mismatch score")
	c.bindFlagToConfig(flags.Lookup("mismatch"), config.KeyMismatch)

	flags.Int("gap-open", 0, "gap open penalty (default depends on --matrix)")
	c.bindFlagToConfig(flags.Lookup("gap-open"), config.KeyGapOpen)

	flags.Int("gap-extend", 0, "gap extend penalty (default depends on --matrix)")
	c.bindFlagToConfig(flags.Lookup("gap-extend"), config.KeyGapExtend)

	flags.String("matrix", "", fmt.Sprintf("substitution matrix %v", bioalign.MatrixNames()))
	c.bindFlagToConfig(flags.Lookup("matrix"), config.KeyMatrix)

	flags.String("log-file", c.v.GetString(config.KeyLogFilename), "log file path")
	c.bindFlagToConfig(flags.Lookup("log-file"), config.KeyLogFilename)

	flags.String("log-level", c.v.GetString(config.KeyLogLevel), "log level: debug, info, warn or error")
	c.bindFlagToConfig(flags.Lookup("log-level"), config.KeyLogLevel)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func (c *cli) bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(c.v.BindPFlag(key, flag))
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if c.format != formatText && c.format != formatYAML {
		return fmt.Errorf("unknown format %q (want %s or %s)", c.format, formatText, formatYAML)
	}

	if c.configFile != "" {
		if _, err := os.Stat(c.configFile); err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		c.v.SetConfigFile(c.configFile)
	}
	if err := config.ReadFile(c.v); err != nil {
		return err
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg

	c.closer = config.ConfigureLogger(cfg.Log, c.verbose)
	c.logger = slog.Default().With("command", cmd.CommandPath())
	c.logger.Debug("configuration loaded",
		"file", c.v.ConfigFileUsed(),
		"mode", cfg.Align.Mode.String(),
		"matrix", cfg.Scoring.Matrix)
	return nil
}

func (c *cli) teardown(_ *cobra.Command, _ []string) error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// scheme resolves the configured scoring scheme.
func (c *cli) scheme() (bioalign.Scheme, error) {
	return c.cfg.Scheme()
}

// seqType returns --molecule, defaulting to protein when a matrix is
// configured and DNA otherwise.
func (c *cli) seqType() (bioalign.SequenceType, error) {
	if c.molecule != "" {
		return bioalign.ParseSequenceType(c.molecule)
	}
	if c.cfg.Scoring.Matrix != "" {
		return bioalign.Protein, nil
	}
	return bioalign.DNA, nil
}

// readFASTA reads every record of path, or of stdin when path is "-".
func (c *cli) readFASTA(cmd *cobra.Command, path string) ([]*bioalign.Sequence, error) {
	seqType, err := c.seqType()
	if err != nil {
		return nil, err
	}

	var seqs []*bioalign.Sequence
	if path == "-" {
		seqs, err = bioalign.ParseFASTA(cmd.InOrStdin(), seqType)
	} else {
		seqs, err = bioalign.ReadFASTA(path, seqType)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(seqs) == 0 {
		return nil, fmt.Errorf("%s: no FASTA records", path)
	}
	c.logger.Debug("read sequences", "file", path, "count", len(seqs))
	return seqs, nil
}

// emit writes v as YAML, or calls text for the text format.
func (c *cli) emit(w io.Writer, v any, text func(io.Writer) error) error {
	if c.format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return text(w)
}
