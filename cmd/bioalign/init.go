package main

import (
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/aria-lang/bioalign-go/internal/config"
	"github.com/aria-lang/bioalign-go/pkg/bioalign"
)

func (c *cli) newInitCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default " + config.FileName + " configuration file",
		Long: `Create a ` + config.FileName + ` populated with the current settings, including
any flags given on this command line, so it can be edited manually. An
existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.WriteDefault(c.v, dir)
			if err != nil {
				return err
			}
			c.logger.Info("wrote config file", "path", path)
			cmd.Println("wrote", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write the config file to")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the bioalign version, its features and the Go version used to build it.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(bioalign.Info())

			info, ok := debug.ReadBuildInfo()
			if !ok {
				cmd.Println("go version\t unknown")
				return
			}
			cmd.Println("go version\t", info.GoVersion)
		},
	}
}
