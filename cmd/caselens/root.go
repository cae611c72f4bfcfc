package main

import (
	"github.com/spf13/cobra"

	"github.com/caselens/caselens/internal/cli"
	"github.com/caselens/caselens/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "caselens",
	Short: "Schema-driven structured extraction from legal documents",
	Long: `Caselens extracts structured data from court decisions and other
legal documents using an operator-defined output schema.

The workflow:
  - Define the output shape as a tree of named, typed fields
  - The schema compiles into a contract that constrains the extraction
  - A generation service fills the contract from the document text
  - The response is validated against the same contract and rendered

Schemas, prompt overrides, and results live under ~/.caselens.`,
	Version: version.GitRelease,

	// main prints the error itself, prefixed with the program name.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.caselens/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "caselens home directory (default: ~/.caselens)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "markdown", "output format: markdown, yaml, or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cli.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
