package main

import (
	"github.com/spf13/cobra"

	"github.com/caselens/caselens/internal/batch"
	"github.com/caselens/caselens/internal/cli"
	"github.com/caselens/caselens/internal/config"
	"github.com/caselens/caselens/internal/providers"
	"github.com/caselens/caselens/internal/session"
)

var (
	batchProvider string
	batchModel    string
)

var batchCmd = &cobra.Command{
	Use:   "batch <input-dir> [output-dir]",
	Short: "Extract every record in a corpus directory",
	Long: `Run one extraction per .txt record in a directory.

Each record holds the source URL on its first line followed by the
document body. One JSON result is written per record, named by the
record's base name. A failure on one record is logged and the run
continues with the next.

Examples:
  caselens batch corpus/                       # results to ~/.caselens/results
  caselens batch corpus/ out/ --schema holdings`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		outputDir := a.Home.ResultsPath()
		if len(args) > 1 {
			outputDir = args[1]
		}

		name, tree, err := a.loadSchema(schemaName)
		if err != nil {
			return err
		}
		providerName := batchProvider
		if providerName == "" {
			providerName = a.Config.Defaults.Provider
		}
		client, err := a.client(providerName)
		if err != nil {
			return err
		}

		sess := session.New(name, tree, a.Prompts, client, a.Logger)
		sess.Model = batchModel

		// Long run: pick up config edits between records.
		a.Manager.OnChange(func(cfg *config.Config) {
			cc, ok := cfg.ClientConfig(providerName)
			if !ok {
				a.Logger.Warn("provider missing after config reload", "provider", providerName)
				return
			}
			c, err := providers.NewClient(cc)
			if err != nil {
				a.Logger.Warn("failed to rebuild client after config reload", "error", err)
				return
			}
			sess.SetClient(c)
			a.Logger.Info("configuration reloaded", "provider", providerName)
		})
		a.Manager.WatchConfig()

		runner := batch.NewRunner(sess, a.Logger)
		summary, err := runner.Run(cmd.Context(), args[0], outputDir)
		if err != nil {
			return err
		}
		return cli.Output(summary)
	},
}

func init() {
	batchCmd.Flags().StringVar(&schemaName, "schema", "", "schema name (default from config)")
	batchCmd.Flags().StringVar(&batchProvider, "provider", "", "generation provider (default from config)")
	batchCmd.Flags().StringVar(&batchModel, "model", "", "override the provider's model")

	rootCmd.AddCommand(batchCmd)
}
