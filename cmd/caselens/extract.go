package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caselens/caselens/internal/cli"
	"github.com/caselens/caselens/internal/render"
	"github.com/caselens/caselens/internal/session"
	"github.com/caselens/caselens/internal/validate"
)

var (
	extractProvider string
	extractModel    string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Run one extraction over a document file",
	Long: `Run one extraction cycle: compile the schema, send the document to the
generation provider, validate the response against the contract, and
render the result.

The default output is markdown; use --output json or yaml for the
validated value itself.

Examples:
  caselens extract decision.txt
  caselens extract decision.txt --schema holdings -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		document, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}

		name, tree, err := a.loadSchema(schemaName)
		if err != nil {
			return err
		}
		client, err := a.client(extractProvider)
		if err != nil {
			return err
		}

		sess := session.New(name, tree, a.Prompts, client, a.Logger)
		sess.Model = extractModel
		result, err := sess.Extract(cmd.Context(), string(document))
		if err != nil {
			var vErr *validate.Error
			if errors.As(err, &vErr) {
				fmt.Fprintln(os.Stderr, "validation failed:")
				for _, f := range vErr.Failures {
					fmt.Fprintf(os.Stderr, "  - %s\n", f)
				}
				fmt.Fprintf(os.Stderr, "\noffending response:\n%s\n", vErr.Raw)
			}
			return err
		}

		if cli.GetOutputFormat() == cli.OutputFormatMarkdown {
			return render.NewMarkdown(os.Stdout).Render(result.Value)
		}

		// Round-trip through JSON so yaml/json output shows the plain
		// value shape rather than internal structure.
		data, err := json.Marshal(result.Value)
		if err != nil {
			return err
		}
		var plain any
		if err := json.Unmarshal(data, &plain); err != nil {
			return err
		}
		return cli.Output(plain)
	},
}

func init() {
	extractCmd.Flags().StringVar(&schemaName, "schema", "", "schema name (default from config)")
	extractCmd.Flags().StringVar(&extractProvider, "provider", "", "generation provider (default from config)")
	extractCmd.Flags().StringVar(&extractModel, "model", "", "override the provider's model")

	rootCmd.AddCommand(extractCmd)
}
