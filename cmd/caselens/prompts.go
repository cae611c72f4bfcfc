package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/caselens/caselens/internal/prompts"
)

var promptFile string

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Inspect and override extraction prompts",
}

var promptsShowCmd = &cobra.Command{
	Use:   "show <system|user>",
	Short: "Print the effective prompt text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		switch args[0] {
		case "system":
			fmt.Print(a.Prompts.System())
		case "user":
			fmt.Print(a.Prompts.UserTemplate())
		default:
			return fmt.Errorf("unknown prompt %q (want system or user)", args[0])
		}
		return nil
	},
}

var promptsSetCmd = &cobra.Command{
	Use:   "set <system|user>",
	Short: "Save a prompt override from a file or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		var text []byte
		if promptFile != "" {
			text, err = os.ReadFile(promptFile)
		} else {
			text, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("failed to read prompt text: %w", err)
		}

		switch args[0] {
		case "system":
			return a.Prompts.SaveSystem(string(text))
		case "user":
			return a.Prompts.SaveUserTemplate(string(text))
		default:
			return fmt.Errorf("unknown prompt %q (want system or user)", args[0])
		}
	},
}

var promptsResetCmd = &cobra.Command{
	Use:   "reset <system|user>",
	Short: "Remove a prompt override, restoring the default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		var name string
		switch args[0] {
		case "system":
			name = prompts.SystemFileName
		case "user":
			name = prompts.UserFileName
		default:
			return fmt.Errorf("unknown prompt %q (want system or user)", args[0])
		}

		path := filepath.Join(a.Home.PromptsPath(), name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	},
}

func init() {
	promptsSetCmd.Flags().StringVar(&promptFile, "file", "", "read the prompt from a file instead of stdin")

	promptsCmd.AddCommand(promptsShowCmd)
	promptsCmd.AddCommand(promptsSetCmd)
	promptsCmd.AddCommand(promptsResetCmd)
	rootCmd.AddCommand(promptsCmd)
}
