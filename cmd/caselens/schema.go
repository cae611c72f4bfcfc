package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/caselens/caselens/internal/cli"
	"github.com/caselens/caselens/internal/contract"
	"github.com/caselens/caselens/internal/schema"
)

var (
	schemaName    string
	fieldName     string
	fieldKind     string
	fieldRepeated bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Edit and inspect extraction schemas",
	Long: `Edit the output schema used to drive extraction requests.

A schema is a tree of named, typed fields (text, date, number, or nested
object), each optionally repeated. Fields are addressed by the stable id
shown by 'schema show', never by position.`,
}

var schemaInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a schema seeded with the starter fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		name := resolvedSchemaName(a)
		if a.Schemas.Exists(name) {
			return fmt.Errorf("schema %q already exists at %s", name, a.Schemas.Path(name))
		}
		if err := a.Schemas.Save(name, schema.DefaultTree()); err != nil {
			return err
		}
		fmt.Printf("created schema %q\n", name)
		return nil
	},
}

var schemaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		names, err := a.Schemas.List()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var schemaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the schema tree with node ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		name, tree, err := a.loadSchema(schemaName)
		if err != nil {
			return err
		}

		fmt.Printf("schema %q (%d fields)\n\n", name, tree.Len())
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tKIND\tREPEATED")
		for path, n := range tree.Walk() {
			indent := strings.Repeat("  ", len(path)-1)
			label := n.Name
			if label == "" {
				label = "(unnamed)"
			}
			fmt.Fprintf(w, "%s\t%s%s\t%s\t%v\n", n.ID, indent, label, n.Kind, n.Repeated)
		}
		return w.Flush()
	},
}

var schemaAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a top-level field",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		name, tree, err := a.loadSchema(schemaName)
		if err != nil {
			return err
		}

		n := tree.AddRootField()
		if err := applyFieldFlags(tree, n.ID); err != nil {
			return err
		}
		if err := a.Schemas.Save(name, tree); err != nil {
			return err
		}
		fmt.Printf("added field %s\n", n.ID)
		return nil
	},
}

var schemaAddChildCmd = &cobra.Command{
	Use:   "add-child <parent-id>",
	Short: "Add a sub-field under an object field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		name, tree, err := a.loadSchema(schemaName)
		if err != nil {
			return err
		}

		n, err := tree.AddChildField(args[0])
		if err != nil {
			return err
		}
		if err := applyFieldFlags(tree, n.ID); err != nil {
			return err
		}
		if err := a.Schemas.Save(name, tree); err != nil {
			return err
		}
		fmt.Printf("added field %s\n", n.ID)
		return nil
	},
}

var schemaSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Update a field's name, kind, or repeated flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		name, tree, err := a.loadSchema(schemaName)
		if err != nil {
			return err
		}

		patch, err := patchFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := tree.UpdateField(args[0], patch); err != nil {
			return err
		}
		return a.Schemas.Save(name, tree)
	},
}

var schemaRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a field and its entire subtree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		name, tree, err := a.loadSchema(schemaName)
		if err != nil {
			return err
		}

		if err := tree.RemoveField(args[0]); err != nil {
			return err
		}
		return a.Schemas.Save(name, tree)
	},
}

var schemaCompileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Print the compiled contract as JSON Schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		name, tree, err := a.loadSchema(schemaName)
		if err != nil {
			return err
		}

		c := contract.Compile(name, tree)
		if c.Degenerate() {
			a.Logger.Warn("schema compiles to a contract with no fields; name some fields first")
		}
		return cli.Output(c.JSONSchema())
	},
}

// applyFieldFlags applies --name/--kind/--repeated to a freshly added
// node, when provided. An unknown kind is rejected by the tree before
// the schema is saved.
func applyFieldFlags(tree *schema.Tree, id string) error {
	patch := schema.Patch{}
	if fieldName != "" {
		patch.Name = &fieldName
	}
	if fieldKind != "" {
		k := schema.Kind(fieldKind)
		if !k.Valid() {
			return fmt.Errorf("unknown kind %q (want text, date, number, or object)", fieldKind)
		}
		patch.Kind = &k
	}
	if fieldRepeated {
		patch.Repeated = &fieldRepeated
	}
	return tree.UpdateField(id, patch)
}

// patchFromFlags builds a partial update from the flags the user
// actually passed.
func patchFromFlags(cmd *cobra.Command) (schema.Patch, error) {
	patch := schema.Patch{}
	if cmd.Flags().Changed("name") {
		patch.Name = &fieldName
	}
	if cmd.Flags().Changed("kind") {
		k := schema.Kind(fieldKind)
		if !k.Valid() {
			return patch, fmt.Errorf("unknown kind %q (want text, date, number, or object)", fieldKind)
		}
		patch.Kind = &k
	}
	if cmd.Flags().Changed("repeated") {
		patch.Repeated = &fieldRepeated
	}
	return patch, nil
}

func resolvedSchemaName(a *app) string {
	if schemaName != "" {
		return schemaName
	}
	return a.Config.Defaults.Schema
}

func init() {
	schemaCmd.PersistentFlags().StringVar(&schemaName, "schema", "", "schema name (default from config)")

	for _, c := range []*cobra.Command{schemaAddCmd, schemaAddChildCmd, schemaSetCmd} {
		c.Flags().StringVar(&fieldName, "name", "", "field name")
		c.Flags().StringVar(&fieldKind, "kind", "", "field kind: text, date, number, object")
		c.Flags().BoolVar(&fieldRepeated, "repeated", false, "field holds a list of values")
	}

	schemaCmd.AddCommand(schemaInitCmd)
	schemaCmd.AddCommand(schemaListCmd)
	schemaCmd.AddCommand(schemaShowCmd)
	schemaCmd.AddCommand(schemaAddCmd)
	schemaCmd.AddCommand(schemaAddChildCmd)
	schemaCmd.AddCommand(schemaSetCmd)
	schemaCmd.AddCommand(schemaRmCmd)
	schemaCmd.AddCommand(schemaCompileCmd)
	rootCmd.AddCommand(schemaCmd)
}
