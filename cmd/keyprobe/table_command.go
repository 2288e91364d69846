package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"keyprobe/internal/fingerprint"
	"keyprobe/internal/registry"
	"keyprobe/internal/services"
)

func newTableCommand(ctx *commandContext) *cobra.Command {
	var algorithm string
	var all bool
	var format string

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Show recorded fingerprints",
		Long: `Show the fingerprint code table recorded with "keyprobe hash --record".

Formats:
  table   bordered table
  c       C initializer rows: { 0xPRIMARY, 0xSECONDARY }, // text
  json    entries as a JSON array`,
		Args: requireArgs(0, 0, "keyprobe table [--algorithm A | --all] [--format table|c|json]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format, "table", "c", "json")
			if err != nil {
				return err
			}
			namespace := ""
			if !all {
				gen, err := ctx.generator(algorithm, "")
				if err != nil {
					return err
				}
				namespace = gen.Algorithm()
			}

			opCtx := operationContext(cmd, "table")
			return ctx.withRegistry(opCtx, func(store *registry.Store) error {
				entries, err := store.List(opCtx, namespace)
				if err != nil {
					return err
				}
				return printEntries(cmd, entries, outFormat)
			})
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Algorithm namespace (default fingerprint.algorithm)")
	cmd.Flags().BoolVar(&all, "all", false, "Show every algorithm namespace")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, c or json")

	cmd.AddCommand(newTableRemoveCommand(ctx))
	return cmd
}

func newTableRemoveCommand(ctx *commandContext) *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:     "rm <text>",
		Aliases: []string{"remove"},
		Short:   "Remove a recorded fingerprint",
		Args:    requireArgs(1, 1, "keyprobe table rm <text> [--algorithm A]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := ctx.generator(algorithm, "")
			if err != nil {
				return err
			}
			opCtx := operationContext(cmd, "table-rm")
			return ctx.withRegistry(opCtx, func(store *registry.Store) error {
				removed, err := store.Remove(opCtx, gen.Algorithm(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					return services.Wrap(services.ErrNotFound, "registry", "remove",
						fmt.Sprintf("%q is not recorded under %s", args[0], gen.Algorithm()), nil)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from %s\n", args[0], gen.Algorithm())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Algorithm namespace (default fingerprint.algorithm)")
	return cmd
}

func printEntries(cmd *cobra.Command, entries []registry.Entry, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		if entries == nil {
			entries = []registry.Entry{}
		}
		return writeJSON(cmd, entries)
	case "c":
		for _, entry := range entries {
			fmt.Fprintln(out, fingerprint.CLiteral(entry.Fingerprint(), entry.Text))
		}
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No fingerprints recorded")
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(entry.ID, 10),
			entry.Algorithm,
			entry.Form,
			fmt.Sprintf("0x%x", entry.Primary),
			fmt.Sprintf("0x%x", entry.Secondary),
			fmt.Sprintf("0x%016x", entry.Unique64),
			entry.Text,
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"ID", "Algorithm", "Form", "Primary", "Secondary", "Unique64", "Text"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "Total: %d\n", len(entries))
	return nil
}
