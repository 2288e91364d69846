package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"keyprobe/internal/archive"
	"keyprobe/internal/config"
	"keyprobe/internal/services"
)

func newLocateCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "locate <archive>",
		Short: "Print the single archive entry whose name ends with --name",
		Long: `Scan a zip-based archive (IPA, APK, JAR) for the one entry whose name ends
with --name and print its stored path. A name without "/" is compared to the
entry base name; a name with "/" is compared to the end of the full path.

Two matching entries are reported as ambiguous. No entry is extracted.`,
		Args: requireArgs(1, 1, "keyprobe locate <archive> [--name NAME]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := strings.TrimSpace(name)
			if target == "" {
				target = cfg.Inspect.ProvisionName
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return services.Wrap(services.ErrValidation, "locate", "path", "", err)
			}

			entry, found, err := archive.LocateEntry(path, target)
			if err != nil {
				return err
			}
			if !found {
				return services.Wrap(services.ErrNotFound, "locate", "",
					fmt.Sprintf("no entry ending with %q in %s", target, path), nil)
			}
			fmt.Fprintln(cmd.OutOrStdout(), entry)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Entry name suffix (default inspect.provision_name)")
	return cmd
}
