package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"keyprobe/internal/logging"
	"keyprobe/internal/services"
	"keyprobe/internal/staging"
)

func newStagingCommand(ctx *commandContext) *cobra.Command {
	stagingCmd := &cobra.Command{
		Use:   "staging",
		Short: "Manage the staging area used for extracted archive members",
	}

	stagingCmd.AddCommand(newStagingListCommand(ctx))
	stagingCmd.AddCommand(newStagingCleanCommand(ctx))

	return stagingCmd
}

func newStagingListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staging workspaces",
		Args:  requireArgs(0, 0, "keyprobe staging list [--json]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stagingDir := cfg.Paths.StagingDir

			dirs, err := staging.ListDirectories(stagingDir)
			if err != nil {
				return fmt.Errorf("list staging directories: %w", err)
			}
			var totalSize int64
			for _, dir := range dirs {
				totalSize += dir.Size
			}

			if jsonOutput {
				if dirs == nil {
					dirs = []staging.DirInfo{}
				}
				return writeJSON(cmd, map[string]any{
					"staging_dir":      stagingDir,
					"directories":      dirs,
					"total_size_bytes": totalSize,
				})
			}

			out := cmd.OutOrStdout()
			if len(dirs) == 0 {
				fmt.Fprintln(out, "No staging workspaces found")
				return nil
			}

			fmt.Fprintf(out, "Staging directory: %s\n\n", stagingDir)
			rows := make([][]string, 0, len(dirs))
			for _, dir := range dirs {
				age := time.Since(dir.ModTime).Truncate(time.Minute)
				rows = append(rows, []string{dir.Name, formatDuration(age), logging.FormatBytes(dir.Size)})
			}
			fmt.Fprint(out, renderTable(
				[]string{"Workspace", "Age", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(out, "\nTotal: %d workspaces, %s\n", len(dirs), logging.FormatBytes(totalSize))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON")
	return cmd
}

func newStagingCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale staging workspaces",
		Long: `Remove staging workspaces older than --max-age (default staging.max_age_hours).

Workspaces are normally removed when their operation finishes; leftovers come
from interrupted runs. Cleaning refuses to run while another keyprobe process
holds a workspace. --max-age 0 removes every workspace.`,
		Args: requireArgs(0, 0, "keyprobe staging clean [--max-age DURATION]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}

			age := cfg.StagingMaxAge()
			if cmd.Flags().Changed("max-age") {
				if maxAge < 0 {
					return services.Wrap(services.ErrValidation, "staging", "clean", "--max-age must not be negative", nil)
				}
				age = maxAge
			}

			opCtx := operationContext(cmd, "staging-clean")
			result, err := staging.CleanStale(opCtx, cfg.Paths.StagingDir, age, logging.WithContext(opCtx, logger))
			if errors.Is(err, staging.ErrBusy) {
				return fmt.Errorf("staging area %s is in use by another keyprobe process: %w", cfg.Paths.StagingDir, err)
			}
			if err != nil {
				return err
			}
			return printStagingCleanResult(cmd, result)
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Remove workspaces older than this (e.g. 2h)")
	return cmd
}

func printStagingCleanResult(cmd *cobra.Command, result staging.CleanStaleResult) error {
	out := cmd.OutOrStdout()
	if len(result.Removed) == 0 && len(result.Errors) == 0 {
		fmt.Fprintln(out, "No stale workspaces to clean")
		return nil
	}
	fmt.Fprintf(out, "Removed %d workspaces", len(result.Removed))
	if len(result.Errors) == 0 {
		fmt.Fprintln(out)
		return nil
	}
	fmt.Fprintf(out, ", %d errors\n", len(result.Errors))
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  Error: %s: %v\n", e.Path, e.Error)
	}
	return fmt.Errorf("staging cleanup left %d workspaces behind", len(result.Errors))
}

func formatDuration(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
