package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"keyprobe/internal/deps"
	"keyprobe/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the toolchain and directories keyprobe needs",
		Args:  requireArgs(0, 0, "keyprobe doctor"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := preflight.CheckSystemDeps(cfg)
			checks := preflight.RunAll(operationContext(cmd, "doctor"), cfg)

			rows, problems := doctorRows(statuses, checks, colorize)
			fmt.Fprint(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			if problems > 0 {
				return fmt.Errorf("doctor found %d problem(s)", problems)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}

// doctorRows renders dependency statuses followed by preflight results and
// counts the failures that make keyprobe unusable. Missing optional tools
// only warn.
func doctorRows(statuses []deps.Status, checks []preflight.Result, colorize bool) ([][]string, int) {
	rows := make([][]string, 0, len(statuses)+len(checks))
	problems := 0
	for _, status := range statuses {
		kind := statusOK
		detail := fmt.Sprintf("%s (%s)", status.Description, status.Path)
		if !status.Available {
			detail = status.Detail
			if status.Optional {
				kind = statusWarn
			} else {
				kind = statusError
				problems++
			}
		}
		rows = append(rows, []string{status.Name, renderStatus(kind, colorize), detail})
	}
	for _, check := range checks {
		kind := statusOK
		if !check.Passed {
			kind = statusError
			problems++
		}
		rows = append(rows, []string{check.Name, renderStatus(kind, colorize), check.Detail})
	}
	return rows, problems
}
