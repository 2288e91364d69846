package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"keyprobe/internal/inspect"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var storepass string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list <file>...",
		Short: "Print certificates and provisioning data of signing artifacts",
		Long: `Print the signing material of each artifact using the matching tool:

  .apk               keytool -printcert -jarfile
  .ipa               embedded provisioning profile via security cms -D
  .mobileprovision   security cms -D
  .rsa               keytool -printcert -file
  .keystore, .jks    keytool -list -v

Artifacts are inspected concurrently up to inspect.max_parallel; output keeps
the order given on the command line.`,
		Args: requireArgs(1, -1, "keyprobe list <file>..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("storepass") {
				cfg.Inspect.KeystorePassword = storepass
			}

			inspector, err := inspect.NewFromConfig(cfg, logger)
			if err != nil {
				return err
			}

			opCtx := operationContext(cmd, "list")
			results, err := inspector.InspectAll(opCtx, args)
			if err != nil {
				return err
			}

			if jsonOutput {
				if err := writeJSON(cmd, listJSON(results)); err != nil {
					return err
				}
			} else {
				printListResults(cmd, results)
			}
			return summarizeFailures(results)
		},
	}

	cmd.Flags().StringVar(&storepass, "storepass", "", "Keystore password (overrides inspect.keystore_password)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	return cmd
}

func printListResults(cmd *cobra.Command, results []inspect.Result) {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	multi := len(results) > 1
	for i, result := range results {
		if result.Err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", result.Path, result.Err)
			continue
		}
		if multi {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "==> %s <==\n", result.Path)
		}
		if result.Entry != "" {
			fmt.Fprintf(out, "profile: %s\n", result.Entry)
		}
		if output := strings.TrimRight(result.Output, "\n"); output != "" {
			fmt.Fprintln(out, output)
		}
	}
}

type listResultJSON struct {
	Path       string `json:"path"`
	Kind       string `json:"kind,omitempty"`
	Entry      string `json:"entry,omitempty"`
	Output     string `json:"output,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func listJSON(results []inspect.Result) []listResultJSON {
	out := make([]listResultJSON, 0, len(results))
	for _, result := range results {
		item := listResultJSON{
			Path:       result.Path,
			Entry:      result.Entry,
			Output:     result.Output,
			DurationMS: result.Duration.Milliseconds(),
		}
		if result.Kind != 0 {
			item.Kind = result.Kind.String()
		}
		if result.Err != nil {
			item.Error = result.Err.Error()
		}
		out = append(out, item)
	}
	return out
}

// summarizeFailures returns nil when every inspection succeeded. Otherwise
// it wraps the first failure so its marker decides the exit status.
func summarizeFailures(results []inspect.Result) error {
	var (
		failed int
		first  error
	)
	for _, result := range results {
		if result.Err == nil {
			continue
		}
		failed++
		if first == nil {
			first = result.Err
		}
	}
	if failed == 0 {
		return nil
	}
	if len(results) == 1 {
		return first
	}
	return fmt.Errorf("%d of %d artifacts failed: %w", failed, len(results), first)
}

