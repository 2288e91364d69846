package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"keyprobe/internal/fingerprint"
	"keyprobe/internal/logging"
	"keyprobe/internal/registry"
	"keyprobe/internal/services"
)

func newHashCommand(ctx *commandContext) *cobra.Command {
	var algorithm string
	var form string
	var format string
	var record bool

	cmd := &cobra.Command{
		Use:   "hash <text>",
		Short: "Print the fingerprint and digests of a string",
		Long: fmt.Sprintf(`Print MD5 and SHA-256 digests and the 64-bit fingerprint of text.

Algorithms: %s. Forms: raw (bytes as given) or nfc (Unicode NFC first).
With --record the fingerprint is stored in the code table; recording a
different string with the same value under the same algorithm fails.`,
			strings.Join(fingerprint.Algorithms(), ", ")),
		Args: requireArgs(1, 1, "keyprobe hash <text>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format, "text", "json", "yaml")
			if err != nil {
				return err
			}
			gen, err := ctx.generator(algorithm, form)
			if err != nil {
				return err
			}
			report := gen.Report(args[0])

			if record {
				if err := recordReport(cmd, ctx, report); err != nil {
					return err
				}
			}

			switch outFormat {
			case "json":
				return writeJSON(cmd, report)
			case "yaml":
				return writeYAML(cmd, report)
			default:
				out := cmd.OutOrStdout()
				for _, line := range report.Lines() {
					fmt.Fprintln(out, line)
				}
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Fingerprint algorithm (default fingerprint.algorithm)")
	cmd.Flags().StringVar(&form, "form", "", "Byte form: raw or nfc (default fingerprint.form)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&record, "record", false, "Store the fingerprint in the code table")
	return cmd
}

func recordReport(cmd *cobra.Command, ctx *commandContext, report fingerprint.Report) error {
	logger, err := ctx.ensureLogger(cmd)
	if err != nil {
		return err
	}
	opCtx := operationContext(cmd, "hash")
	return ctx.withRegistry(opCtx, func(store *registry.Store) error {
		entry, created, err := store.Record(opCtx, report)
		switch {
		case errors.Is(err, registry.ErrCollision), errors.Is(err, registry.ErrConflict):
			return services.Wrap(services.ErrValidation, "registry", "record", "", err)
		case err != nil:
			return err
		}
		log := logging.WithContext(opCtx, logger)
		if created {
			log.Info("fingerprint recorded",
				logging.String("text", entry.Text),
				logging.String("algorithm", entry.Algorithm),
				logging.String("unique64", fmt.Sprintf("0x%x", entry.Unique64)),
			)
		} else {
			log.Info("fingerprint already recorded",
				logging.Int64("id", entry.ID),
				logging.String("algorithm", entry.Algorithm),
			)
		}
		return nil
	})
}
