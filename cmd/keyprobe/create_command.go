package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"keyprobe/internal/config"
	"keyprobe/internal/logging"
	"keyprobe/internal/services"
	"keyprobe/internal/services/openssl"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create signing keys",
	}
	createCmd.AddCommand(newCreateRSACommand(ctx))
	return createCmd
}

func newCreateRSACommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "rsa [bits]",
		Short: "Generate an RSA key pair with openssl",
		Long: fmt.Sprintf(`Generate private_<timestamp>.pem and public_<timestamp>.pem with openssl.
bits defaults to %d and must be between %d and %d.`, openssl.DefaultBits, openssl.MinBits, openssl.MaxBits),
		Args: requireArgs(0, 1, "keyprobe create rsa [bits] [--dir DIR]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}

			var bitsArg string
			if len(args) == 1 {
				bitsArg = args[0]
			}
			bits, err := openssl.ParseBits(bitsArg)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(dir)
			if target == "" {
				if target, err = os.Getwd(); err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
			} else if target, err = config.ExpandPath(target); err != nil {
				return services.Wrap(services.ErrValidation, "create", "dir", "", err)
			}

			client, err := openssl.New(cfg.Tools.OpenSSL, cfg.Tools.TimeoutSeconds)
			if err != nil {
				return err
			}
			opCtx := operationContext(cmd, "create-rsa")
			pair, err := client.GenerateRSA(opCtx, target, bits, time.Now())
			if err != nil {
				return err
			}
			logging.WithContext(opCtx, logger).Info("rsa key pair generated",
				logging.Int("bits", pair.Bits),
				logging.String("private_key", pair.PrivateKey),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "private key: %s\n", pair.PrivateKey)
			fmt.Fprintf(out, "public key:  %s\n", pair.PublicKey)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default current directory)")
	return cmd
}
