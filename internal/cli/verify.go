// Package cli provides the command-line interface for satchel.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/satchel-dev/satchel/internal/tui"
)

// VerifyFlags holds flags specific to the verify command.
type VerifyFlags struct {
	// Mode overrides verify.mode from config.
	Mode string
	// KeyPath overrides verify.public_key_path from config.
	KeyPath string
}

// AddVerifyCommand adds the verify command to the root command.
func AddVerifyCommand(root *cobra.Command) {
	root.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	flags := &VerifyFlags{}

	cmd := &cobra.Command{
		Use:   "verify <envelope.json>",
		Short: "Verify a signed request envelope without storing it",
		Long: `Check the issuer signature on a signed request envelope and report
the outcome. Unlike accept, nothing is written to disk.

Examples:
  satchel verify sre.json
  cat sre.json | satchel verify -
  satchel verify sre.json --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), cmd, os.Stdout, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.Mode, "mode", "", "verification mode (ed25519|stub)")
	cmd.Flags().StringVar(&flags.KeyPath, "key-path", "", "path to the issuer public key (PEM)")

	return cmd
}

func runVerify(ctx context.Context, cmd *cobra.Command, w io.Writer, path string, flags *VerifyFlags) error {
	logger := GetLogger()
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	cfg := loadConfigOrDefaults(ctx)
	verifier, err := buildVerifier(cfg, flags.Mode, flags.KeyPath)
	if err != nil {
		return err
	}

	raw, err := readEnvelope(path)
	if err != nil {
		return err
	}

	res := verifier.Verify(raw)
	logger.Info().
		Bool("ok", res.OK).
		Str("reason", res.Reason).
		Str("mode", verifier.Mode().String()).
		Msg("envelope verified")

	if outputFormat == tui.FormatJSON {
		if err := out.JSON(res); err != nil {
			return err
		}
		if !res.OK {
			return fmt.Errorf("envelope verification failed: %s", res.Reason)
		}
		return nil
	}

	if !res.OK {
		return fmt.Errorf("envelope verification failed: %s", res.Reason)
	}
	out.Success(fmt.Sprintf("Envelope verified: %s", res.Reason))
	return nil
}
