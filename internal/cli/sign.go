// Package cli provides the command-line interface for satchel.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/satchel-dev/satchel/internal/sre"
	"github.com/satchel-dev/satchel/internal/tui"
)

// SignFlags holds flags specific to the sign command.
type SignFlags struct {
	// Key is the path to the issuer private key (PKCS#8 PEM).
	Key string
	// Out is the output path for the signed envelope ("" for stdout).
	Out string
}

// AddSignCommand adds the sign command to the root command.
func AddSignCommand(root *cobra.Command) {
	root.AddCommand(newSignCmd())
}

func newSignCmd() *cobra.Command {
	flags := &SignFlags{}

	cmd := &cobra.Command{
		Use:   "sign <envelope.json>",
		Short: "Sign an envelope with an Ed25519 private key",
		Long: `Sign an envelope payload: compute the canonical bytes of the document
(excluding any signature field), sign them with the issuer private key,
and emit the document with the signature field set.

This is an issuer-side tool for local testing of the full flow.

Examples:
  satchel sign payload.json --key keys/issuer_private.pem
  satchel sign payload.json --key keys/issuer_private.pem --out sre.json
  cat payload.json | satchel sign - --key keys/issuer_private.pem`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSign(cmd, os.Stdout, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.Key, "key", "", "path to the issuer private key (PKCS#8 PEM)")
	cmd.Flags().StringVar(&flags.Out, "out", "", "output path for the signed envelope (default stdout)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func runSign(cmd *cobra.Command, w io.Writer, path string, flags *SignFlags) error {
	logger := GetLogger()
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	raw, err := readEnvelope(path)
	if err != nil {
		return err
	}

	priv, err := sre.LoadPrivateKey(flags.Key)
	if err != nil {
		return err
	}

	sig, err := sre.SignEnvelope(raw, priv)
	if err != nil {
		return err
	}
	raw[sre.FieldSignature] = sig

	signed, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode signed envelope: %w", err)
	}
	signed = append(signed, '\n')

	if flags.Out == "" {
		_, err = w.Write(signed)
		return err
	}

	if err := os.WriteFile(flags.Out, signed, 0o600); err != nil {
		return fmt.Errorf("failed to write signed envelope: %w", err)
	}

	logger.Info().Str("out", flags.Out).Msg("envelope signed")
	if outputFormat == tui.FormatJSON {
		return out.JSON(map[string]string{"saved": flags.Out})
	}
	out.Success(fmt.Sprintf("Signed envelope written to %s", flags.Out))
	return nil
}
