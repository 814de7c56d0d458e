// Package cli provides the command-line interface for satchel.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/satchel-dev/satchel/internal/sre"
	"github.com/satchel-dev/satchel/internal/tui"
)

// KeygenFlags holds flags specific to the keygen command.
type KeygenFlags struct {
	// OutDir is the directory the key pair is written into.
	OutDir string
}

// Key file names produced by keygen.
const (
	privateKeyFileName = "issuer_private.pem"
	publicKeyFileName  = "issuer_public.pem"
)

// AddKeygenCommand adds the keygen command to the root command.
func AddKeygenCommand(root *cobra.Command) {
	root.AddCommand(newKeygenCmd())
}

func newKeygenCmd() *cobra.Command {
	flags := &KeygenFlags{}

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an Ed25519 issuer key pair",
		Long: `Generate an Ed25519 key pair for envelope signing. The private key is
written as PKCS#8 PEM, the public key as SPKI PEM. Existing key files are
never overwritten.

This is an issuer-side tool for local testing of the full flow.

Examples:
  satchel keygen --out-dir keys`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKeygen(cmd, os.Stdout, flags)
		},
	}

	cmd.Flags().StringVar(&flags.OutDir, "out-dir", "keys", "output directory for the key pair")

	return cmd
}

func runKeygen(cmd *cobra.Command, w io.Writer, flags *KeygenFlags) error {
	logger := GetLogger()
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	privatePath := filepath.Join(flags.OutDir, privateKeyFileName)
	publicPath := filepath.Join(flags.OutDir, publicKeyFileName)
	for _, path := range []string{privatePath, publicPath} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite existing key file: %s", path)
		}
	}

	pub, priv, err := sre.GenerateKeyPair()
	if err != nil {
		return err
	}

	privatePEM, err := sre.MarshalPrivateKeyPEM(priv)
	if err != nil {
		return err
	}
	publicPEM, err := sre.MarshalPublicKeyPEM(pub)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(flags.OutDir, 0o750); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(privatePath, privatePEM, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(publicPath, publicPEM, 0o644); err != nil { //#nosec G306 -- public key is not a secret
		return fmt.Errorf("failed to write public key: %w", err)
	}

	logger.Info().Str("dir", flags.OutDir).Msg("key pair generated")

	if outputFormat == tui.FormatJSON {
		return out.JSON(map[string]string{
			"private_key": privatePath,
			"public_key":  publicPath,
		})
	}

	out.Panel(fmt.Sprintf("Key pair generated\nPrivate: %s\nPublic:  %s", privatePath, publicPath))
	return nil
}
