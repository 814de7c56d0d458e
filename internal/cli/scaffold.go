// Package cli provides the command-line interface for satchel.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satchel-dev/satchel/internal/scaffold"
	"github.com/satchel-dev/satchel/internal/tui"
)

// ScaffoldFlags holds flags specific to the scaffold command.
type ScaffoldFlags struct {
	// Holder is the copyright holder for the generated LICENSE.
	Holder string
}

// AddScaffoldCommand adds the scaffold command to the root command.
func AddScaffoldCommand(root *cobra.Command) {
	root.AddCommand(newScaffoldCmd())
}

func newScaffoldCmd() *cobra.Command {
	flags := &ScaffoldFlags{}

	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Create the submission repo layout (LICENSE, Makefile, sample app)",
		Long: `Create the initial repository layout: an MIT license, a Makefile,
a .gitignore, and a tiny web page under app/ that GitHub Pages can serve.
Existing files are never overwritten.

Examples:
  satchel scaffold
  satchel scaffold --holder "Ada Lovelace"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScaffold(cmd.Context(), cmd, os.Stdout, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Holder, "holder", "", "copyright holder for the LICENSE file")

	return cmd
}

func runScaffold(ctx context.Context, cmd *cobra.Command, w io.Writer, flags *ScaffoldFlags) error {
	logger := GetLogger()
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	res, err := scaffold.Apply(ctx, cwd, scaffold.Options{LicenseHolder: flags.Holder})
	if err != nil {
		return err
	}

	logger.Info().
		Strs("created", res.Created).
		Strs("skipped", res.Skipped).
		Msg("scaffold applied")

	if outputFormat == tui.FormatJSON {
		return out.JSON(res)
	}

	if len(res.Created) == 0 {
		out.Info("Scaffold already complete, nothing to create")
		return nil
	}
	out.Panel(fmt.Sprintf("Scaffold complete - created %s", strings.Join(res.Created, ", ")))
	return nil
}
