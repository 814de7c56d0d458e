// Package cli provides the command-line interface for satchel.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/satchel-dev/satchel/internal/config"
	"github.com/satchel-dev/satchel/internal/github"
	"github.com/satchel-dev/satchel/internal/tui"
)

// DeployFlags holds flags specific to the deploy command.
type DeployFlags struct {
	// User overrides github.user from config.
	User string
	// Repo overrides github.repo from config.
	Repo string
	// Branch overrides github.branch from config.
	Branch string
	// CName overrides github.cname from config.
	CName string
}

// AddDeployCommand adds the deploy command to the root command.
func AddDeployCommand(root *cobra.Command) {
	root.AddCommand(newDeployCmd())
}

func newDeployCmd() *cobra.Command {
	flags := &DeployFlags{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create the GitHub repo, push, and enable Pages",
		Long: `Run the full deployment flow: create the repository under the
configured GitHub account if missing, ensure git identity, branch and
remote, make the initial commit, push, and enable GitHub Pages.

The API token is read from the environment variable named by
github.token_env (GITHUB_TOKEN by default) and is never stored.

Examples:
  satchel deploy
  satchel deploy --user alice --repo webapp-submission
  satchel deploy --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeploy(cmd.Context(), cmd, os.Stdout, flags)
		},
	}

	cmd.Flags().StringVar(&flags.User, "user", "", "GitHub account owning the repository")
	cmd.Flags().StringVar(&flags.Repo, "repo", "", "repository name")
	cmd.Flags().StringVar(&flags.Branch, "branch", "", "branch published to Pages")
	cmd.Flags().StringVar(&flags.CName, "cname", "", "custom domain for Pages")

	return cmd
}

func runDeploy(ctx context.Context, cmd *cobra.Command, w io.Writer, flags *DeployFlags) error {
	logger := GetLogger()
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	overrides := &config.Config{}
	overrides.GitHub.User = flags.User
	overrides.GitHub.Repo = flags.Repo
	overrides.GitHub.Branch = flags.Branch
	overrides.GitHub.CName = flags.CName

	cfg, err := config.LoadWithOverrides(ctx, overrides)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	deployer, err := github.NewDeployer(cwd, cfg.GitHub)
	if err != nil {
		return err
	}

	out.Info(fmt.Sprintf("Deploying %s/%s on branch %s", cfg.GitHub.User, cfg.GitHub.Repo, cfg.GitHub.Branch))

	deployCtx := logger.WithContext(ctx)
	res, err := deployer.BootstrapAndDeploy(deployCtx)
	if err != nil {
		return err
	}

	if outputFormat == tui.FormatJSON {
		return out.JSON(res)
	}

	out.Panel(fmt.Sprintf("Deployed\nSHA:   %s\nPages: %s", res.SHA, res.PagesURL))
	return nil
}
