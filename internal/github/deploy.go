// Package github provides repository bootstrap and Pages deployment for Satchel.
// This file implements the one-shot bootstrap-and-deploy flow.
package github

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/satchel-dev/satchel/internal/config"
	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
)

// DeployResult is the outcome of a bootstrap-and-deploy run. Its fields
// match the payload the evaluator expects.
type DeployResult struct {
	SHA      string `json:"sha"`
	PagesURL string `json:"pages_url"`
}

// Deployer wires the API client and the git runner into the deploy flow.
type Deployer struct {
	client *Client
	git    *GitRunner
	cfg    config.GitHubConfig
	token  string
	root   string
}

// NewDeployer creates a Deployer for the project at root.
// The token is read from the environment variable named by cfg.TokenEnv.
func NewDeployer(root string, cfg config.GitHubConfig, opts ...ClientOption) (*Deployer, error) {
	token := os.Getenv(cfg.TokenEnv)

	var missing []string
	if token == "" {
		missing = append(missing, cfg.TokenEnv)
	}
	if cfg.User == "" {
		missing = append(missing, "github.user")
	}
	if cfg.Repo == "" {
		missing = append(missing, "github.repo")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required values %v: %w", missing, satchelerrors.ErrGitHubConfig)
	}

	return &Deployer{
		client: NewClient(token, opts...),
		git:    NewGitRunner(root),
		cfg:    cfg,
		token:  token,
		root:   root,
	}, nil
}

// BootstrapAndDeploy runs the full deploy flow:
// create the repo if missing, ensure git identity, branch and remote,
// make the initial commit, push, and enable GitHub Pages.
func (d *Deployer) BootstrapAndDeploy(ctx context.Context) (*DeployResult, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("component", "github").
		Str("repo", d.cfg.User+"/"+d.cfg.Repo).
		Str("branch", d.cfg.Branch).
		Logger()

	logger.Info().Msg("starting bootstrap and deploy")

	if err := d.git.EnsureIdentity(ctx); err != nil {
		return nil, err
	}

	if _, err := d.client.CreateRepoIfMissing(ctx, d.cfg.User, d.cfg.Repo); err != nil {
		return nil, err
	}
	logger.Debug().Msg("repository present")

	if err := d.git.EnsureBranch(ctx, d.cfg.Branch); err != nil {
		return nil, err
	}
	if err := d.git.EnsureRemote(ctx, d.cfg.Remote, d.cfg.User, d.cfg.Repo, d.token); err != nil {
		return nil, err
	}
	if err := d.git.InitialCommitIfNeeded(ctx, "chore: initial commit"); err != nil {
		return nil, err
	}
	if err := d.writeCNAME(); err != nil {
		return nil, err
	}
	if err := d.git.Push(ctx, d.cfg.Remote, d.cfg.Branch); err != nil {
		return nil, err
	}
	logger.Debug().Msg("pushed branch")

	if _, err := d.client.EnablePages(ctx, d.cfg.User, d.cfg.Repo, d.cfg.Branch, d.cfg.PagesBuildDir); err != nil {
		return nil, err
	}

	sha, err := d.git.HeadSHA(ctx)
	if err != nil {
		return nil, err
	}

	res := &DeployResult{
		SHA:      sha,
		PagesURL: PagesURL(d.cfg.User, d.cfg.Repo, d.cfg.CName),
	}
	logger.Info().Str("sha", res.SHA).Str("pages_url", res.PagesURL).Msg("deploy complete")
	return res, nil
}

// writeCNAME writes the custom domain file into the Pages build dir.
// Nothing is written when no custom domain is configured.
func (d *Deployer) writeCNAME() error {
	if d.cfg.CName == "" {
		return nil
	}

	dir := filepath.Join(d.root, d.cfg.PagesBuildDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create pages build dir: %w", err)
	}
	path := filepath.Join(dir, "CNAME")
	if err := os.WriteFile(path, []byte(d.cfg.CName+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write CNAME: %w", err)
	}
	return nil
}
