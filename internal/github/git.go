// Package github provides repository bootstrap and Pages deployment for Satchel.
// This file provides the git CLI operations used during bootstrap.
package github

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
	"github.com/satchel-dev/satchel/internal/logging"
)

// GitRunner executes git commands in a fixed working directory.
type GitRunner struct {
	workDir string
}

// NewGitRunner creates a GitRunner for the given working directory.
func NewGitRunner(workDir string) *GitRunner {
	return &GitRunner{workDir: workDir}
}

// run executes a git command and returns its trimmed output.
// Stderr is redacted before it reaches an error message because remote
// URLs may embed the API token.
func (r *GitRunner) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //#nosec G204 -- args are constructed internally, not user input
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if stderr.Len() > 0 {
			msg := logging.Redact(strings.TrimSpace(stderr.String()))
			return "", fmt.Errorf("git %s failed: %s: %w", args[0], msg, satchelerrors.ErrGitOperation)
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], satchelerrors.ErrGitOperation)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// EnsureIdentity sets a fallback git identity when none is configured.
// Commits fail outright without user.email and user.name.
func (r *GitRunner) EnsureIdentity(ctx context.Context) error {
	if _, err := r.run(ctx, "config", "--get", "user.email"); err != nil {
		if _, err := r.run(ctx, "config", "user.email", "student@example.com"); err != nil {
			return err
		}
		if _, err := r.run(ctx, "config", "user.name", "Satchel"); err != nil {
			return err
		}
	}
	return nil
}

// EnsureBranch checks out branch, creating it when it does not exist.
func (r *GitRunner) EnsureBranch(ctx context.Context, branch string) error {
	if _, err := r.run(ctx, "rev-parse", "--verify", branch); err == nil {
		_, err = r.run(ctx, "checkout", branch)
		return err
	}
	_, err := r.run(ctx, "checkout", "-b", branch)
	return err
}

// EnsureRemote points the named remote at the token-authenticated
// repository URL, adding the remote when it does not exist yet.
func (r *GitRunner) EnsureRemote(ctx context.Context, remote, owner, repo, token string) error {
	url := fmt.Sprintf("https://%s:%s@github.com/%s/%s.git", owner, token, owner, repo)
	if _, err := r.run(ctx, "remote", "set-url", remote, url); err != nil {
		_, err = r.run(ctx, "remote", "add", remote, url)
		return err
	}
	return nil
}

// InitialCommitIfNeeded creates the first commit when the repository has
// no HEAD yet. Nothing happens when a commit already exists.
func (r *GitRunner) InitialCommitIfNeeded(ctx context.Context, message string) error {
	if _, err := r.run(ctx, "rev-parse", "--verify", "HEAD"); err == nil {
		return nil
	}
	if _, err := r.run(ctx, "add", "-A"); err != nil {
		return err
	}
	_, err := r.run(ctx, "commit", "-m", message)
	return err
}

// Push pushes branch to remote with upstream tracking.
func (r *GitRunner) Push(ctx context.Context, remote, branch string) error {
	_, err := r.run(ctx, "push", "-u", remote, branch)
	return err
}

// HeadSHA returns the commit hash of HEAD.
func (r *GitRunner) HeadSHA(ctx context.Context) (string, error) {
	return r.run(ctx, "rev-parse", "HEAD")
}
