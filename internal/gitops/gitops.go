// Package gitops runs the git commands that version a resale project.
package gitops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned by CommitAll when the working tree is clean.
var ErrNothingToCommit = errors.New("nothing to commit")

// Repo is a git working tree committed to under a fixed author.
type Repo struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Available reports whether the git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Init initializes a new git repository in r.Dir.
func (r Repo) Init(ctx context.Context) error {
	if out, err := r.git(ctx, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// CommitAll stages all files and creates a commit. Returns the short commit
// hash, or ErrNothingToCommit when there are no changes.
func (r Repo) CommitAll(ctx context.Context, message string) (string, error) {
	if out, err := r.git(ctx, "add", "-A"); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	status, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return "", fmt.Errorf("git status: %s: %w", status, err)
	}
	if strings.TrimSpace(status) == "" {
		return "", ErrNothingToCommit
	}

	args := []string{"commit", "--quiet", "-m", message}
	if r.AuthorName != "" && r.AuthorEmail != "" {
		args = append(args, "--author", fmt.Sprintf("%s <%s>", r.AuthorName, r.AuthorEmail))
	}
	if out, err := r.git(ctx, args...); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := r.git(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// IsRepo reports whether r.Dir is the root of a git repository.
func (r Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

func (r Repo) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	// Commits made without a configured global identity still need a committer.
	cmd.Env = append(os.Environ(), r.committerEnv()...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func (r Repo) committerEnv() []string {
	if r.AuthorName == "" || r.AuthorEmail == "" {
		return nil
	}
	var env []string
	if os.Getenv("GIT_COMMITTER_NAME") == "" {
		env = append(env, "GIT_COMMITTER_NAME="+r.AuthorName)
	}
	if os.Getenv("GIT_COMMITTER_EMAIL") == "" {
		env = append(env, "GIT_COMMITTER_EMAIL="+r.AuthorEmail)
	}
	return env
}
