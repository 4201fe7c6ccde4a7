package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/resale-dev/resale/internal/config"
	"github.com/resale-dev/resale/internal/gitops"
	"github.com/resale-dev/resale/internal/logger"
	"github.com/resale-dev/resale/internal/store"
)

// project is an initialized resale directory opened for a command.
type project struct {
	root  string
	cfg   *config.Config
	store *store.Service
	git   gitops.Repo
}

// openProject loads resale.yaml from the --repo directory. When --log-level
// was not given, the command's logger is rebuilt at the configured level.
func openProject(cmd *cobra.Command, opts *rootOptions) (*project, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s is not a resale project (run resale init): %w", root, err)
	}
	if err != nil {
		return nil, err
	}

	if opts.logLevel == "" && cfg.Log.Level != "" {
		log, err := logger.New(cfg.Log.Level, cmd.ErrOrStderr())
		if err != nil {
			return nil, fmt.Errorf("config log.level: %w", err)
		}
		cmd.SetContext(logger.WithContext(cmd.Context(), log))
	}

	return &project{
		root:  root,
		cfg:   cfg,
		store: store.NewService(root),
		git: gitops.Repo{
			Dir:         root,
			AuthorName:  cfg.Git.AuthorName,
			AuthorEmail: cfg.Git.AuthorEmail,
		},
	}, nil
}

// commit records the project's changes when auto-commit is on and the
// project is a git repository.
func (p *project) commit(ctx context.Context, message string) error {
	log := logger.FromContext(ctx)
	if !p.cfg.Git.AutoCommit || !p.git.IsRepo() {
		log.Debug().Msg("auto-commit skipped")
		return nil
	}

	hash, err := p.git.CommitAll(ctx, message)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("committing changes: %w", err)
	}
	log.Info().Str("commit", hash).Msg(message)
	return nil
}
