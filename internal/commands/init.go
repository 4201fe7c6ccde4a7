package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/resale-dev/resale/internal/config"
	"github.com/resale-dev/resale/internal/gitops"
	"github.com/resale-dev/resale/internal/store"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var shop string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new resale project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.repo
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, shop, noGit)
		},
	}

	cmd.Flags().StringVar(&shop, "shop", "", "shop name (required)")
	_ = cmd.MarkFlagRequired("shop")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(cmd *cobra.Command, dir, shop string, noGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}
	if !noGit && !gitops.Available() {
		return errors.New("git not found on PATH (use --no-git to skip it)")
	}

	cfg := config.Default(shop)
	if noGit {
		cfg.Git.AutoCommit = false
	}

	dirs := []string{
		store.DataDir,
		cfg.Import.InboxDir,
		filepath.Join(cfg.Import.InboxDir, "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	if err := store.NewService(dir).Init(); err != nil {
		return fmt.Errorf("writing data files: %w", err)
	}

	gitignore := "*.tmp\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, cfg.Import.InboxDir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	out := cmd.OutOrStdout()
	if noGit {
		fmt.Fprintf(out, "Initialized resale project at %s\n", dir)
		return nil
	}

	ctx := cmd.Context()
	repo := gitops.Repo{Dir: dir, AuthorName: cfg.Git.AuthorName, AuthorEmail: cfg.Git.AuthorEmail}
	if !repo.IsRepo() {
		if err := repo.Init(ctx); err != nil {
			return err
		}
	}

	hash, err := repo.CommitAll(ctx, "init: Initialize "+shop)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized resale project at %s (%s)\n", dir, hash)
	return nil
}
