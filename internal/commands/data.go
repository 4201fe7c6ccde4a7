package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/resale-dev/resale/internal/store"
)

func newDataCommand(opts *rootOptions) *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Back up and restore purchases and items",
	}
	dataCmd.AddCommand(
		newDataExportCommand(opts),
		newDataImportCommand(opts),
	)
	return dataCmd
}

func newDataExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all purchases and items as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runDataExport(cmd, opts, path)
		},
	}
}

func runDataExport(cmd *cobra.Command, opts *rootOptions, path string) error {
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	snap, err := p.store.Export()
	if err != nil {
		return err
	}

	if path == "" || path == "-" {
		return store.WriteJSON(cmd.OutOrStdout(), snap)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := store.WriteJSON(f, snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d purchases and %d items to %s\n", len(snap.Purchases), len(snap.Items), path)
	return nil
}

func newDataImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace purchases and items from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDataImport(cmd, opts, args[0])
		},
	}
}

func runDataImport(cmd *cobra.Command, opts *rootOptions, path string) error {
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	snap, err := store.ReadJSON(r)
	if err != nil {
		return err
	}
	if err := p.store.Import(snap); err != nil {
		return fmt.Errorf("importing data: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d purchases and %d items\n", len(snap.Purchases), len(snap.Items))
	return p.commit(cmd.Context(), "data: import")
}
