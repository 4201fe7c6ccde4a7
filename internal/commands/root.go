package commands

import (
	"github.com/spf13/cobra"

	"github.com/resale-dev/resale/internal/buildinfo"
	"github.com/resale-dev/resale/internal/logger"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	repo     string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "resale",
		Short:   "Inventory and profit tracking for resellers",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(opts.logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default from resale.yaml)")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newInvoiceCommand(opts),
		newPurchaseCommand(opts),
		newItemCommand(opts),
		newDataCommand(opts),
	)

	return rootCmd
}
