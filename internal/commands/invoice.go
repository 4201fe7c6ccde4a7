package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/resale-dev/resale/internal/config"
	"github.com/resale-dev/resale/internal/id"
	"github.com/resale-dev/resale/internal/importer"
	"github.com/resale-dev/resale/internal/invoice"
	"github.com/resale-dev/resale/internal/logger"
	"github.com/resale-dev/resale/internal/model"
)

func newInvoiceCommand(opts *rootOptions) *cobra.Command {
	invoiceCmd := &cobra.Command{
		Use:   "invoice",
		Short: "Extract purchases from invoice text",
	}
	invoiceCmd.AddCommand(
		newInvoiceSampleCommand(),
		newInvoiceParseCommand(),
		newInvoiceImportCommand(opts),
	)
	return invoiceCmd
}

func newInvoiceSampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print a sample invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), invoice.Sample)
			return err
		},
	}
}

func newInvoiceParseCommand() *cobra.Command {
	var asJSON bool
	var maxBytes int64

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Extract a draft purchase without saving it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runInvoiceParse(cmd, path, maxBytes, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the draft as JSON")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", config.DefaultMaxInputBytes, "reject input larger than this")

	return cmd
}

func runInvoiceParse(cmd *cobra.Command, path string, maxBytes int64, asJSON bool) error {
	text, err := readInput(cmd, path, maxBytes)
	if err != nil {
		return err
	}

	res, err := invoice.Extract(text)
	if err != nil {
		return fmt.Errorf("extracting invoice: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if res.Items == nil {
			res.Items = []invoice.Item{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding draft: %w", err)
		}
	} else if err := printDraft(out, res); err != nil {
		return err
	}

	if len(res.Items) == 0 {
		return invoice.ErrNoItemsFound
	}
	return nil
}

func newInvoiceImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file...]",
		Short: "Extract invoices and save them as purchases",
		Long: strings.TrimSpace(`
Extract each invoice file and save it as a purchase with its items. Use - to
read an invoice from stdin.

With no files, every text file in the inbox is imported and moved to the
inbox's processed folder. Invoices without recognizable items are reported
and left in place.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoiceImport(cmd, opts, args)
		},
	}
}

type invoiceSource struct {
	label string
	path  string
	inbox bool
}

func runInvoiceImport(cmd *cobra.Command, opts *rootOptions, paths []string) error {
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	out := cmd.OutOrStdout()

	var sources []invoiceSource
	if len(paths) == 0 {
		files, err := importer.Scan(p.root, p.cfg.Import.InboxDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintln(out, "No invoices in inbox.")
			return nil
		}
		for _, f := range files {
			sources = append(sources, invoiceSource{label: f.Name, path: f.Path, inbox: true})
		}
	} else {
		for _, path := range paths {
			label := path
			if path == "-" {
				label = "stdin"
			}
			sources = append(sources, invoiceSource{label: label, path: path})
		}
	}

	var imported, failed int
	for _, src := range sources {
		purchase, items, err := importInvoice(cmd, p, src.path)
		if err != nil {
			failed++
			log.Error().Err(err).Str("file", src.label).Msg("import failed")
			continue
		}
		imported++
		log.Debug().Str("file", src.label).Str("purchase", purchase.ID).Int("items", len(items)).Msg("imported")
		fmt.Fprintf(out, "Imported %s: %s, %d items, total %s (%s)\n",
			src.label, purchase.Name, len(items), money(purchase.TotalCost), id.Short(purchase.ID))

		if src.inbox {
			if err := importer.MarkProcessed(p.root, p.cfg.Import.InboxDir, src.label); err != nil {
				failed++
				log.Error().Err(err).Str("file", src.label).Msg("imported but not moved to processed")
			}
		}
	}

	if imported > 0 {
		if err := p.commit(ctx, fmt.Sprintf("import: %d invoice(s)", imported)); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d invoices failed", failed, len(sources))
	}
	return nil
}

func importInvoice(cmd *cobra.Command, p *project, path string) (model.Purchase, []model.Item, error) {
	text, err := readInput(cmd, path, p.cfg.Import.MaxInputBytes)
	if err != nil {
		return model.Purchase{}, nil, err
	}

	res, err := invoice.Extract(text)
	if err != nil {
		return model.Purchase{}, nil, fmt.Errorf("extracting invoice: %w", err)
	}
	if len(res.Items) == 0 {
		return model.Purchase{}, nil, invoice.ErrNoItemsFound
	}

	return p.store.SaveDraft(res)
}
