package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/resale-dev/resale/internal/id"
	"github.com/resale-dev/resale/internal/inventory"
	"github.com/resale-dev/resale/internal/model"
	"github.com/resale-dev/resale/internal/store"
)

func newPurchaseCommand(opts *rootOptions) *cobra.Command {
	purchaseCmd := &cobra.Command{
		Use:   "purchase",
		Short: "Manage purchases",
	}
	purchaseCmd.AddCommand(
		newPurchaseListCommand(opts),
		newPurchaseShowCommand(opts),
		newPurchaseAddCommand(opts),
		newPurchaseEditCommand(opts),
		newPurchaseDeleteCommand(opts),
	)
	return purchaseCmd
}

func newPurchaseListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List purchases with their sales progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurchaseList(cmd, opts)
		},
	}
}

func runPurchaseList(cmd *cobra.Command, opts *rootOptions) error {
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	purchases, err := p.store.ListPurchases()
	if err != nil {
		return err
	}
	items, err := p.store.ListItems()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(purchases) == 0 {
		fmt.Fprintln(out, "No purchases.")
		return nil
	}

	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tDATE\tNAME\tITEMS\tSOLD\tTOTAL\tPROFIT\tSTATUS")
	for _, pu := range purchases {
		st := inventory.PurchaseStats(pu, items)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			id.Short(pu.ID), pu.Date, pu.Name, st.ItemCount, st.SoldCount,
			money(pu.TotalCost), money(st.Profit), st.Status)
	}
	return tw.Flush()
}

func newPurchaseShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a purchase and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurchaseShow(cmd, opts, args[0])
		},
	}
}

func runPurchaseShow(cmd *cobra.Command, opts *rootOptions, ref string) error {
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	pu, err := p.store.GetPurchase(ref)
	if err != nil {
		return err
	}
	items, err := p.store.ItemsByPurchase(pu.ID)
	if err != nil {
		return err
	}
	st := inventory.PurchaseStats(pu, items)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Purchase: %s (%s)\n", pu.Name, pu.ID)
	fmt.Fprintf(out, "Vendor:   %s\n", orDash(pu.Vendor))
	fmt.Fprintf(out, "Date:     %s\n", pu.Date)
	fmt.Fprintf(out, "Total:    %s\n", money(pu.TotalCost))
	if pu.Notes != "" {
		fmt.Fprintf(out, "Notes:    %s\n", pu.Notes)
	}
	fmt.Fprintf(out, "Status:   %s (%d sold, %d listed of %d)\n", st.Status, st.SoldCount, st.ListedCount, st.ItemCount)
	fmt.Fprintf(out, "Revenue:  %s\n", money(st.Revenue))
	fmt.Fprintf(out, "Fees:     %s\n", money(st.Fees))
	fmt.Fprintf(out, "Profit:   %s\n", money(st.Profit))

	if len(items) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	return printItems(out, items)
}

func newPurchaseDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a purchase and all of its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurchaseDelete(cmd, opts, args[0])
		},
	}
}

func runPurchaseDelete(cmd *cobra.Command, opts *rootOptions, ref string) error {
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	pu, err := p.store.GetPurchase(ref)
	if err != nil {
		return err
	}
	removed, err := p.store.DeletePurchase(pu.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted purchase %s and %d items\n", pu.Name, removed)
	return p.commit(cmd.Context(), "purchase: delete "+pu.Name)
}

// purchaseFlags are the editable purchase fields. Only flags given on the
// command line end up in the patch.
type purchaseFlags struct {
	name   string
	vendor string
	date   string
	total  string
	notes  string
}

func (f *purchaseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", `purchase name (default "<vendor> - <date>")`)
	cmd.Flags().StringVar(&f.vendor, "vendor", "", "vendor or seller")
	cmd.Flags().StringVar(&f.date, "date", "", "purchase date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.total, "total", "", "total cost")
	cmd.Flags().StringVar(&f.notes, "notes", "", "notes")
}

func (f *purchaseFlags) patch(cmd *cobra.Command) (store.PurchasePatch, error) {
	var patch store.PurchasePatch
	flags := cmd.Flags()

	if flags.Changed("name") {
		name := strings.TrimSpace(f.name)
		if name == "" {
			return patch, errors.New("name must not be empty")
		}
		patch.Name = &name
	}
	if flags.Changed("vendor") {
		patch.Vendor = ptr(strings.TrimSpace(f.vendor))
	}
	if flags.Changed("date") {
		day, err := parseDay(f.date)
		if err != nil {
			return patch, err
		}
		patch.Date = &day
	}
	if flags.Changed("total") {
		total, err := parseMoney("total", f.total)
		if err != nil {
			return patch, err
		}
		patch.TotalCost = &total
	}
	if flags.Changed("notes") {
		patch.Notes = &f.notes
	}
	return patch, nil
}

func newPurchaseAddCommand(opts *rootOptions) *cobra.Command {
	var f purchaseFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a purchase by hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurchaseAdd(cmd, opts, &f)
		},
	}
	f.register(cmd)

	return cmd
}

func runPurchaseAdd(cmd *cobra.Command, opts *rootOptions, f *purchaseFlags) error {
	patch, err := f.patch(cmd)
	if err != nil {
		return err
	}
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}

	pu := model.Purchase{TotalCost: decimal.Zero}
	patch.Apply(&pu)
	created, err := p.store.CreatePurchase(pu)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added purchase %s (%s)\n", created.Name, id.Short(created.ID))
	return p.commit(cmd.Context(), "purchase: add "+created.Name)
}

func newPurchaseEditCommand(opts *rootOptions) *cobra.Command {
	var f purchaseFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a purchase's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurchaseEdit(cmd, opts, args[0], &f)
		},
	}
	f.register(cmd)

	return cmd
}

func runPurchaseEdit(cmd *cobra.Command, opts *rootOptions, ref string, f *purchaseFlags) error {
	patch, err := f.patch(cmd)
	if err != nil {
		return err
	}
	if patch == (store.PurchasePatch{}) {
		return errors.New("nothing to change: pass at least one field flag")
	}
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}

	updated, err := p.store.UpdatePurchase(ref, patch)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated purchase %s\n", updated.Name)
	return p.commit(cmd.Context(), "purchase: edit "+updated.Name)
}
