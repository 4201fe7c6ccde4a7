package commands

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/resale-dev/resale/internal/id"
	"github.com/resale-dev/resale/internal/inventory"
	"github.com/resale-dev/resale/internal/invoice"
	"github.com/resale-dev/resale/internal/model"
	"github.com/resale-dev/resale/internal/store"
)

func newItemCommand(opts *rootOptions) *cobra.Command {
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "Manage inventory items",
	}
	itemCmd.AddCommand(
		newItemListCommand(opts),
		newItemSoldCommand(opts),
		newItemAddCommand(opts),
		newItemEditCommand(opts),
		newItemListForSaleCommand(opts),
		newItemSellCommand(opts),
		newItemSetStatusCommand(opts),
		newItemDeleteCommand(opts),
	)
	return itemCmd
}

type itemListOptions struct {
	filter    inventory.ItemFilter
	status    string
	sortField string
	desc      bool
}

func newItemListCommand(opts *rootOptions) *cobra.Command {
	var lo itemListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items, optionally filtered and sorted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemList(cmd, opts, lo)
		},
	}

	cmd.Flags().StringVar(&lo.filter.PurchaseID, "purchase", "", "only items from this purchase")
	cmd.Flags().StringVar(&lo.filter.Category, "category", "", "only items in this category ("+strings.Join(invoice.CategoryNames(), ", ")+", or one in use)")
	cmd.Flags().StringVar(&lo.filter.Brand, "brand", "", "only items of this brand")
	cmd.Flags().StringVar(&lo.status, "status", "", "only items with this status")
	cmd.Flags().StringVar(&lo.filter.Search, "search", "", "search name, category, brand and notes")
	cmd.Flags().StringVar(&lo.sortField, "sort", "", "sort by "+strings.Join(inventory.SortFields, ", "))
	cmd.Flags().BoolVar(&lo.desc, "desc", false, "sort descending")

	return cmd
}

func runItemList(cmd *cobra.Command, opts *rootOptions, lo itemListOptions) error {
	if lo.sortField != "" && !slices.Contains(inventory.SortFields, lo.sortField) {
		return fmt.Errorf("unknown sort field %q", lo.sortField)
	}
	if lo.status != "" {
		st, err := parseStatus(lo.status)
		if err != nil {
			return err
		}
		lo.filter.Status = st
	}

	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	if lo.filter.PurchaseID != "" {
		pu, err := p.store.GetPurchase(lo.filter.PurchaseID)
		if err != nil {
			return err
		}
		lo.filter.PurchaseID = pu.ID
	}

	items, err := p.store.ListItems()
	if err != nil {
		return err
	}
	if lo.filter.Category != "" {
		cat, ok := knownCategory(lo.filter.Category, items)
		if !ok {
			return fmt.Errorf("unknown category %q (want one of %s)", lo.filter.Category, strings.Join(categoryChoices(items), ", "))
		}
		lo.filter.Category = cat
	}
	items = inventory.SortItems(inventory.Filter(items, lo.filter), lo.sortField, lo.desc)

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No items.")
		return nil
	}
	if err := printItems(out, items); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d items\n", len(items))
	return nil
}

func newItemListForSaleCommand(opts *rootOptions) *cobra.Command {
	var price, date string

	cmd := &cobra.Command{
		Use:   "list-for-sale <id>",
		Short: "Mark an item listed and draft its listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemListForSale(cmd, opts, args[0], price, date)
		},
	}

	cmd.Flags().StringVar(&price, "price", "", "listing price")
	cmd.Flags().StringVar(&date, "date", "", "listing date, YYYY-MM-DD (default today)")

	return cmd
}

func runItemListForSale(cmd *cobra.Command, opts *rootOptions, ref, price, date string) error {
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	it, err := p.store.GetItem(ref)
	if err != nil {
		return err
	}
	if it.Status == model.StatusSold {
		return fmt.Errorf("item %s is already sold", it.Name)
	}

	patch := store.ItemPatch{Status: ptr(model.StatusListed)}
	if it.ListingDescription == "" {
		patch.ListingDescription = ptr(inventory.ListingDescription(it))
	}
	if it.ConditionReport == "" {
		patch.ConditionReport = ptr(inventory.ConditionReport)
	}
	if date != "" || it.ListingDate == "" {
		day, err := parseDay(date)
		if err != nil {
			return err
		}
		patch.ListingDate = &day
	}
	if price != "" {
		v, err := parseMoney("price", price)
		if err != nil {
			return err
		}
		patch.ListingPrice = ptr(decimal.NewNullDecimal(v))
	}

	updated, err := p.store.UpdateItem(it.ID, patch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, updated.ListingDescription)
	fmt.Fprintf(out, "\nListed %s on %s at %s\n", updated.Name, updated.ListingDate, nullMoney(updated.ListingPrice))
	return p.commit(cmd.Context(), "item: list "+updated.Name)
}

func newItemSellCommand(opts *rootOptions) *cobra.Command {
	var price, fees, date string

	cmd := &cobra.Command{
		Use:   "sell <id>",
		Short: "Record the sale of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemSell(cmd, opts, args[0], price, fees, date)
		},
	}

	cmd.Flags().StringVar(&price, "price", "", "sale price (required)")
	_ = cmd.MarkFlagRequired("price")
	cmd.Flags().StringVar(&fees, "fees", "0", "platform fees")
	cmd.Flags().StringVar(&date, "date", "", "sale date, YYYY-MM-DD (default today)")

	return cmd
}

func runItemSell(cmd *cobra.Command, opts *rootOptions, ref, price, fees, date string) error {
	salePrice, err := parseMoney("price", price)
	if err != nil {
		return err
	}
	platformFees, err := parseMoney("fees", fees)
	if err != nil {
		return err
	}
	day, err := parseDay(date)
	if err != nil {
		return err
	}

	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	it, err := p.store.GetItem(ref)
	if err != nil {
		return err
	}

	updated, err := p.store.UpdateItem(it.ID, store.ItemPatch{
		SalePrice:    ptr(decimal.NewNullDecimal(salePrice)),
		PlatformFees: &platformFees,
		SaleDate:     &day,
		Status:       ptr(model.StatusSold),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sold %s for %s (fees %s, net profit %s)\n",
		updated.Name, money(salePrice), money(platformFees), nullMoney(updated.NetProfit))
	return p.commit(cmd.Context(), "item: sell "+updated.Name)
}

func newItemSetStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Change an item's status (Unlisted, Listed or Sold)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemSetStatus(cmd, opts, args[0], args[1])
		},
	}
}

func runItemSetStatus(cmd *cobra.Command, opts *rootOptions, ref, status string) error {
	st, err := parseStatus(status)
	if err != nil {
		return err
	}
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	it, err := p.store.GetItem(ref)
	if err != nil {
		return err
	}

	updated, err := p.store.UpdateItem(it.ID, store.ItemPatch{Status: &st})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", updated.Name, updated.Status)
	return p.commit(cmd.Context(), fmt.Sprintf("item: %s %s", strings.ToLower(string(st)), updated.Name))
}

func newItemDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemDelete(cmd, opts, args[0])
		},
	}
}

func runItemDelete(cmd *cobra.Command, opts *rootOptions, ref string) error {
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	it, err := p.store.GetItem(ref)
	if err != nil {
		return err
	}
	if err := p.store.DeleteItem(it.ID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", it.Name)
	return p.commit(cmd.Context(), "item: delete "+it.Name)
}

// categoryChoices lists the inferable categories followed by any others
// already in use.
func categoryChoices(items []model.Item) []string {
	choices := invoice.CategoryNames()
	for _, c := range inventory.UniqueValues(items, "category") {
		if !slices.Contains(choices, c) {
			choices = append(choices, c)
		}
	}
	return choices
}

// knownCategory matches s case-insensitively against categoryChoices and
// returns its stored spelling.
func knownCategory(s string, items []model.Item) (string, bool) {
	s = strings.TrimSpace(s)
	for _, c := range categoryChoices(items) {
		if strings.EqualFold(c, s) {
			return c, true
		}
	}
	return s, false
}

func newItemSoldCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sold",
		Short: "List sold items with days listed and profit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemSold(cmd, opts, time.Now())
		},
	}
}

func runItemSold(cmd *cobra.Command, opts *rootOptions, now time.Time) error {
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	items, err := p.store.ListItems()
	if err != nil {
		return err
	}
	sold := inventory.Filter(items, inventory.ItemFilter{Status: model.StatusSold})
	sold = inventory.SortItems(sold, "sale_date", true)

	out := cmd.OutOrStdout()
	if len(sold) == 0 {
		fmt.Fprintln(out, "No sold items.")
		return nil
	}

	revenue, fees, profit := decimal.Zero, decimal.Zero, decimal.Zero
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tNAME\tLISTED\tSOLD\tDAYS\tSALE\tFEES\tCOST\tPROFIT")
	for _, it := range sold {
		days := "-"
		if d, ok := inventory.DaysListed(it.ListingDate, it.SaleDate, now); ok {
			days = strconv.Itoa(d)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			id.Short(it.ID), it.Name, orDash(it.ListingDate), orDash(it.SaleDate), days,
			nullMoney(it.SalePrice), money(it.PlatformFees), money(it.AllocatedCost), nullMoney(it.NetProfit))

		if it.SalePrice.Valid {
			revenue = revenue.Add(it.SalePrice.Decimal)
		}
		fees = fees.Add(it.PlatformFees)
		if it.NetProfit.Valid {
			profit = profit.Add(it.NetProfit.Decimal)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d sold, revenue %s, fees %s, profit %s\n", len(sold), money(revenue), money(fees), money(profit))
	return nil
}

// itemFlags are the editable item fields. Only flags given on the command
// line end up in the patch; an empty date or price clears it.
type itemFlags struct {
	name         string
	category     string
	brand        string
	size         string
	cost         string
	description  string
	condition    string
	listingDate  string
	listingPrice string
	saleDate     string
	salePrice    string
	fees         string
	status       string
	notes        string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.name, "name", "", "item name")
	flags.StringVar(&f.category, "category", "", "category ("+strings.Join(invoice.CategoryNames(), ", ")+", or your own)")
	flags.StringVar(&f.brand, "brand", "", "brand")
	flags.StringVar(&f.size, "size", "", "size")
	flags.StringVar(&f.cost, "cost", "", "allocated cost")
	flags.StringVar(&f.description, "description", "", "listing description")
	flags.StringVar(&f.condition, "condition", "", "condition report")
	flags.StringVar(&f.listingDate, "listing-date", "", "listing date, YYYY-MM-DD")
	flags.StringVar(&f.listingPrice, "listing-price", "", "listing price")
	flags.StringVar(&f.saleDate, "sale-date", "", "sale date, YYYY-MM-DD")
	flags.StringVar(&f.salePrice, "sale-price", "", "sale price")
	flags.StringVar(&f.fees, "fees", "", "platform fees")
	flags.StringVar(&f.status, "status", "", "Unlisted, Listed or Sold")
	flags.StringVar(&f.notes, "notes", "", "notes")
}

func (f *itemFlags) patch(cmd *cobra.Command, items []model.Item) (store.ItemPatch, error) {
	var patch store.ItemPatch
	flags := cmd.Flags()

	if flags.Changed("name") {
		name := strings.TrimSpace(f.name)
		if name == "" {
			return patch, errors.New("name must not be empty")
		}
		patch.Name = &name
	}
	if flags.Changed("category") {
		cat, _ := knownCategory(f.category, items)
		patch.Category = &cat
	}
	if flags.Changed("brand") {
		patch.Brand = ptr(strings.TrimSpace(f.brand))
	}
	if flags.Changed("size") {
		patch.Size = ptr(strings.TrimSpace(f.size))
	}
	if flags.Changed("description") {
		patch.ListingDescription = &f.description
	}
	if flags.Changed("condition") {
		patch.ConditionReport = &f.condition
	}
	if flags.Changed("notes") {
		patch.Notes = &f.notes
	}

	var err error
	if flags.Changed("cost") {
		if patch.AllocatedCost, err = moneyPtr("cost", f.cost); err != nil {
			return patch, err
		}
	}
	if flags.Changed("fees") {
		if patch.PlatformFees, err = moneyPtr("fees", f.fees); err != nil {
			return patch, err
		}
	}
	if flags.Changed("listing-price") {
		if patch.ListingPrice, err = nullMoneyPtr("listing price", f.listingPrice); err != nil {
			return patch, err
		}
	}
	if flags.Changed("sale-price") {
		if patch.SalePrice, err = nullMoneyPtr("sale price", f.salePrice); err != nil {
			return patch, err
		}
	}
	if flags.Changed("listing-date") {
		if patch.ListingDate, err = optionalDay(f.listingDate); err != nil {
			return patch, err
		}
	}
	if flags.Changed("sale-date") {
		if patch.SaleDate, err = optionalDay(f.saleDate); err != nil {
			return patch, err
		}
	}
	if flags.Changed("status") {
		st, err := parseStatus(f.status)
		if err != nil {
			return patch, err
		}
		patch.Status = &st
	}
	return patch, nil
}

func moneyPtr(name, s string) (*decimal.Decimal, error) {
	v, err := parseMoney(name, s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func nullMoneyPtr(name, s string) (*decimal.NullDecimal, error) {
	if strings.TrimSpace(s) == "" {
		return &decimal.NullDecimal{}, nil
	}
	v, err := parseMoney(name, s)
	if err != nil {
		return nil, err
	}
	return ptr(decimal.NewNullDecimal(v)), nil
}

func optionalDay(s string) (*string, error) {
	if s == "" {
		return &s, nil
	}
	day, err := parseDay(s)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func newItemAddCommand(opts *rootOptions) *cobra.Command {
	var f itemFlags
	var purchaseRef string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to a purchase by hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemAdd(cmd, opts, purchaseRef, &f)
		},
	}

	cmd.Flags().StringVar(&purchaseRef, "purchase", "", "purchase the item belongs to (required)")
	_ = cmd.MarkFlagRequired("purchase")
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runItemAdd(cmd *cobra.Command, opts *rootOptions, purchaseRef string, f *itemFlags) error {
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	pu, err := p.store.GetPurchase(purchaseRef)
	if err != nil {
		return err
	}
	items, err := p.store.ListItems()
	if err != nil {
		return err
	}
	patch, err := f.patch(cmd, items)
	if err != nil {
		return err
	}

	it := model.Item{PurchaseID: pu.ID, AllocatedCost: decimal.Zero, Status: model.StatusUnlisted}
	if err := patch.Apply(&it); err != nil {
		return err
	}
	created, err := p.store.CreateItem(it)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added item %s to %s (%s)\n", created.Name, pu.Name, id.Short(created.ID))
	return p.commit(cmd.Context(), "item: add "+created.Name)
}

func newItemEditCommand(opts *rootOptions) *cobra.Command {
	var f itemFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an item's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemEdit(cmd, opts, args[0], &f)
		},
	}
	f.register(cmd)

	return cmd
}

func runItemEdit(cmd *cobra.Command, opts *rootOptions, ref string, f *itemFlags) error {
	p, err := openProject(cmd, opts)
	if err != nil {
		return err
	}
	items, err := p.store.ListItems()
	if err != nil {
		return err
	}
	patch, err := f.patch(cmd, items)
	if err != nil {
		return err
	}
	if patch == (store.ItemPatch{}) {
		return errors.New("nothing to change: pass at least one field flag")
	}

	updated, err := p.store.UpdateItem(ref, patch)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated item %s\n", updated.Name)
	return p.commit(cmd.Context(), "item: edit "+updated.Name)
}
