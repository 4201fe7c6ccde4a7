package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/resale-dev/resale/internal/id"
	"github.com/resale-dev/resale/internal/importer"
	"github.com/resale-dev/resale/internal/invoice"
	"github.com/resale-dev/resale/internal/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return money(d.Decimal)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func ptr[T any](v T) *T { return &v }

// parseDay validates a YYYY-MM-DD date; empty means today.
func parseDay(s string) (string, error) {
	if s == "" {
		return time.Now().Format(time.DateOnly), nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return s, nil
}

// parseMoney parses a non-negative amount, rounded to cents.
func parseMoney(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", name, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", name)
	}
	return d.Round(2), nil
}

func parseStatus(s string) (model.ItemStatus, error) {
	var names []string
	for _, st := range model.Statuses() {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
		names = append(names, string(st))
	}
	return "", fmt.Errorf("invalid status %q (want one of %s)", s, strings.Join(names, ", "))
}

// readInput reads invoice text from a file, or from stdin for "" and "-".
func readInput(cmd *cobra.Command, path string, maxBytes int64) (string, error) {
	if path == "" || path == "-" {
		return importer.Read(cmd.InOrStdin(), maxBytes)
	}
	return importer.ReadFile(path, maxBytes)
}

func printDraft(w io.Writer, res *invoice.Result) error {
	p := res.Purchase
	fmt.Fprintf(w, "Purchase: %s\n", p.Name)
	fmt.Fprintf(w, "Vendor:   %s\n", orDash(p.Vendor))
	fmt.Fprintf(w, "Date:     %s\n", p.Date)
	fmt.Fprintf(w, "Total:    %s\n", money(p.TotalCost))

	if len(res.Items) == 0 {
		fmt.Fprintln(w, "\nNo items found.")
		return nil
	}

	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tBRAND\tSIZE\tCOST")
	for _, it := range res.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			it.Name, orDash(it.Category), orDash(it.Brand), orDash(it.Size), money(it.AllocatedCost))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d items, allocated %s\n", len(res.Items), money(res.ItemsTotal()))
	return nil
}

func printItems(w io.Writer, items []model.Item) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tBRAND\tSIZE\tCOST\tSTATUS\tSALE\tPROFIT")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			id.Short(it.ID), it.Name, orDash(it.Category), orDash(it.Brand), orDash(it.Size),
			money(it.AllocatedCost), it.Status, nullMoney(it.SalePrice), nullMoney(it.NetProfit))
	}
	return tw.Flush()
}
