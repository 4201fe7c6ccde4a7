package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/resale-dev/resale/internal/model"
)

// PurchaseHeader is the CSV header for purchases.csv.
const PurchaseHeader = "purchase_id,purchase_name,vendor,purchase_date,total_purchase_cost,notes"

// ItemHeader is the CSV header for items.csv.
const ItemHeader = "item_id,purchase_id,item_name,category,brand,size,allocated_cost,listing_description,condition_report,listing_date,listing_price,sale_date,sale_price,platform_fees,net_profit,status,notes"

const (
	purchaseFields = 6
	colPurchaseID  = 0
	colPName       = 1
	colVendor      = 2
	colPDate       = 3
	colTotal       = 4
	colPNotes      = 5
)

const (
	itemFields      = 17
	colItemID       = 0
	colItemPurchase = 1
	colName         = 2
	colCategory     = 3
	colBrand        = 4
	colSize         = 5
	colCost         = 6
	colListingDesc  = 7
	colCondition    = 8
	colListingDate  = 9
	colListingPrice = 10
	colSaleDate     = 11
	colSalePrice    = 12
	colFees         = 13
	colNetProfit    = 14
	colStatus       = 15
	colNotes        = 16
)

// ReadPurchases reads all purchases from a purchases.csv reader.
func ReadPurchases(r io.Reader) ([]model.Purchase, error) {
	records, err := readRecords(r, purchaseFields)
	if err != nil {
		return nil, fmt.Errorf("reading purchases CSV: %w", err)
	}

	var purchases []model.Purchase
	for i, rec := range records {
		p, err := UnmarshalPurchase(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		purchases = append(purchases, p)
	}
	return purchases, nil
}

// WritePurchases writes purchases (including header).
func WritePurchases(w io.Writer, purchases []model.Purchase) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(PurchaseHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, p := range purchases {
		if err := cw.Write(MarshalPurchase(p)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalPurchase converts a Purchase to a CSV row.
func MarshalPurchase(p model.Purchase) []string {
	row := make([]string, purchaseFields)
	row[colPurchaseID] = p.ID
	row[colPName] = p.Name
	row[colVendor] = p.Vendor
	row[colPDate] = p.Date
	row[colTotal] = p.TotalCost.StringFixed(2)
	row[colPNotes] = p.Notes
	return row
}

// UnmarshalPurchase converts a CSV row to a Purchase.
func UnmarshalPurchase(record []string) (model.Purchase, error) {
	if len(record) != purchaseFields {
		return model.Purchase{}, fmt.Errorf("expected %d fields, got %d", purchaseFields, len(record))
	}

	total, err := parseDecimal("total_purchase_cost", record[colTotal])
	if err != nil {
		return model.Purchase{}, err
	}

	return model.Purchase{
		ID:        record[colPurchaseID],
		Name:      record[colPName],
		Vendor:    record[colVendor],
		Date:      record[colPDate],
		TotalCost: total,
		Notes:     record[colPNotes],
	}, nil
}

// ReadItems reads all items from an items.csv reader.
func ReadItems(r io.Reader) ([]model.Item, error) {
	records, err := readRecords(r, itemFields)
	if err != nil {
		return nil, fmt.Errorf("reading items CSV: %w", err)
	}

	var items []model.Item
	for i, rec := range records {
		it, err := UnmarshalItem(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// WriteItems writes items (including header).
func WriteItems(w io.Writer, items []model.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(ItemHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, it := range items {
		if err := cw.Write(MarshalItem(it)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalItem converts an Item to a CSV row.
func MarshalItem(it model.Item) []string {
	row := make([]string, itemFields)
	row[colItemID] = it.ID
	row[colItemPurchase] = it.PurchaseID
	row[colName] = it.Name
	row[colCategory] = it.Category
	row[colBrand] = it.Brand
	row[colSize] = it.Size
	row[colCost] = it.AllocatedCost.StringFixed(2)
	row[colListingDesc] = it.ListingDescription
	row[colCondition] = it.ConditionReport
	row[colListingDate] = it.ListingDate
	row[colListingPrice] = formatNull(it.ListingPrice)
	row[colSaleDate] = it.SaleDate
	row[colSalePrice] = formatNull(it.SalePrice)
	row[colFees] = it.PlatformFees.StringFixed(2)
	row[colNetProfit] = formatNull(it.NetProfit)
	row[colStatus] = string(it.Status)
	row[colNotes] = it.Notes
	return row
}

// UnmarshalItem converts a CSV row to an Item.
func UnmarshalItem(record []string) (model.Item, error) {
	if len(record) != itemFields {
		return model.Item{}, fmt.Errorf("expected %d fields, got %d", itemFields, len(record))
	}

	cost, err := parseDecimal("allocated_cost", record[colCost])
	if err != nil {
		return model.Item{}, err
	}
	fees, err := parseDecimal("platform_fees", record[colFees])
	if err != nil {
		return model.Item{}, err
	}
	listingPrice, err := parseNull("listing_price", record[colListingPrice])
	if err != nil {
		return model.Item{}, err
	}
	salePrice, err := parseNull("sale_price", record[colSalePrice])
	if err != nil {
		return model.Item{}, err
	}
	netProfit, err := parseNull("net_profit", record[colNetProfit])
	if err != nil {
		return model.Item{}, err
	}

	return model.Item{
		ID:                 record[colItemID],
		PurchaseID:         record[colItemPurchase],
		Name:               record[colName],
		Category:           record[colCategory],
		Brand:              record[colBrand],
		Size:               record[colSize],
		AllocatedCost:      cost,
		ListingDescription: record[colListingDesc],
		ConditionReport:    record[colCondition],
		ListingDate:        record[colListingDate],
		ListingPrice:       listingPrice,
		SaleDate:           record[colSaleDate],
		SalePrice:          salePrice,
		PlatformFees:       fees,
		NetProfit:          netProfit,
		Status:             model.ItemStatus(record[colStatus]),
		Notes:              record[colNotes],
	}, nil
}

// readRecords returns the data rows (header skipped).
func readRecords(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}

func parseNull(field, s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseDecimal(field, s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
