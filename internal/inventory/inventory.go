// Package inventory filters, sorts and summarizes stored items.
package inventory

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/resale-dev/resale/internal/model"
)

// ItemFilter selects items. Empty fields match everything.
type ItemFilter struct {
	PurchaseID string
	Category   string
	Brand      string
	Status     model.ItemStatus
	Search     string // case-insensitive, over name, category, brand and notes
}

// Filter returns the items matching f, in their original order.
func Filter(items []model.Item, f ItemFilter) []model.Item {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var result []model.Item
	for _, it := range items {
		if f.PurchaseID != "" && it.PurchaseID != f.PurchaseID {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Brand != "" && it.Brand != f.Brand {
			continue
		}
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		if search != "" && !matchesSearch(it, search) {
			continue
		}
		result = append(result, it)
	}
	return result
}

func matchesSearch(it model.Item, search string) bool {
	for _, field := range []string{it.Name, it.Category, it.Brand, it.Notes} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// SortFields lists the fields accepted by SortItems.
var SortFields = []string{"name", "category", "brand", "size", "cost", "status", "sale_price", "listing_date", "sale_date"}

// SortItems returns a sorted copy of items. Text fields compare
// case-insensitively; unknown fields keep the input order. Items without a
// sale price sort before those with one.
func SortItems(items []model.Item, field string, desc bool) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)

	cmp := comparator(field)
	if cmp == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return cmp(out[j], out[i]) < 0
		}
		return cmp(out[i], out[j]) < 0
	})
	return out
}

func comparator(field string) func(a, b model.Item) int {
	text := func(get func(model.Item) string) func(a, b model.Item) int {
		return func(a, b model.Item) int {
			return strings.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
		}
	}

	switch field {
	case "name":
		return text(func(it model.Item) string { return it.Name })
	case "category":
		return text(func(it model.Item) string { return it.Category })
	case "brand":
		return text(func(it model.Item) string { return it.Brand })
	case "size":
		return text(func(it model.Item) string { return it.Size })
	case "status":
		return text(func(it model.Item) string { return string(it.Status) })
	case "listing_date":
		return text(func(it model.Item) string { return it.ListingDate })
	case "sale_date":
		return text(func(it model.Item) string { return it.SaleDate })
	case "cost":
		return func(a, b model.Item) int { return a.AllocatedCost.Cmp(b.AllocatedCost) }
	case "sale_price":
		return func(a, b model.Item) int { return compareNull(a.SalePrice, b.SalePrice) }
	}
	return nil
}

func compareNull(a, b decimal.NullDecimal) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return -1
	case !b.Valid:
		return 1
	}
	return a.Decimal.Cmp(b.Decimal)
}

// UniqueValues returns the sorted distinct non-empty values of a text field
// ("category", "brand", "size" or "status").
func UniqueValues(items []model.Item, field string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, it := range items {
		var v string
		switch field {
		case "category":
			v = it.Category
		case "brand":
			v = it.Brand
		case "size":
			v = it.Size
		case "status":
			v = string(it.Status)
		}
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}
