// Package invoice turns pasted invoice text into a draft purchase and its
// line items, and spreads the purchase total across those items.
package invoice

import "github.com/shopspring/decimal"

// StatusUnlisted is the status every extracted item starts with.
const StatusUnlisted = "Unlisted"

// Purchase is a draft purchase inferred from invoice text. It has no ID.
// Name is "<vendor> - <date>" or "Purchase - <date>"; Vendor is empty and
// TotalCost zero when not found; Date is YYYY-MM-DD.
type Purchase struct {
	Name      string          `json:"purchase_name"`
	Vendor    string          `json:"vendor"`
	Date      string          `json:"purchase_date"`
	TotalCost decimal.Decimal `json:"total_purchase_cost"`
	Notes     string          `json:"notes"`
}

// Item is a draft line item. It has no ID and no purchase reference.
type Item struct {
	Name          string          `json:"item_name"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand"`
	Size          string          `json:"size"`
	AllocatedCost decimal.Decimal `json:"allocated_cost"`
	Status        string          `json:"status"`
}

// Result is the outcome of a successful extraction.
type Result struct {
	Purchase Purchase `json:"purchase"`
	Items    []Item   `json:"items"`
}

// ItemsTotal returns the sum of the items' allocated costs.
func (r *Result) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range r.Items {
		sum = sum.Add(it.AllocatedCost)
	}
	return sum
}
