package inventory

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/resale-dev/resale/internal/model"
)

// Purchase progress labels.
const (
	PurchaseCompleted  = "Completed"
	PurchaseActive     = "Active"
	PurchaseNotStarted = "Not Started"
)

// Stats summarizes the items of one purchase.
type Stats struct {
	ItemCount   int
	SoldCount   int
	ListedCount int
	Revenue     decimal.Decimal
	Fees        decimal.Decimal
	Profit      decimal.Decimal // revenue - fees - purchase total
	Status      string
}

// PurchaseStats computes Stats for p over the items that belong to it.
func PurchaseStats(p model.Purchase, items []model.Item) Stats {
	st := Stats{Revenue: decimal.Zero, Fees: decimal.Zero}
	for _, it := range items {
		if it.PurchaseID != p.ID {
			continue
		}
		st.ItemCount++
		switch it.Status {
		case model.StatusSold:
			st.SoldCount++
		case model.StatusListed:
			st.ListedCount++
		}
		if it.SalePrice.Valid {
			st.Revenue = st.Revenue.Add(it.SalePrice.Decimal)
		}
		st.Fees = st.Fees.Add(it.PlatformFees)
	}
	st.Profit = st.Revenue.Sub(st.Fees).Sub(p.TotalCost)

	switch {
	case st.ItemCount > 0 && st.SoldCount == st.ItemCount:
		st.Status = PurchaseCompleted
	case st.ListedCount == 0 && st.SoldCount == 0:
		st.Status = PurchaseNotStarted
	default:
		st.Status = PurchaseActive
	}
	return st
}

// DaysListed returns the whole days between listing and sale (or now when
// unsold), rounded up. ok is false without a parseable listing date.
func DaysListed(listingDate, saleDate string, now time.Time) (days int, ok bool) {
	if listingDate == "" {
		return 0, false
	}
	start, err := time.Parse(time.DateOnly, listingDate)
	if err != nil {
		return 0, false
	}
	end := now
	if saleDate != "" {
		if end, err = time.Parse(time.DateOnly, saleDate); err != nil {
			return 0, false
		}
	}
	hours := math.Abs(end.Sub(start).Hours())
	return int(math.Ceil(hours / 24)), true
}
