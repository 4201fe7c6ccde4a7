package model

import "github.com/shopspring/decimal"

// ItemStatus tracks where an item is in the resale lifecycle.
type ItemStatus string

const (
	StatusUnlisted ItemStatus = "Unlisted"
	StatusListed   ItemStatus = "Listed"
	StatusSold     ItemStatus = "Sold"
)

// Statuses lists every valid ItemStatus.
func Statuses() []ItemStatus {
	return []ItemStatus{StatusUnlisted, StatusListed, StatusSold}
}

// Valid reports whether s is a known status.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusUnlisted, StatusListed, StatusSold:
		return true
	}
	return false
}

// Item is a persisted inventory item belonging to a purchase. ListingDate and
// SaleDate are YYYY-MM-DD, or empty when the item was never listed or sold.
type Item struct {
	ID                 string              `json:"item_id"`
	PurchaseID         string              `json:"purchase_id"`
	Name               string              `json:"item_name"`
	Category           string              `json:"category"`
	Brand              string              `json:"brand"`
	Size               string              `json:"size"`
	AllocatedCost      decimal.Decimal     `json:"allocated_cost"`
	ListingDescription string              `json:"listing_description"`
	ConditionReport    string              `json:"condition_report"`
	ListingDate        string              `json:"listing_date"`
	ListingPrice       decimal.NullDecimal `json:"listing_price"`
	SaleDate           string              `json:"sale_date"`
	SalePrice          decimal.NullDecimal `json:"sale_price"`
	PlatformFees       decimal.Decimal     `json:"platform_fees"`
	NetProfit          decimal.NullDecimal `json:"net_profit"`
	Status             ItemStatus          `json:"status"`
	Notes              string              `json:"notes"`
}

// ComputeNetProfit sets NetProfit from the sale price, fees and cost. It is
// reset when there is no sale price.
func (it *Item) ComputeNetProfit() {
	if !it.SalePrice.Valid {
		it.NetProfit = decimal.NullDecimal{}
		return
	}
	it.NetProfit = decimal.NewNullDecimal(it.SalePrice.Decimal.Sub(it.PlatformFees).Sub(it.AllocatedCost))
}
