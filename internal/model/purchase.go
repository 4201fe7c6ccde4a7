package model

import "github.com/shopspring/decimal"

// Purchase is a persisted buying trip or invoice.
type Purchase struct {
	ID        string          `json:"purchase_id"`
	Name      string          `json:"purchase_name"`
	Vendor    string          `json:"vendor"`
	Date      string          `json:"purchase_date"` // YYYY-MM-DD
	TotalCost decimal.Decimal `json:"total_purchase_cost"`
	Notes     string          `json:"notes"`
}
