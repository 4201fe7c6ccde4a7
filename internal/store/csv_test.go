package store

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resale-dev/resale/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestItemsRoundTrip(t *testing.T) {
	items := []model.Item{
		{
			ID:            "i1",
			PurchaseID:    "p1",
			Name:          `Levi's "501" Jeans, 32x30`,
			Category:      "Clothing",
			Size:          "32",
			AllocatedCost: dec("12.5"),
			Status:        model.StatusUnlisted,
			Notes:         "line one\nline two",
		},
		{
			ID:            "i2",
			PurchaseID:    "p1",
			Name:          "Nike Dunks",
			AllocatedCost: dec("30"),
			ListingDate:   "2025-01-04",
			ListingPrice:  decimal.NewNullDecimal(dec("80")),
			SaleDate:      "2025-01-20",
			SalePrice:     decimal.NewNullDecimal(dec("75")),
			PlatformFees:  dec("9.75"),
			NetProfit:     decimal.NewNullDecimal(dec("35.25")),
			Status:        model.StatusSold,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteItems(&buf, items))

	got, err := ReadItems(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, items[0].Name, got[0].Name)
	assert.Equal(t, items[0].Notes, got[0].Notes)
	assert.Equal(t, "12.50", got[0].AllocatedCost.StringFixed(2))
	assert.False(t, got[0].SalePrice.Valid)
	assert.False(t, got[0].NetProfit.Valid)

	assert.Equal(t, model.StatusSold, got[1].Status)
	assert.True(t, got[1].SalePrice.Valid)
	assert.Equal(t, "75.00", got[1].SalePrice.Decimal.StringFixed(2))
	assert.Equal(t, "35.25", got[1].NetProfit.Decimal.StringFixed(2))
	assert.Equal(t, "2025-01-20", got[1].SaleDate)
}

func TestPurchasesRoundTrip(t *testing.T) {
	purchases := []model.Purchase{
		{ID: "p1", Name: "Goodwill - 2025-01-02", Vendor: "Goodwill", Date: "2025-01-02", TotalCost: dec("42.1")},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePurchases(&buf, purchases))
	assert.True(t, strings.HasPrefix(buf.String(), PurchaseHeader+"\n"))

	got, err := ReadPurchases(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Goodwill", got[0].Vendor)
	assert.Equal(t, "42.10", got[0].TotalCost.StringFixed(2))
}

func TestReadItems_HeaderOnly(t *testing.T) {
	items, err := ReadItems(strings.NewReader(ItemHeader + "\n"))
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestUnmarshalPurchase_BadTotal(t *testing.T) {
	_, err := UnmarshalPurchase([]string{"p1", "n", "v", "2025-01-01", "lots", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing total_purchase_cost")
}

func TestUnmarshalItem_WrongFieldCount(t *testing.T) {
	_, err := UnmarshalItem([]string{"i1", "p1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 17 fields")
}

func TestReadItems_BadRow(t *testing.T) {
	row := strings.Join(MarshalItem(model.Item{ID: "i1", Name: "x", Status: model.StatusListed}), ",")
	row = strings.Replace(row, ",0.00,", ",abc,", 1)
	_, err := ReadItems(strings.NewReader(ItemHeader + "\n" + row + "\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
