package invoice

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var fixedNow = func() time.Time {
	return time.Date(2025, time.March, 7, 10, 30, 0, 0, time.UTC)
}

func extract(t *testing.T, text string) *Result {
	t.Helper()
	res, err := Extractor{Now: fixedNow}.Extract(text)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func TestExtract_Sample(t *testing.T) {
	res := extract(t, Sample)

	p := res.Purchase
	assert.Equal(t, "Vintage Threads LLC", p.Vendor)
	assert.Equal(t, "2024-12-15", p.Date)
	assert.Equal(t, "130.80", p.TotalCost.StringFixed(2))
	assert.Equal(t, "Vintage Threads LLC - 2024-12-15", p.Name)
	assert.Empty(t, p.Notes)

	require.Len(t, res.Items, 4)

	want := []struct {
		name, category, brand, size, cost string
	}{
		{"Nike Air Max Sneakers Size 10", "Shoes", "Nike", "10", "49.05"},
		{"Levi's Denim Jacket Medium", "Clothing", "", "Medium", "38.15"},
		{"Vintage Band T-Shirt Large", "Clothing", "", "Large", "16.35"},
		{"Adidas Track Pants Size M", "Clothing", "Adidas", "M", "27.25"},
	}
	for i, w := range want {
		it := res.Items[i]
		assert.Equal(t, w.name, it.Name, "item %d name", i)
		assert.Equal(t, w.category, it.Category, "item %d category", i)
		assert.Equal(t, w.brand, it.Brand, "item %d brand", i)
		assert.Equal(t, w.size, it.Size, "item %d size", i)
		assert.Equal(t, w.cost, it.AllocatedCost.StringFixed(2), "item %d cost", i)
		assert.Equal(t, StatusUnlisted, it.Status)
	}

	assert.True(t, res.ItemsTotal().Equal(p.TotalCost), "items sum to %s", res.ItemsTotal())
}

func TestExtract_QuantityLine(t *testing.T) {
	res := extract(t, "3 x Cotton Socks - $9.00")

	assert.True(t, res.Purchase.TotalCost.IsZero())
	require.Len(t, res.Items, 3)
	for _, it := range res.Items {
		assert.Equal(t, "Cotton Socks", it.Name)
		assert.Equal(t, "3.00", it.AllocatedCost.StringFixed(2))
	}
}

func TestExtract_QuantityLineWithTotal(t *testing.T) {
	res := extract(t, "3 x Cotton Socks - $9.00\nTotal: $9.00")

	assert.Equal(t, "9.00", res.Purchase.TotalCost.StringFixed(2))
	require.Len(t, res.Items, 3)
	for _, it := range res.Items {
		assert.Equal(t, "3.00", it.AllocatedCost.StringFixed(2))
	}
}

func TestExtract_QuantityOutOfRange(t *testing.T) {
	for _, line := range []string{"0 x Cotton Socks - $9.00", "501 x Cotton Socks - $9.00"} {
		res := extract(t, line)
		assert.Empty(t, res.Items, "line %q", line)
	}
}

func TestExtract_QuantityPrefixWithoutDash(t *testing.T) {
	res := extract(t, "2 x Socks 9.00\n3x Tea Towels $12.00\nWool Hat 8.00")

	require.Len(t, res.Items, 1)
	assert.Equal(t, "Wool Hat", res.Items[0].Name)
}

func TestExtract_SizeUnitKeepsNumber(t *testing.T) {
	res := extract(t, "Olive Oil 16 oz 8.00")

	require.Len(t, res.Items, 1)
	assert.Equal(t, "Olive Oil 16 oz", res.Items[0].Name)
	assert.Equal(t, "16", res.Items[0].Size)
}

func TestExtract_NothingRecognizable(t *testing.T) {
	res := extract(t, "Thanks for shopping with us\nSee you soon")

	assert.True(t, res.Purchase.TotalCost.IsZero())
	assert.Empty(t, res.Items)
	assert.Empty(t, res.Purchase.Vendor)
	assert.Equal(t, "2025-03-07", res.Purchase.Date)
	assert.Equal(t, "Purchase - 2025-03-07", res.Purchase.Name)
}

func TestExtract_OnlyExcludedLines(t *testing.T) {
	res := extract(t, "Invoice 12\nSubtotal 40.00\nShipping 5.00\nTotal: $45.00")

	assert.Empty(t, res.Items)
	assert.Equal(t, "45.00", res.Purchase.TotalCost.StringFixed(2))
}

func TestExtract_InvalidInput(t *testing.T) {
	for _, text := range []string{"", "\xff\xfe bad"} {
		res, err := Extract(text)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestExtract_WhitespaceOnly(t *testing.T) {
	res := extract(t, "  \n\t\n ")
	assert.Empty(t, res.Items)
	assert.Equal(t, "2025-03-07", res.Purchase.Date)
}

func TestExtract_ParseError(t *testing.T) {
	res, err := Extract("99999999999999999999 x Cotton Socks - $9.00")
	assert.Nil(t, res)

	var perr *ParseError
	require.True(t, errors.As(err, &perr), "expected *ParseError, got %v", err)
	assert.Contains(t, err.Error(), "parsing quantity")
	assert.ErrorIs(t, err, strconv.ErrRange)
}

func TestExtract_ColumnsLine(t *testing.T) {
	res := extract(t, "Nike Hoodie XL | Tops | Acme Outlet | $30.00\nSilk Scarf | Accessories | Hermes | 120")

	require.Len(t, res.Items, 2)

	first := res.Items[0]
	assert.Equal(t, "Nike Hoodie XL", first.Name)
	assert.Equal(t, "Tops", first.Category, "explicit category is kept")
	assert.Equal(t, "Acme Outlet", first.Brand, "explicit brand is kept")
	assert.Equal(t, "XL", first.Size, "size is still inferred")
	assert.Equal(t, "30.00", first.AllocatedCost.StringFixed(2))

	second := res.Items[1]
	assert.Equal(t, "Silk Scarf", second.Name)
	assert.Equal(t, "Hermes", second.Brand)
	assert.Equal(t, "120", second.AllocatedCost.String())
}

func TestExtract_ItemOrder(t *testing.T) {
	res := extract(t, "Wool Hat $10.00\n2 x Leather Belt - $30.00\nDesk Lamp 5")

	require.Len(t, res.Items, 4)
	names := make([]string, len(res.Items))
	for i, it := range res.Items {
		names[i] = it.Name
	}
	assert.Equal(t, []string{"Wool Hat", "Leather Belt", "Leather Belt", "Desk Lamp"}, names)
	assert.Equal(t, "Accessories", res.Items[0].Category)
	assert.Equal(t, "Accessories", res.Items[1].Category)
	assert.Equal(t, "Home", res.Items[3].Category)
	assert.Equal(t, "15.00", res.Items[1].AllocatedCost.StringFixed(2))
}

func TestExtract_CRLF(t *testing.T) {
	res := extract(t, "Wool Hat 5.00\r\nLeather Belt 7.00\r\n")
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Wool Hat", res.Items[0].Name)
	assert.Equal(t, "Leather Belt", res.Items[1].Name)
}

func TestExtract_Vendor(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labeled seller", "Seller: Bob's Thrift\nWool Hat 5.00", "Bob's Thrift"},
		{"sold by", "Receipt\nSold by : Second Look\n", "Second Look"},
		{"corporate suffix", "Acme Widgets Inc\nWool Hat 5.00", "Acme Widgets Inc"},
		{"label beats suffix", "Acme Widgets Inc\nVendor: Real Vendor\n", "Real Vendor"},
		{"keyword without colon", "Invoice from Corner Shop\n", "Invoice from Corner Shop"},
		{"none", "wool hat 5.00", ""},
		{"outside window", "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nVendor: Too Late", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := extract(t, tt.text)
			assert.Equal(t, tt.want, res.Purchase.Vendor)
		})
	}
}

func TestExtract_Date(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labeled", "Purchase Date: 31/12/23", "2023-12-31"},
		{"labeled wins over earlier bare", "ref 01/02/2020\nDate: 03/04/2021", "2021-03-04"},
		{"bare", "Order 3-4-21 shipped", "2021-03-04"},
		{"beyond vendor window", "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk\nDate: 5/6/2022", "2022-05-06"},
		{"unparseable falls back to now", "Date: 13/13/2024", "2025-03-07"},
		{"missing", "no dates here", "2025-03-07"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := extract(t, tt.text)
			assert.Equal(t, tt.want, res.Purchase.Date)
		})
	}
}

func TestExtract_Total(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"thousands", "Grand Total: $1,234.56", "1234.56"},
		{"amount due", "Amount Due 45", "45.00"},
		{"balance", "Balance: $ 12.50", "12.50"},
		{"subtotal ignored", "Subtotal: $10.00", "0.00"},
		{"first in document order", "Subtotal: $10.00\nTotal: $11.00\nBalance: $3.00", "11.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := extract(t, tt.text)
			assert.Equal(t, tt.want, res.Purchase.TotalCost.StringFixed(2))
		})
	}
}

func TestExtract_Concurrent(t *testing.T) {
	want := extract(t, Sample)

	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := Extractor{Now: fixedNow}.Extract(Sample)
			if err == nil {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, want.Purchase.Name, res.Purchase.Name)
		require.Len(t, res.Items, len(want.Items))
		for i := range res.Items {
			assert.True(t, want.Items[i].AllocatedCost.Equal(res.Items[i].AllocatedCost))
		}
	}
}
