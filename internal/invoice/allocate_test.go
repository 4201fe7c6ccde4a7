package invoice

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemsWithCosts(costs ...string) []Item {
	items := make([]Item, len(costs))
	for i, c := range costs {
		items[i] = newItem("item", dec(c))
	}
	return items
}

func costs(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.AllocatedCost.StringFixed(2)
	}
	return out
}

func sumCosts(items []Item) decimal.Decimal {
	r := Result{Items: items}
	return r.ItemsTotal()
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name  string
		costs []string
		total string
		want  []string
	}{
		{"even split with residual", []string{"0", "0", "0"}, "10", []string{"3.34", "3.33", "3.33"}},
		{"proportional", []string{"10", "20"}, "15", []string{"5.00", "10.00"}},
		{"proportional with residual", []string{"1", "1", "1"}, "10", []string{"3.34", "3.33", "3.33"}},
		{"scale up", []string{"45", "35", "15", "25"}, "130.80", []string{"49.05", "38.15", "16.35", "27.25"}},
		{"already matching", []string{"5.00", "5.00"}, "10", []string{"5.00", "5.00"}},
		{"unrounded but matching", []string{"2.5", "7.5"}, "10.00", []string{"2.50", "7.50"}},
		{"single item", []string{"4"}, "9.99", []string{"9.99"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(itemsWithCosts(tt.costs...), dec(tt.total))
			assert.Equal(t, tt.want, costs(got))
			assert.True(t, sumCosts(got).Equal(dec(tt.total)), "sum %s != %s", sumCosts(got), tt.total)
		})
	}
}

// The residual lands on the first item even when that pushes it below zero.
func TestAllocate_ResidualCanGoNegative(t *testing.T) {
	got := Allocate(itemsWithCosts("0", "100", "100"), dec("0.01"))

	assert.Equal(t, []string{"-0.01", "0.01", "0.01"}, costs(got))
	assert.True(t, sumCosts(got).Equal(dec("0.01")))
}

func TestAllocate_NoOp(t *testing.T) {
	items := itemsWithCosts("1.234", "2")

	got := Allocate(items, decimal.Zero)
	assert.Equal(t, "1.234", got[0].AllocatedCost.String())

	got = Allocate(items, dec("-5"))
	assert.Equal(t, "1.234", got[0].AllocatedCost.String())

	assert.Empty(t, Allocate(nil, dec("10")))
}

func TestAllocate_DoesNotMutateInput(t *testing.T) {
	items := itemsWithCosts("10", "20")
	_ = Allocate(items, dec("99"))
	assert.Equal(t, []string{"10.00", "20.00"}, costs(items))
}

func TestAllocate_RoundsTotal(t *testing.T) {
	got := Allocate(itemsWithCosts("1", "1"), dec("10.005"))
	assert.True(t, sumCosts(got).Equal(dec("10.01")))
}

func TestAllocate_Idempotent(t *testing.T) {
	total := dec("77.77")
	once := Allocate(itemsWithCosts("3.10", "0.99", "12", "8.8"), total)
	twice := Allocate(once, total)
	assert.Equal(t, costs(once), costs(twice))
}

func TestAllocate_SumInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(12)
		items := make([]Item, n)
		for j := range items {
			items[j] = newItem("item", decimal.New(rng.Int63n(100000), -2))
		}
		total := decimal.New(1+rng.Int63n(1000000), -2)

		got := Allocate(items, total)
		require.Len(t, got, n)
		require.True(t, sumCosts(got).Equal(total), "case %d: sum %s != %s", i, sumCosts(got), total)
		for _, it := range got {
			require.True(t, it.AllocatedCost.Equal(it.AllocatedCost.Round(2)), "case %d: %s not rounded", i, it.AllocatedCost)
		}

		again := Allocate(got, total)
		require.Equal(t, costs(got), costs(again), "case %d not idempotent", i)
	}
}
