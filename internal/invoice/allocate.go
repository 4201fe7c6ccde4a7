package invoice

import "github.com/shopspring/decimal"

// Allocate returns a copy of items whose costs are rescaled to add up to total,
// to the cent. Items with no costs at all share total evenly; otherwise each
// cost is scaled by total/sum. Costs are rounded to 2 places and any rounding
// residual goes to the first item. A non-positive total or an empty list
// leaves the costs untouched.
func Allocate(items []Item, total decimal.Decimal) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	if len(out) == 0 || !total.IsPositive() {
		return out
	}
	total = total.Round(2)

	sum := decimal.Zero
	for _, it := range out {
		sum = sum.Add(it.AllocatedCost)
	}

	switch {
	case sum.IsZero():
		share := total.Div(decimal.NewFromInt(int64(len(out)))).Round(2)
		for i := range out {
			out[i].AllocatedCost = share
		}
	case !sum.Equal(total):
		for i := range out {
			out[i].AllocatedCost = out[i].AllocatedCost.Mul(total).Div(sum).Round(2)
		}
	default:
		for i := range out {
			out[i].AllocatedCost = out[i].AllocatedCost.Round(2)
		}
	}

	allocated := decimal.Zero
	for _, it := range out {
		allocated = allocated.Add(it.AllocatedCost)
	}
	if residual := total.Sub(allocated); !residual.IsZero() {
		out[0].AllocatedCost = out[0].AllocatedCost.Add(residual)
	}
	return out
}
