package core

import (
	"github.com/shopspring/decimal"
)

// AccumulatedItem is a validated line item with its computed total.
type AccumulatedItem struct {
	ProductID int
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// AccumulateItems validates a batch of raw line items and computes per-line
// totals plus the running subtotal. Validation is atomic: the first bad
// item aborts the whole batch. No I/O — product existence is the reference
// validator's job.
func AccumulateItems(items []PurchaseItemInput) ([]AccumulatedItem, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, Validationf("items", "at least one item is required")
	}

	out := make([]AccumulatedItem, 0, len(items))
	subtotal := decimal.Zero

	for i, it := range items {
		if it.ProductID <= 0 {
			return nil, decimal.Zero, Validationf("items", "item %d: product_id must be a positive integer", i+1)
		}
		if !it.Quantity.IsPositive() {
			return nil, decimal.Zero, Validationf("items", "item %d: quantity must be > 0", i+1)
		}
		if !it.UnitPrice.IsPositive() {
			return nil, decimal.Zero, Validationf("items", "item %d: unit_price must be > 0", i+1)
		}

		lineTotal := it.Quantity.Mul(it.UnitPrice)
		subtotal = subtotal.Add(lineTotal)
		out = append(out, AccumulatedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: lineTotal,
		})
	}

	return out, subtotal, nil
}

// NetTotal applies the header discount to a subtotal, floored at zero.
// A discount larger than the subtotal clamps to a zero net total rather
// than going negative.
func NetTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	net := subtotal.Sub(discount)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}
