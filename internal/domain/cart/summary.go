package cart

import (
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// TaxRate is the flat sales tax rate applied at checkout (8%)
var TaxRate = decimal.NewFromFloat(0.08)

// OrderSummary holds totals derived from a line-item list. It is never
// stored or mutated; callers recompute it from the current items on every
// read. Amounts keep full precision; rounding to two decimals happens only
// at the display layer.
type OrderSummary struct {
	Subtotal  valueobject.Money
	Tax       valueobject.Money
	Total     valueobject.Money
	ItemCount int
}

// Summarize computes subtotal, tax and total for the given items.
// ItemCount is the number of distinct lines, not total units.
func Summarize(items []LineItem) OrderSummary {
	subtotal := valueobject.ZeroUSD()
	for _, item := range items {
		subtotal = subtotal.MustAdd(item.Amount())
	}
	tax := subtotal.Multiply(TaxRate)
	return OrderSummary{
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal.MustAdd(tax),
		ItemCount: len(items),
	}
}
