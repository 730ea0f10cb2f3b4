package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func TestSummarize(t *testing.T) {
	t.Run("computes subtotal, tax and total", func(t *testing.T) {
		items := []LineItem{
			{ItemID: "a", UnitPrice: decimal.NewFromInt(10), Quantity: 2},
			{ItemID: "b", UnitPrice: decimal.NewFromInt(5), Quantity: 1},
		}

		s := Summarize(items)

		assert.Equal(t, "25.00", s.Subtotal.StringFixed(2))
		assert.Equal(t, "2.00", s.Tax.StringFixed(2))
		assert.Equal(t, "27.00", s.Total.StringFixed(2))
		assert.Equal(t, 2, s.ItemCount)
	})

	t.Run("empty cart summarizes to zero", func(t *testing.T) {
		s := Summarize(nil)

		assert.True(t, s.Subtotal.IsZero())
		assert.True(t, s.Tax.IsZero())
		assert.True(t, s.Total.IsZero())
		assert.Equal(t, 0, s.ItemCount)
	})

	t.Run("item count is distinct lines, not units", func(t *testing.T) {
		items := []LineItem{
			{ItemID: "a", UnitPrice: decimal.NewFromInt(1), Quantity: 50},
		}

		assert.Equal(t, 1, Summarize(items).ItemCount)
	})

	t.Run("keeps full precision before display rounding", func(t *testing.T) {
		items := []LineItem{
			{ItemID: "a", UnitPrice: decimal.NewFromFloat(0.33), Quantity: 1},
		}

		s := Summarize(items)

		// 0.33 * 0.08 = 0.0264 exactly; no intermediate rounding.
		assert.True(t, decimal.NewFromFloat(0.0264).Equal(s.Tax.Amount()))
		assert.True(t, decimal.NewFromFloat(0.3564).Equal(s.Total.Amount()))
	})

	t.Run("amounts are USD money", func(t *testing.T) {
		items := []LineItem{
			{ItemID: "a", UnitPrice: decimal.NewFromInt(10), Quantity: 2},
		}

		s := Summarize(items)

		assert.Equal(t, valueobject.USD, s.Subtotal.Currency())
		assert.True(t, s.Subtotal.Equals(valueobject.NewMoneyUSD(decimal.NewFromInt(20))))
		assert.True(t, s.Total.Equals(valueobject.NewMoneyUSD(decimal.RequireFromString("21.6"))))
	})

	t.Run("is recomputed from current items", func(t *testing.T) {
		items := []LineItem{
			{ItemID: "a", UnitPrice: decimal.NewFromInt(10), Quantity: 1},
		}
		before := Summarize(items)
		items[0].Quantity = 3
		after := Summarize(items)

		assert.Equal(t, "10.00", before.Subtotal.StringFixed(2))
		assert.Equal(t, "30.00", after.Subtotal.StringFixed(2))
	})
}
