package cart

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// LineItemResponse is the wire form of a cart line
type LineItemResponse struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	ImageRef  string          `json:"image_ref,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// SummaryResponse carries the derived order totals. Amounts are full
// precision; display-layer rounding is left to clients.
type SummaryResponse struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// CartResponse is the API representation of a user's cart
type CartResponse struct {
	Items   []LineItemResponse `json:"items"`
	Summary SummaryResponse    `json:"summary"`
}

// AddItemRequest is the payload for adding an item. Quantity is the line's
// resulting quantity, not an increment, so repeated deliveries converge.
type AddItemRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1"`
}

// UpdateItemRequest is the payload for setting a line's quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// NewCartResponse builds the API representation from domain line items.
// The summary is always recomputed, never stored.
func NewCartResponse(items []cart.LineItem) CartResponse {
	lines := make([]LineItemResponse, len(items))
	for i, item := range items {
		lines[i] = LineItemResponse{
			ItemID:    item.ItemID,
			Name:      item.Name,
			ImageRef:  item.ImageRef,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	summary := cart.Summarize(items)
	return CartResponse{
		Items: lines,
		Summary: SummaryResponse{
			Subtotal:  summary.Subtotal.Amount(),
			Tax:       summary.Tax.Amount(),
			Total:     summary.Total.Amount(),
			ItemCount: summary.ItemCount,
		},
	}
}
