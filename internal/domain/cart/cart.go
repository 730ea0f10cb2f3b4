package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MinQuantity is the floor for a line item quantity. Decrementing below it
// is a no-op; removal is an explicit separate operation.
const MinQuantity = 1

// ProductSnapshot carries the display and pricing fields captured at
// add-time. Cart prices are not live-linked to the catalog; later catalog
// price changes do not retroactively change a cart line.
type ProductSnapshot struct {
	ItemID    string
	Name      string
	ImageRef  string
	UnitPrice decimal.Decimal
}

// LineItem is one product entry in a cart with a quantity and a price
// snapshot. ItemID is an opaque product token, unique within a cart.
type LineItem struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	ImageRef  string          `json:"image_ref"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Amount returns the line total (unit price times quantity) as Money
func (i LineItem) Amount() valueobject.Money {
	return valueobject.NewMoneyUSD(i.UnitPrice).MultiplyByInt(int64(i.Quantity))
}

// Cart is the account-scoped cart aggregate. Items are kept in insertion
// order and are unique by ItemID.
type Cart struct {
	shared.BaseEntity
	UserID uuid.UUID
	Items  []LineItem
}

// NewCart creates an empty cart for the given user
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Items:      make([]LineItem, 0),
	}
}

// Find returns a pointer to the line item with the given ID, or nil
func (c *Cart) Find(itemID string) *LineItem {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddItem adds one unit of the product to the cart. If a line with the same
// ItemID already exists its quantity is incremented; otherwise a new line is
// appended with quantity 1. Always succeeds.
func (c *Cart) AddItem(snapshot ProductSnapshot) {
	if existing := c.Find(snapshot.ItemID); existing != nil {
		existing.Quantity++
		c.Touch()
		return
	}
	c.Items = append(c.Items, LineItem{
		ItemID:    snapshot.ItemID,
		Name:      snapshot.Name,
		ImageRef:  snapshot.ImageRef,
		UnitPrice: snapshot.UnitPrice,
		Quantity:  MinQuantity,
	})
	c.Touch()
}

// UpdateQuantity sets the quantity of a line item, flooring at MinQuantity.
// This path never removes a line. Returns false if the item is not in the
// cart (silent no-op for the caller).
func (c *Cart) UpdateQuantity(itemID string, quantity int) bool {
	item := c.Find(itemID)
	if item == nil {
		return false
	}
	if quantity < MinQuantity {
		quantity = MinQuantity
	}
	item.Quantity = quantity
	c.Touch()
	return true
}

// RemoveItem deletes the line item if present. Idempotent: removing an
// absent item returns false and leaves the cart unchanged.
func (c *Cart) RemoveItem(itemID string) bool {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.Touch()
			return true
		}
	}
	return false
}

// Clear empties the cart unconditionally
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
	c.Touch()
}

// IsEmpty returns true if the cart has no line items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Replace swaps the full item list, preserving the given order. Used when
// the account cart overwrites a cached copy.
func (c *Cart) Replace(items []LineItem) {
	c.Items = make([]LineItem, len(items))
	copy(c.Items, items)
	c.Touch()
}

// Summary computes the order summary from the current items
func (c *Cart) Summary() OrderSummary {
	return Summarize(c.Items)
}
