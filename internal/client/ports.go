// Package client implements the storefront cart engine: the in-memory cart
// store, the session reconciliation state machine, and the ports to the
// device-scoped and account-scoped persistence channels.
package client

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/cart"
)

// LocalCart is the synchronous, device-scoped persistence channel. It is
// written through on every mutation and read once when the store is built.
type LocalCart interface {
	// Read returns the cached item list; an empty list if nothing is stored.
	Read() ([]cart.LineItem, error)
	// Write replaces the cached item list.
	Write(items []cart.LineItem) error
	// Delete removes the cached cart entirely.
	Delete() error
}

// RemoteCart is the asynchronous, account-scoped channel. Every call
// requires an authenticated session. Mutation methods map 1:1 to store
// operations and are invoked fire-and-forget through the task runner.
type RemoteCart interface {
	Fetch(ctx context.Context) ([]RemoteLineItem, error)
	AddItem(ctx context.Context, itemID string, quantity int) error
	UpdateItem(ctx context.Context, itemID string, quantity int) error
	RemoveItem(ctx context.Context, itemID string) error
	Clear(ctx context.Context) error
}

// RemoteLineItem is an account cart record normalized by the remote channel
// to expose a single canonical ItemID.
type RemoteLineItem struct {
	ItemID    string
	Name      string
	ImageRef  string
	UnitPrice decimal.Decimal
	Quantity  int
}

// ToLineItem builds a cart line from whatever fields the remote record
// carries. No catalog validation happens here: a record for a product that
// no longer resolves still becomes a line item.
func (r RemoteLineItem) ToLineItem() cart.LineItem {
	quantity := r.Quantity
	if quantity < cart.MinQuantity {
		quantity = cart.MinQuantity
	}
	return cart.LineItem{
		ItemID:    r.ItemID,
		Name:      r.Name,
		ImageRef:  r.ImageRef,
		UnitPrice: r.UnitPrice,
		Quantity:  quantity,
	}
}
