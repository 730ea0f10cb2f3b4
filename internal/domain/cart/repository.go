package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for account carts.
// One cart per user; the cart persists until explicitly cleared.
type Repository interface {
	// FindByUserID returns the user's cart, or shared.ErrNotFound if the
	// user has never stored one.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// Save persists the cart, replacing any stored item list.
	Save(ctx context.Context, c *Cart) error
	// DeleteByUserID removes the user's cart and all its items.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
