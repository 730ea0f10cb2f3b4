package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// CartModel is the persistence model for the Cart aggregate.
// Each user owns at most one cart.
type CartModel struct {
	BaseModel
	UserID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Items  []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel is the persistence model for a cart line item.
// Position preserves the insertion order of lines within a cart.
type CartItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item,priority:1"`
	ItemID    string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_cart_item,priority:2"`
	Name      string          `gorm:"type:varchar(200);not null"`
	ImageRef  string          `gorm:"type:text"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity  int             `gorm:"not null"`
	Position  int             `gorm:"not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain Cart aggregate.
// Items are expected to be loaded in position order.
func (m *CartModel) ToDomain() *cart.Cart {
	items := make([]cart.LineItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = cart.LineItem{
			ItemID:    item.ItemID,
			Name:      item.Name,
			ImageRef:  item.ImageRef,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}
	return &cart.Cart{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID: m.UserID,
		Items:  items,
	}
}

// FromDomain populates the persistence model from a domain Cart aggregate.
func (m *CartModel) FromDomain(c *cart.Cart) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.UserID = c.UserID
	m.Items = make([]CartItemModel, len(c.Items))
	for i, item := range c.Items {
		m.Items[i] = CartItemModel{
			ID:        uuid.New(),
			CartID:    c.ID,
			ItemID:    item.ItemID,
			Name:      item.Name,
			ImageRef:  item.ImageRef,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Position:  i,
		}
	}
}

// CartModelFromDomain creates a new persistence model from a domain Cart aggregate.
func CartModelFromDomain(c *cart.Cart) *CartModel {
	m := &CartModel{}
	m.FromDomain(c)
	return m
}
