package models

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// ProductModel holds the catalog data captured onto cart lines at add time
type ProductModel struct {
	BaseModel
	ItemID    string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name      string          `gorm:"type:varchar(200);not null"`
	ImageRef  string          `gorm:"type:text"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToSnapshot converts the model to an add-time product snapshot
func (m *ProductModel) ToSnapshot() cart.ProductSnapshot {
	return cart.ProductSnapshot{
		ItemID:    m.ItemID,
		Name:      m.Name,
		ImageRef:  m.ImageRef,
		UnitPrice: m.UnitPrice,
	}
}
