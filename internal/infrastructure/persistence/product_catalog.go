package persistence

import (
	"context"
	"errors"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductCatalog resolves product snapshots from the products table
type GormProductCatalog struct {
	db *gorm.DB
}

// NewGormProductCatalog creates a new GormProductCatalog
func NewGormProductCatalog(db *gorm.DB) *GormProductCatalog {
	return &GormProductCatalog{db: db}
}

// Snapshot returns the add-time snapshot for an item
func (r *GormProductCatalog) Snapshot(ctx context.Context, itemID string) (cart.ProductSnapshot, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.ProductSnapshot{}, shared.ErrNotFound
		}
		return cart.ProductSnapshot{}, err
	}
	return model.ToSnapshot(), nil
}

// Ensure GormProductCatalog implements the application collaborator
var _ cartapp.ProductCatalog = (*GormProductCatalog)(nil)
