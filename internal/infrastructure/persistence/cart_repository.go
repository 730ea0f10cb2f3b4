package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUserID finds the cart owned by the given user.
// Items are loaded in the order they were added.
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists the cart and its full line item set. Existing items are
// replaced so positions always reflect the aggregate's current order.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	model := models.CartModelFromDomain(c)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
			}).
			Create(model).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", model.ID).
			Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}

		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// DeleteByUserID removes the user's cart and its items. Deleting a cart
// that does not exist is not an error.
func (r *GormCartRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.CartModel
		if err := tx.Where("user_id = ?", userID).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Where("cart_id = ?", model.ID).
			Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model).Error
	})
}

// Ensure GormCartRepository implements the domain repository
var _ cart.Repository = (*GormCartRepository)(nil)
