package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductCatalog resolves product display data at add time. The snapshot is
// frozen onto the line; later catalog changes do not touch existing lines.
type ProductCatalog interface {
	Snapshot(ctx context.Context, itemID string) (cart.ProductSnapshot, error)
}

// Cache is the read cache for cart line items
type Cache interface {
	Get(ctx context.Context, userID uuid.UUID) ([]cart.LineItem, bool, error)
	Set(ctx context.Context, userID uuid.UUID, items []cart.LineItem) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// Service handles account cart operations
type Service struct {
	repo    cart.Repository
	catalog ProductCatalog
	cache   Cache
	logger  *zap.Logger
}

// NewService creates a new cart Service. The cache is optional.
func NewService(repo cart.Repository, catalog ProductCatalog, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		catalog: catalog,
		cache:   cache,
		logger:  logger,
	}
}

// GetCart returns the user's cart. A user without a stored cart gets an
// empty one. Reads go through the cache when it is configured.
func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) (CartResponse, error) {
	if s.cache != nil {
		items, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("cart cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		} else if ok {
			return NewCartResponse(items), nil
		}
	}

	c, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return NewCartResponse(nil), nil
		}
		return CartResponse{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, c.Items); err != nil {
			s.logger.Warn("cart cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return NewCartResponse(c.Items), nil
}

// AddItem upserts a line to the given quantity. The first appearance of an
// item captures its catalog snapshot; an unresolved item still gets a line so
// client pushes are never lost.
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (CartResponse, error) {
	quantity := req.Quantity
	if quantity < cart.MinQuantity {
		quantity = cart.MinQuantity
	}

	c, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	if c.Find(req.ItemID) == nil {
		snapshot, err := s.catalog.Snapshot(ctx, req.ItemID)
		if err != nil {
			s.logger.Warn("product lookup failed, storing bare line",
				zap.String("item_id", req.ItemID),
				zap.Error(err),
			)
			snapshot = cart.ProductSnapshot{ItemID: req.ItemID}
		}
		c.AddItem(snapshot)
	}
	c.UpdateQuantity(req.ItemID, quantity)

	return s.persist(ctx, c)
}

// UpdateItemQuantity sets a line's quantity with a floor of one. An absent
// item is a no-op.
func (s *Service) UpdateItemQuantity(ctx context.Context, userID uuid.UUID, itemID string, quantity int) (CartResponse, error) {
	c, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	if !c.UpdateQuantity(itemID, quantity) {
		return NewCartResponse(c.Items), nil
	}
	return s.persist(ctx, c)
}

// RemoveItem deletes a line. Removing an absent item is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID uuid.UUID, itemID string) (CartResponse, error) {
	c, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	if !c.RemoveItem(itemID) {
		return NewCartResponse(c.Items), nil
	}
	return s.persist(ctx, c)
}

// ClearCart removes the user's stored cart entirely
func (s *Service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) loadOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return cart.NewCart(userID), nil
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) persist(ctx context.Context, c *cart.Cart) (CartResponse, error) {
	if err := s.repo.Save(ctx, c); err != nil {
		return CartResponse{}, err
	}
	s.invalidate(ctx, c.UserID)
	return NewCartResponse(c.Items), nil
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("cart cache invalidation failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
