package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mocks
// =============================================================================

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockProductCatalog is a mock implementation of ProductCatalog
type MockProductCatalog struct {
	mock.Mock
}

func (m *MockProductCatalog) Snapshot(ctx context.Context, itemID string) (cart.ProductSnapshot, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(cart.ProductSnapshot), args.Error(1)
}

// MockCache is a mock implementation of Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, userID uuid.UUID) ([]cart.LineItem, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]cart.LineItem), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, userID uuid.UUID, items []cart.LineItem) error {
	args := m.Called(ctx, userID, items)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

func storedCart(userID uuid.UUID) *cart.Cart {
	c := cart.NewCart(userID)
	c.AddItem(cart.ProductSnapshot{ItemID: "sku-1", Name: "Keyboard", UnitPrice: decimal.RequireFromString("10")})
	c.UpdateQuantity("sku-1", 2)
	return c
}

func snapshotFixture(itemID string) cart.ProductSnapshot {
	return cart.ProductSnapshot{
		ItemID:    itemID,
		Name:      "Widget",
		ImageRef:  "widget.png",
		UnitPrice: decimal.RequireFromString("3.50"),
	}
}

// =============================================================================
// GetCart
// =============================================================================

func TestService_GetCart(t *testing.T) {
	ctx := context.Background()

	t.Run("returns cached items on cache hit", func(t *testing.T) {
		repo := new(MockCartRepository)
		cacheMock := new(MockCache)
		userID := uuid.New()

		items := []cart.LineItem{{ItemID: "sku-1", Name: "Keyboard", UnitPrice: decimal.RequireFromString("10"), Quantity: 2}}
		cacheMock.On("Get", ctx, userID).Return(items, true, nil)

		svc := NewService(repo, new(MockProductCatalog), cacheMock, zap.NewNop())
		resp, err := svc.GetCart(ctx, userID)

		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "sku-1", resp.Items[0].ItemID)
		assert.True(t, resp.Summary.Subtotal.Equal(decimal.RequireFromString("20")))
		repo.AssertNotCalled(t, "FindByUserID")
		cacheMock.AssertExpectations(t)
	})

	t.Run("falls through to repository and primes cache", func(t *testing.T) {
		repo := new(MockCartRepository)
		cacheMock := new(MockCache)
		userID := uuid.New()
		stored := storedCart(userID)

		cacheMock.On("Get", ctx, userID).Return(nil, false, nil)
		repo.On("FindByUserID", ctx, userID).Return(stored, nil)
		cacheMock.On("Set", ctx, userID, stored.Items).Return(nil)

		svc := NewService(repo, new(MockProductCatalog), cacheMock, zap.NewNop())
		resp, err := svc.GetCart(ctx, userID)

		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 2, resp.Items[0].Quantity)
		repo.AssertExpectations(t)
		cacheMock.AssertExpectations(t)
	})

	t.Run("missing cart yields empty response", func(t *testing.T) {
		repo := new(MockCartRepository)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)

		svc := NewService(repo, new(MockProductCatalog), nil, zap.NewNop())
		resp, err := svc.GetCart(ctx, userID)

		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		assert.Equal(t, 0, resp.Summary.ItemCount)
		assert.True(t, resp.Summary.Total.IsZero())
	})

	t.Run("cache read failure falls back to repository", func(t *testing.T) {
		repo := new(MockCartRepository)
		cacheMock := new(MockCache)
		userID := uuid.New()
		stored := storedCart(userID)

		cacheMock.On("Get", ctx, userID).Return(nil, false, errors.New("redis down"))
		repo.On("FindByUserID", ctx, userID).Return(stored, nil)
		cacheMock.On("Set", ctx, userID, stored.Items).Return(nil)

		svc := NewService(repo, new(MockProductCatalog), cacheMock, zap.NewNop())
		resp, err := svc.GetCart(ctx, userID)

		require.NoError(t, err)
		assert.Len(t, resp.Items, 1)
	})

	t.Run("propagates repository failure", func(t *testing.T) {
		repo := new(MockCartRepository)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(nil, errors.New("db down"))

		svc := NewService(repo, new(MockProductCatalog), nil, zap.NewNop())
		_, err := svc.GetCart(ctx, userID)

		assert.Error(t, err)
	})
}

// =============================================================================
// AddItem
// =============================================================================

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates cart and line with catalog snapshot", func(t *testing.T) {
		repo := new(MockCartRepository)
		catalog := new(MockProductCatalog)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)
		catalog.On("Snapshot", ctx, "sku-9").Return(snapshotFixture("sku-9"), nil)
		repo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

		svc := NewService(repo, catalog, nil, zap.NewNop())
		resp, err := svc.AddItem(ctx, userID, AddItemRequest{ItemID: "sku-9", Quantity: 3})

		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Widget", resp.Items[0].Name)
		assert.Equal(t, 3, resp.Items[0].Quantity)
		repo.AssertExpectations(t)
	})

	t.Run("existing line is set to the requested quantity", func(t *testing.T) {
		repo := new(MockCartRepository)
		catalog := new(MockProductCatalog)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(storedCart(userID), nil)
		repo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

		svc := NewService(repo, catalog, nil, zap.NewNop())
		resp, err := svc.AddItem(ctx, userID, AddItemRequest{ItemID: "sku-1", Quantity: 5})

		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 5, resp.Items[0].Quantity)
		catalog.AssertNotCalled(t, "Snapshot")
	})

	t.Run("unresolved product stores a bare line", func(t *testing.T) {
		repo := new(MockCartRepository)
		catalog := new(MockProductCatalog)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)
		catalog.On("Snapshot", ctx, "sku-gone").Return(cart.ProductSnapshot{}, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

		svc := NewService(repo, catalog, nil, zap.NewNop())
		resp, err := svc.AddItem(ctx, userID, AddItemRequest{ItemID: "sku-gone", Quantity: 1})

		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "sku-gone", resp.Items[0].ItemID)
		assert.Empty(t, resp.Items[0].Name)
		assert.True(t, resp.Items[0].UnitPrice.IsZero())
	})

	t.Run("zero quantity is floored to one", func(t *testing.T) {
		repo := new(MockCartRepository)
		catalog := new(MockProductCatalog)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)
		catalog.On("Snapshot", ctx, "sku-9").Return(snapshotFixture("sku-9"), nil)
		repo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

		svc := NewService(repo, catalog, nil, zap.NewNop())
		resp, err := svc.AddItem(ctx, userID, AddItemRequest{ItemID: "sku-9"})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Items[0].Quantity)
	})

	t.Run("invalidates cache after save", func(t *testing.T) {
		repo := new(MockCartRepository)
		catalog := new(MockProductCatalog)
		cacheMock := new(MockCache)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(storedCart(userID), nil)
		repo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)
		cacheMock.On("Invalidate", ctx, userID).Return(nil)

		svc := NewService(repo, catalog, cacheMock, zap.NewNop())
		_, err := svc.AddItem(ctx, userID, AddItemRequest{ItemID: "sku-1", Quantity: 2})

		require.NoError(t, err)
		cacheMock.AssertExpectations(t)
	})

	t.Run("propagates save failure", func(t *testing.T) {
		repo := new(MockCartRepository)
		catalog := new(MockProductCatalog)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(storedCart(userID), nil)
		repo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(errors.New("db down"))

		svc := NewService(repo, catalog, nil, zap.NewNop())
		_, err := svc.AddItem(ctx, userID, AddItemRequest{ItemID: "sku-1", Quantity: 2})

		assert.Error(t, err)
	})
}

// =============================================================================
// UpdateItemQuantity
// =============================================================================

func TestService_UpdateItemQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("updates quantity and saves", func(t *testing.T) {
		repo := new(MockCartRepository)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(storedCart(userID), nil)
		repo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

		svc := NewService(repo, new(MockProductCatalog), nil, zap.NewNop())
		resp, err := svc.UpdateItemQuantity(ctx, userID, "sku-1", 7)

		require.NoError(t, err)
		assert.Equal(t, 7, resp.Items[0].Quantity)
	})

	t.Run("floors quantity at one", func(t *testing.T) {
		repo := new(MockCartRepository)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(storedCart(userID), nil)
		repo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

		svc := NewService(repo, new(MockProductCatalog), nil, zap.NewNop())
		resp, err := svc.UpdateItemQuantity(ctx, userID, "sku-1", -4)

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Items[0].Quantity)
	})

	t.Run("absent item is a no-op without save", func(t *testing.T) {
		repo := new(MockCartRepository)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(storedCart(userID), nil)

		svc := NewService(repo, new(MockProductCatalog), nil, zap.NewNop())
		resp, err := svc.UpdateItemQuantity(ctx, userID, "sku-missing", 3)

		require.NoError(t, err)
		assert.Len(t, resp.Items, 1)
		repo.AssertNotCalled(t, "Save")
	})
}

// =============================================================================
// RemoveItem
// =============================================================================

func TestService_RemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the line and saves", func(t *testing.T) {
		repo := new(MockCartRepository)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(storedCart(userID), nil)
		repo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

		svc := NewService(repo, new(MockProductCatalog), nil, zap.NewNop())
		resp, err := svc.RemoveItem(ctx, userID, "sku-1")

		require.NoError(t, err)
		assert.Empty(t, resp.Items)
	})

	t.Run("removing an absent item is a no-op without save", func(t *testing.T) {
		repo := new(MockCartRepository)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(storedCart(userID), nil)

		svc := NewService(repo, new(MockProductCatalog), nil, zap.NewNop())
		resp, err := svc.RemoveItem(ctx, userID, "sku-missing")

		require.NoError(t, err)
		assert.Len(t, resp.Items, 1)
		repo.AssertNotCalled(t, "Save")
	})
}

// =============================================================================
// ClearCart
// =============================================================================

func TestService_ClearCart(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes stored cart and invalidates cache", func(t *testing.T) {
		repo := new(MockCartRepository)
		cacheMock := new(MockCache)
		userID := uuid.New()

		repo.On("DeleteByUserID", ctx, userID).Return(nil)
		cacheMock.On("Invalidate", ctx, userID).Return(nil)

		svc := NewService(repo, new(MockProductCatalog), cacheMock, zap.NewNop())
		err := svc.ClearCart(ctx, userID)

		require.NoError(t, err)
		repo.AssertExpectations(t)
		cacheMock.AssertExpectations(t)
	})

	t.Run("cache invalidation failure is swallowed", func(t *testing.T) {
		repo := new(MockCartRepository)
		cacheMock := new(MockCache)
		userID := uuid.New()

		repo.On("DeleteByUserID", ctx, userID).Return(nil)
		cacheMock.On("Invalidate", ctx, userID).Return(errors.New("redis down"))

		svc := NewService(repo, new(MockProductCatalog), cacheMock, zap.NewNop())
		err := svc.ClearCart(ctx, userID)

		assert.NoError(t, err)
	})

	t.Run("propagates delete failure", func(t *testing.T) {
		repo := new(MockCartRepository)
		userID := uuid.New()

		repo.On("DeleteByUserID", ctx, userID).Return(errors.New("db down"))

		svc := NewService(repo, new(MockProductCatalog), nil, zap.NewNop())
		err := svc.ClearCart(ctx, userID)

		assert.Error(t, err)
	})
}
