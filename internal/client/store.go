package client

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/task"
)

// Store is the single in-memory source of truth for the active cart during
// a session. All rendering and pricing reads go through it. Mutations never
// fail: local persistence errors are logged and swallowed, remote pushes are
// best-effort background tasks. The store must be constructed once at
// application start and passed by reference to whatever needs it.
type Store struct {
	mu     sync.Mutex
	cart   *cart.Cart
	isOpen bool

	local  LocalCart
	remote RemoteCart // nil while no account owns the cart
	runner task.Runner
	logger *zap.Logger
}

// ClearOptions controls how far a clear propagates
type ClearOptions struct {
	// SyncRemote also clears the account cart, best-effort, when a remote
	// owner is attached.
	SyncRemote bool
}

// NewStore builds a store hydrated from the local cache. A missing or
// unreadable cache yields an empty cart; the session stays usable either way.
func NewStore(local LocalCart, runner task.Runner, logger *zap.Logger) *Store {
	s := &Store{
		cart:   cart.NewCart(uuid.Nil),
		local:  local,
		runner: runner,
		logger: logger,
	}
	items, err := local.Read()
	if err != nil {
		logger.Warn("local cart cache unreadable, starting empty", zap.Error(err))
		return s
	}
	s.cart.Replace(items)
	return s
}

// Items returns a copy of the current line items in insertion order
func (s *Store) Items() []cart.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]cart.LineItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return items
}

// Summary recomputes the order summary from the current items. Never cached.
func (s *Store) Summary() cart.OrderSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Summary()
}

// IsOpen reports the transient cart panel visibility
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

// Open marks the cart panel visible. Not persisted.
func (s *Store) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = true
}

// Close marks the cart panel hidden. Not persisted.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = false
}

// AddItem adds one unit of the product, capturing its snapshot on first add
func (s *Store) AddItem(snapshot cart.ProductSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.AddItem(snapshot)
	s.mirrorLocal()

	if remote := s.remote; remote != nil {
		item := s.cart.Find(snapshot.ItemID)
		quantity := item.Quantity
		itemID := snapshot.ItemID
		s.runner.Submit("cart.push_add", func(ctx context.Context) error {
			return remote.AddItem(ctx, itemID, quantity)
		})
	}
}

// UpdateQuantity sets a line's quantity with a floor of one. Unknown items
// are a silent no-op.
func (s *Store) UpdateQuantity(itemID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.UpdateQuantity(itemID, quantity) {
		return
	}
	s.mirrorLocal()

	if remote := s.remote; remote != nil {
		applied := s.cart.Find(itemID).Quantity
		s.runner.Submit("cart.push_update", func(ctx context.Context) error {
			return remote.UpdateItem(ctx, itemID, applied)
		})
	}
}

// RemoveItem deletes a line. Removing an absent item is a no-op.
func (s *Store) RemoveItem(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.RemoveItem(itemID) {
		return
	}
	s.mirrorLocal()

	if remote := s.remote; remote != nil {
		s.runner.Submit("cart.push_remove", func(ctx context.Context) error {
			return remote.RemoveItem(ctx, itemID)
		})
	}
}

// Clear empties the cart and deletes the local cache synchronously. The
// remote clear, when requested and a remote owner exists, is best-effort: a
// failure never rolls back the local clear.
func (s *Store) Clear(opts ClearOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	if err := s.local.Delete(); err != nil {
		s.logger.Warn("failed to delete local cart cache", zap.Error(err))
	}

	if remote := s.remote; opts.SyncRemote && remote != nil {
		s.runner.Submit("cart.push_clear", func(ctx context.Context) error {
			return remote.Clear(ctx)
		})
	}
}

// replace overwrites the in-memory items and rewrites the local cache. This
// is the only path where external state overwrites the in-memory cart; it is
// reserved for the login-time fetch.
func (s *Store) replace(items []cart.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Replace(items)
	s.mirrorLocal()
}

// attachRemote enables best-effort pushes to the account cart
func (s *Store) attachRemote(remote RemoteCart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = remote
}

// detachRemote stops pushing to the account cart
func (s *Store) detachRemote() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = nil
}

// mirrorLocal writes the current items through to the local channel.
// Callers must hold s.mu. Failures leave the in-memory cart authoritative
// for the session.
func (s *Store) mirrorLocal() {
	items := make([]cart.LineItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	if err := s.local.Write(items); err != nil {
		s.logger.Warn("failed to write local cart cache", zap.Error(err))
	}
}
