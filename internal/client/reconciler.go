package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
)

// State is the reconciler's session state. It decides which persistence
// channel is authoritative for the cart store.
type State int

const (
	// StateAnonymous: the store is backed solely by the local channel.
	StateAnonymous State = iota
	// StateAuthenticating: transient; the one-time account cart fetch is
	// in flight.
	StateAuthenticating
	// StateAuthenticated: mutations write through locally and push to the
	// account cart in the background.
	StateAuthenticated
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Reconciler decides whether the cart store content originates from local or
// account state and performs the one-time fetch-and-replace when a session
// becomes authenticated. The login fetch is the only point where remote
// state overwrites in-memory state; afterwards user actions drive the store
// and are pushed outward with no read-back, so a stale in-flight push can
// never clobber a later local mutation.
type Reconciler struct {
	mu           sync.Mutex
	state        State
	store        *Store
	remote       RemoteCart
	logger       *zap.Logger
	fetchTimeout time.Duration
}

// NewReconciler creates a reconciler in the anonymous state
func NewReconciler(store *Store, remote RemoteCart, logger *zap.Logger, fetchTimeout time.Duration) *Reconciler {
	return &Reconciler{
		state:        StateAnonymous,
		store:        store,
		remote:       remote,
		logger:       logger,
		fetchTimeout: fetchTimeout,
	}
}

// State returns the current session state
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SetAuthenticated consumes the boolean session signal and drives the state
// machine: rising edge triggers the login reconciliation, falling edge the
// logout teardown. Repeated signals in the same state are no-ops.
func (r *Reconciler) SetAuthenticated(ctx context.Context, authenticated bool) {
	if authenticated {
		if r.State() == StateAnonymous {
			r.HandleLogin(ctx)
		}
		return
	}
	if r.State() != StateAnonymous {
		r.HandleLogout()
	}
}

// HandleLogin performs the anonymous-to-authenticated transition. The
// account cart is fetched once, bounded by the fetch timeout, and on success
// REPLACES the in-memory cart (last-fetch-wins; locally accumulated
// anonymous items are discarded) and is written back to the local cache. On
// failure the store keeps whatever local cache it had and the session
// proceeds; the user is never blocked on a fetch error.
func (r *Reconciler) HandleLogin(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = StateAuthenticating

	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	records, err := r.remote.Fetch(fetchCtx)
	if err != nil {
		r.logger.Warn("account cart fetch failed, keeping local cache",
			zap.Error(err),
		)
	} else {
		items := make([]cart.LineItem, len(records))
		for i, record := range records {
			items[i] = record.ToLineItem()
		}
		r.store.replace(items)
		r.logger.Info("account cart loaded",
			zap.Int("items", len(items)),
		)
	}

	r.store.attachRemote(r.remote)
	r.state = StateAuthenticated
}

// HandleLogout clears the store, deletes the local cache and returns to the
// anonymous state. The account cart is left untouched; it persists until
// explicitly cleared.
func (r *Reconciler) HandleLogout() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.detachRemote()
	r.store.Clear(ClearOptions{SyncRemote: false})
	r.state = StateAnonymous
}
