// Package engine assembles the cart engine from configuration: local cache,
// remote channel, background runner, store and reconciler. A process builds
// one Engine at startup and shares its Store by reference.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/client"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/localstore"
	"github.com/storefront/backend/internal/infrastructure/remote"
	"github.com/storefront/backend/internal/infrastructure/task"
)

// Engine bundles the composed cart components. Store and Reconciler are the
// public surface; the channels behind them are owned by the engine and torn
// down through Close.
type Engine struct {
	Store      *client.Store
	Reconciler *client.Reconciler

	local  *localstore.SQLiteStore
	runner *task.BackgroundRunner
}

// New composes a cart engine from the cart configuration. The store is
// hydrated from the local cache at cfg.LocalCachePath; the remote channel
// targets cfg.RemoteBaseURL and authenticates via token. The engine starts in
// the anonymous state regardless of whether a token is available.
func New(cfg config.CartConfig, token remote.TokenProvider, logger *zap.Logger) (*Engine, error) {
	local, err := localstore.Open(cfg.LocalCachePath)
	if err != nil {
		return nil, fmt.Errorf("open local cart cache: %w", err)
	}

	remoteCart, err := remote.NewClient(remote.Config{
		BaseURL: cfg.RemoteBaseURL,
		Timeout: cfg.RemoteTimeout,
	}, token)
	if err != nil {
		_ = local.Close()
		return nil, err
	}

	runner := task.NewBackgroundRunner(logger, cfg.RemoteTimeout)
	store := client.NewStore(local, runner, logger)
	reconciler := client.NewReconciler(store, remoteCart, logger, cfg.RemoteTimeout)

	return &Engine{
		Store:      store,
		Reconciler: reconciler,
		local:      local,
		runner:     runner,
	}, nil
}

// Close waits for in-flight background pushes and releases the local cache
func (e *Engine) Close() error {
	e.runner.Wait()
	return e.local.Close()
}
