package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
)

const cartKeyPrefix = "cart:user:"

// CartCache is a Redis-backed read cache for account carts. Entries are
// invalidated on every cart mutation and expire after the configured TTL
// as a safety net.
type CartCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewCartCache creates a CartCache with its own Redis connection
func NewCartCache(cfg config.RedisConfig, ttl time.Duration) (*CartCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewCartCacheWithClient(client, ttl), nil
}

// NewCartCacheWithClient creates a CartCache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewCartCacheWithClient(client *redis.Client, ttl time.Duration) *CartCache {
	return &CartCache{
		client:    client,
		keyPrefix: cartKeyPrefix,
		ttl:       ttl,
	}
}

// Get returns the cached line items for a user. The second return value
// reports whether an entry was present.
func (c *CartCache) Get(ctx context.Context, userID uuid.UUID) ([]cart.LineItem, bool, error) {
	payload, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cart cache: %w", err)
	}

	var items []cart.LineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("failed to decode cart cache entry: %w", err)
	}
	return items, true, nil
}

// Set stores the line items for a user with the configured TTL
func (c *CartCache) Set(ctx context.Context, userID uuid.UUID, items []cart.LineItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart cache entry: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart cache: %w", err)
	}
	return nil
}

// Invalidate removes the cached entry for a user
func (c *CartCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cart cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *CartCache) Close() error {
	return c.client.Close()
}

func (c *CartCache) key(userID uuid.UUID) string {
	return c.keyPrefix + userID.String()
}
