package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/application/ledger"
	"github.com/redis/go-redis/v9"
)

// Default TTL for cached balance snapshots. Redemptions invalidate eagerly,
// so the TTL only bounds staleness after missed invalidations.
const defaultBalanceTTL = 5 * time.Minute

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisBalanceCache stores dashboard balance snapshots in Redis.
// This is suitable for distributed deployments where multiple instances
// need to share cached balances.
type RedisBalanceCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisBalanceCache creates a new Redis-based balance cache
func NewRedisBalanceCache(cfg RedisConfig) (*RedisBalanceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisBalanceCache{
		client:    client,
		keyPrefix: "dashboard:balance:",
		ttl:       defaultBalanceTTL,
	}, nil
}

// NewRedisBalanceCacheWithClient creates a cache with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisBalanceCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisBalanceCache {
	if keyPrefix == "" {
		keyPrefix = "dashboard:balance:"
	}
	if ttl == 0 {
		ttl = defaultBalanceTTL
	}
	return &RedisBalanceCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// GetBalance returns the cached balance snapshot, or nil on a miss
func (c *RedisBalanceCache) GetBalance(ctx context.Context, partnerID uuid.UUID) (*ledger.BalanceResult, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+partnerID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read balance snapshot: %w", err)
	}

	var result ledger.BalanceResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode balance snapshot: %w", err)
	}
	return &result, nil
}

// SetBalance stores a balance snapshot with the configured TTL
func (c *RedisBalanceCache) SetBalance(ctx context.Context, partnerID uuid.UUID, result *ledger.BalanceResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode balance snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+partnerID.String(), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store balance snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the partner's balance snapshot
func (c *RedisBalanceCache) Invalidate(ctx context.Context, partnerID uuid.UUID) error {
	if err := c.client.Del(ctx, c.keyPrefix+partnerID.String()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate balance snapshot: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisBalanceCache) Close() error {
	return c.client.Close()
}

// Ensure RedisBalanceCache implements the balance cache interface
var _ ledger.BalanceCache = (*RedisBalanceCache)(nil)
