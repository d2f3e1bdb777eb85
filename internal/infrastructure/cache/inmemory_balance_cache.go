package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/application/ledger"
)

// balanceEntry holds a cached snapshot with its expiration
type balanceEntry struct {
	result    *ledger.BalanceResult
	expiresAt time.Time
}

// InMemoryBalanceCache implements the balance cache using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryBalanceCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]balanceEntry
	ttl     time.Duration
}

// NewInMemoryBalanceCache creates a new in-memory balance cache
func NewInMemoryBalanceCache() *InMemoryBalanceCache {
	return &InMemoryBalanceCache{
		entries: make(map[uuid.UUID]balanceEntry),
		ttl:     defaultBalanceTTL,
	}
}

// GetBalance returns the cached balance snapshot, or nil on a miss
func (c *InMemoryBalanceCache) GetBalance(_ context.Context, partnerID uuid.UUID) (*ledger.BalanceResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[partnerID]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, nil
	}
	return e.result, nil
}

// SetBalance stores a balance snapshot with the configured TTL
func (c *InMemoryBalanceCache) SetBalance(_ context.Context, partnerID uuid.UUID, result *ledger.BalanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[partnerID] = balanceEntry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops the partner's balance snapshot
func (c *InMemoryBalanceCache) Invalidate(_ context.Context, partnerID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, partnerID)
	return nil
}

// Ensure InMemoryBalanceCache implements the balance cache interface
var _ ledger.BalanceCache = (*InMemoryBalanceCache)(nil)
