package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList tracks access tokens revoked before their natural expiry,
// either individually by JTI (logout) or per partner (forced sign-out of
// every session issued before a cutoff).
type RevocationList interface {
	// Revoke marks a single token's JTI as revoked. The TTL should match
	// the remaining token lifetime.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a token's JTI has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokePartnerSessions records a cutoff for the partner; tokens issued
	// at or before it are rejected.
	RevokePartnerSessions(ctx context.Context, partnerID string, ttl time.Duration) error

	// IsSessionRevoked reports whether a token issued at the given time
	// falls under the partner's revocation cutoff.
	IsSessionRevoked(ctx context.Context, partnerID string, issuedAt time.Time) (bool, error)
}

// RedisRevocationList implements RevocationList on Redis so revocations
// propagate across instances.
type RedisRevocationList struct {
	client *redis.Client
}

// RedisRevocationConfig holds the Redis connection settings for the list
type RedisRevocationConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

const revocationKeyPrefix = "auth:revoked:"

// NewRedisRevocationList connects to Redis and verifies the connection
func NewRedisRevocationList(cfg RedisRevocationConfig) (*RedisRevocationList, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for token revocations: %w", err)
	}

	return &RedisRevocationList{client: client}, nil
}

func jtiKey(jti string) string {
	return revocationKeyPrefix + "jti:" + jti
}

func partnerKey(partnerID string) string {
	return revocationKeyPrefix + "partner:" + partnerID
}

func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := l.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := l.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}

func (l *RedisRevocationList) RevokePartnerSessions(ctx context.Context, partnerID string, ttl time.Duration) error {
	cutoff := time.Now().Unix()
	if err := l.client.Set(ctx, partnerKey(partnerID), cutoff, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke partner sessions: %w", err)
	}
	return nil
}

func (l *RedisRevocationList) IsSessionRevoked(ctx context.Context, partnerID string, issuedAt time.Time) (bool, error) {
	raw, err := l.client.Get(ctx, partnerKey(partnerID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}

	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation cutoff: %w", err)
	}

	return issuedAt.Unix() <= cutoff, nil
}

// Close closes the Redis client
func (l *RedisRevocationList) Close() error {
	return l.client.Close()
}

var _ RevocationList = (*RedisRevocationList)(nil)

// InMemoryRevocationList is a single-instance fallback. Revocations do not
// propagate across instances, so it is only suitable for tests and local runs.
type InMemoryRevocationList struct {
	mu       sync.RWMutex
	jtis     map[string]time.Time // JTI -> revocation entry expiry
	partners map[string]time.Time // partner ID -> cutoff
}

// NewInMemoryRevocationList creates an empty in-memory revocation list
func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{
		jtis:     make(map[string]time.Time),
		partners: make(map[string]time.Time),
	}
}

func (l *InMemoryRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jtis[jti] = time.Now().Add(ttl)
	return nil
}

func (l *InMemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry, ok := l.jtis[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		// The token itself has expired, the entry is no longer needed
		delete(l.jtis, jti)
		return false, nil
	}
	return true, nil
}

func (l *InMemoryRevocationList) RevokePartnerSessions(_ context.Context, partnerID string, _ time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.partners[partnerID] = time.Now()
	return nil
}

func (l *InMemoryRevocationList) IsSessionRevoked(_ context.Context, partnerID string, issuedAt time.Time) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cutoff, ok := l.partners[partnerID]
	if !ok {
		return false, nil
	}
	return issuedAt.UnixNano() <= cutoff.UnixNano(), nil
}

var _ RevocationList = (*InMemoryRevocationList)(nil)
