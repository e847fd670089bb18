// Package redis tracks revoked access tokens. A token id lives in the store
// only as long as the token itself would have stayed valid.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked"

// Repository represents the APIs used to track revoked tokens in redis.
type Repository struct {
	client *redis.Client
}

// NewRepository creates a new redis repository.
func NewRepository(c *redis.Client) *Repository {
	return &Repository{
		client: c,
	}
}

// Revoke marks the token id as revoked for the remaining token lifetime.
func (r *Repository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		//already expired, nothing to track
		return nil
	}

	key := keyPrefix + ":" + jti
	if err := r.client.Set(ctx, key, 1, ttl).Err(); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id has been revoked.
func (r *Repository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	key := keyPrefix + ":" + jti

	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}

	return n > 0, nil
}
