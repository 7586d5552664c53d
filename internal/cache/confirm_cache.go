package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RemovalConfirmCache holds short-lived confirmation tokens for box item
// removal. Deleting a box item is a two-step flow: the client first requests
// removal and receives a token, then confirms with that token. A delete
// without a live token is refused.
type RemovalConfirmCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewRemovalConfirmCache creates a RemovalConfirmCache with the given token TTL.
func NewRemovalConfirmCache(redis *RedisClient, ttl time.Duration) *RemovalConfirmCache {
	return &RemovalConfirmCache{redis: redis, ttl: ttl}
}

func (c *RemovalConfirmCache) key(ownerID int, itemID string) string {
	return fmt.Sprintf("boxrm:%d:%s", ownerID, itemID)
}

// Issue creates a fresh confirmation token for the owner/item pair. Issuing
// again overwrites the previous token.
func (c *RemovalConfirmCache) Issue(ctx context.Context, ownerID int, itemID string) (string, error) {
	token := uuid.New().String()
	if err := c.redis.Set(ctx, c.key(ownerID, itemID), token, c.ttl); err != nil {
		return "", fmt.Errorf("failed to store confirmation token: %w", err)
	}
	return token, nil
}

// Check reports whether token matches the live token for the owner/item pair.
// A consumed or expired token no longer matches.
func (c *RemovalConfirmCache) Check(ctx context.Context, ownerID int, itemID, token string) (bool, error) {
	stored, err := c.redis.Get(ctx, c.key(ownerID, itemID))
	if err != nil {
		if IsNil(err) {
			return false, nil
		}
		return false, err
	}
	return token != "" && stored == token, nil
}

// Clear removes the token after a confirmed delete or an explicit cancel.
func (c *RemovalConfirmCache) Clear(ctx context.Context, ownerID int, itemID string) error {
	return c.redis.Delete(ctx, c.key(ownerID, itemID))
}
