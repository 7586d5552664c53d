package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteData is a cached totals quote for a customer's box, keyed by owner.
// It bridges the quote step and the checkout step the same way an inquiry
// precedes a payment.
type QuoteData struct {
	OwnerID        int             `json:"ownerId"`
	DeliveryMethod string          `json:"deliveryMethod"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	GST            decimal.Decimal `json:"gst"`
	DeliveryCost   decimal.Decimal `json:"deliveryCost"`
	Total          decimal.Decimal `json:"total"`
	ItemCount      int             `json:"itemCount"`
	CachedAt       time.Time       `json:"cachedAt"`
}

// QuoteCache provides quote caching operations.
type QuoteCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewQuoteCache creates a new QuoteCache.
func NewQuoteCache(redis *RedisClient, ttl time.Duration) *QuoteCache {
	return &QuoteCache{redis: redis, ttl: ttl}
}

func (c *QuoteCache) key(ownerID int) string {
	return fmt.Sprintf("quote:%d", ownerID)
}

// Set stores the latest quote for an owner, replacing any previous one.
func (c *QuoteCache) Set(ctx context.Context, data *QuoteData) error {
	data.CachedAt = time.Now()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal quote data: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(data.OwnerID), string(jsonData), c.ttl); err != nil {
		return fmt.Errorf("failed to set quote key: %w", err)
	}
	return nil
}

// Get retrieves the cached quote for an owner, or nil when absent.
func (c *QuoteCache) Get(ctx context.Context, ownerID int) (*QuoteData, error) {
	jsonData, err := c.redis.Get(ctx, c.key(ownerID))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, err
	}

	var data QuoteData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote data: %w", err)
	}
	return &data, nil
}

// Delete drops the cached quote, used once a checkout completes.
func (c *QuoteCache) Delete(ctx context.Context, ownerID int) error {
	return c.redis.Delete(ctx, c.key(ownerID))
}
