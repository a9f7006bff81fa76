// internal/domain/cart/guest.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	guestCartKeyPrefix = "cart:guest:%s"
	guestCartTTL       = 24 * time.Hour
)

// GuestCache stores anonymous session carts in Redis. Sessions expire after
// 24 hours of inactivity.
type GuestCache struct {
	client *redis.Client
}

// NewGuestCache creates a new guest cart cache
func NewGuestCache(client *redis.Client) *GuestCache {
	return &GuestCache{client: client}
}

func guestCartKey(sessionID string) string {
	return fmt.Sprintf(guestCartKeyPrefix, sessionID)
}

// Load returns the guest cart lines for a session. A missing key is an empty
// cart, not an error.
func (c *GuestCache) Load(ctx context.Context, sessionID string) ([]Line, error) {
	data, err := c.client.Get(ctx, guestCartKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Line{}, nil
		}
		return nil, fmt.Errorf("failed to load guest cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		return nil, fmt.Errorf("failed to decode guest cart: %w", err)
	}
	return lines, nil
}

// Save replaces the guest cart for a session and refreshes its TTL
func (c *GuestCache) Save(ctx context.Context, sessionID string, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}
	if err := c.client.Set(ctx, guestCartKey(sessionID), data, guestCartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save guest cart: %w", err)
	}
	return nil
}

// Drain returns the guest cart lines and deletes the session key
func (c *GuestCache) Drain(ctx context.Context, sessionID string) ([]Line, error) {
	lines, err := c.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.client.Del(ctx, guestCartKey(sessionID)).Err(); err != nil {
		return nil, fmt.Errorf("failed to clear guest cart: %w", err)
	}
	return lines, nil
}
