package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shipment-compliance-service/internal/domain"
	"shipment-compliance-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

// RedisStatusCache is a Redis-backed cache for derived status snapshots.
// Values are JSON with a short TTL; a miss is (nil, nil), never an error, so
// callers fall through to re-derivation.
type RedisStatusCache struct {
	Client *redis.Client
}

func NewRedisStatusCache(client *redis.Client) *RedisStatusCache {
	return &RedisStatusCache{Client: client}
}

func statusKey(shipmentID string) string {
	return "shipment:status:" + shipmentID
}

func (c *RedisStatusCache) GetStatus(ctx context.Context, shipmentID string) (_ *domain.ShipmentStatus, err error) {
	defer obs.Time(ctx, "status.cache.Get")(&err)

	if c.Client == nil {
		return nil, errors.New("status cache: client is nil")
	}
	if shipmentID == "" {
		return nil, errors.New("get status cache: shipmentID must not be empty")
	}

	raw, err := c.Client.Get(ctx, statusKey(shipmentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get status cache: %w", err)
	}

	var status domain.ShipmentStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("get status cache: unmarshal: %w", err)
	}

	return &status, nil
}

func (c *RedisStatusCache) SetStatus(ctx context.Context, status *domain.ShipmentStatus, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "status.cache.Set")(&err)

	if c.Client == nil {
		return errors.New("status cache: client is nil")
	}
	if status == nil || status.ShipmentID == "" {
		return errors.New("set status cache: status must carry a shipment id")
	}

	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("set status cache: marshal: %w", err)
	}

	if err := c.Client.Set(ctx, statusKey(status.ShipmentID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("set status cache: %w", err)
	}

	return nil
}
