package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
)

const residencyListKey = "residency:list"

// RedisResidencyCache keeps the full residency listing as one JSON blob with
// a short TTL. Listing reads dominate the traffic; every write path
// invalidates the key.
type RedisResidencyCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisResidencyCache(client *redis.Client, ttl time.Duration) *RedisResidencyCache {
	return &RedisResidencyCache{client: client, ttl: ttl}
}

func (c *RedisResidencyCache) GetAll(ctx context.Context) ([]models.Residency, error) {
	payload, err := c.client.Get(ctx, residencyListKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read residency listing cache: %w", err)
	}
	var residencies []models.Residency
	if err := json.Unmarshal(payload, &residencies); err != nil {
		// A corrupt entry behaves like a miss; the next SetAll overwrites it.
		return nil, nil
	}
	return residencies, nil
}

func (c *RedisResidencyCache) SetAll(ctx context.Context, residencies []models.Residency) error {
	if residencies == nil {
		residencies = []models.Residency{}
	}
	payload, err := json.Marshal(residencies)
	if err != nil {
		return fmt.Errorf("encode residency listing: %w", err)
	}
	if err := c.client.Set(ctx, residencyListKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("write residency listing cache: %w", err)
	}
	return nil
}

func (c *RedisResidencyCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, residencyListKey).Err(); err != nil {
		return fmt.Errorf("invalidate residency listing cache: %w", err)
	}
	return nil
}
