package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Domenick1991/travelplanner/config"
	"github.com/Domenick1991/travelplanner/internal/flights"
)

// RedisCache keeps normalized flight-search outcomes for a short TTL so
// repeated plan requests for the same route do not burn provider quota.
type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL: searchTTL,
	}
}

func (c *RedisCache) GetSearch(ctx context.Context, key string) (*flights.SearchOutcome, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var outcome flights.SearchOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (c *RedisCache) SetSearch(ctx context.Context, key string, outcome *flights.SearchOutcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.searchTTL).Err()
}
