package shops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"inspection-backend/internal/scoring/recommendations"
)

// ConfigTTL bounds how long a cached shop config may be served.
const ConfigTTL = 10 * time.Minute

// ConfigCache stores resolved shop configs.
type ConfigCache interface {
	Get(ctx context.Context, shopID string) (recommendations.ShopConfig, bool, error)
	Set(ctx context.Context, shopID string, cfg recommendations.ShopConfig) error
	Invalidate(ctx context.Context, shopID string) error
}

// RedisConfigCache keeps configs under shop:config:<id>.
type RedisConfigCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisConfigCache(client *redis.Client) *RedisConfigCache {
	return &RedisConfigCache{Client: client, TTL: ConfigTTL}
}

func configKey(shopID string) string {
	return "shop:config:" + shopID
}

func (c *RedisConfigCache) Get(ctx context.Context, shopID string) (recommendations.ShopConfig, bool, error) {
	raw, err := c.Client.Get(ctx, configKey(shopID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return recommendations.ShopConfig{}, false, nil
	}
	if err != nil {
		return recommendations.ShopConfig{}, false, fmt.Errorf("get shop config: %w", err)
	}
	var cfg recommendations.ShopConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return recommendations.ShopConfig{}, false, fmt.Errorf("decode shop config: %w", err)
	}
	return cfg, true, nil
}

func (c *RedisConfigCache) Set(ctx context.Context, shopID string, cfg recommendations.ShopConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = ConfigTTL
	}
	return c.Client.Set(ctx, configKey(shopID), payload, ttl).Err()
}

func (c *RedisConfigCache) Invalidate(ctx context.Context, shopID string) error {
	return c.Client.Del(ctx, configKey(shopID)).Err()
}
