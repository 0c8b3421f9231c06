package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisConfig struct {
	Host string `json:"host"`
	Port string `json:"port"`
}

// Redis is the shared cache backend for deployments where several storefront
// instances should see the same read cache.
type Redis struct {
	Client *redis.Client
	cfg    RedisConfig
	ttl    time.Duration
}

func NewRedis(cfg RedisConfig, ttl time.Duration) *Redis {
	return &Redis{cfg: cfg, ttl: ttl}
}

func (r *Redis) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%s", r.cfg.Host, r.cfg.Port)

	r.Client = redis.NewClient(&redis.Options{
		Addr: address,
	})

	if _, err := r.Client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping redis at %s: %w", address, err)
	}
	return nil
}

func (r *Redis) Stop(ctx context.Context) error {
	return r.Client.Close()
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	r.Client.Set(ctx, key, value, r.ttl)
}

func (r *Redis) ClearPrefix(ctx context.Context, prefix string) {
	keys, err := r.Client.Keys(ctx, prefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	r.Client.Del(ctx, keys...)
}
