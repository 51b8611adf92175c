package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis keeps slots as plain string keys. Useful when the cart should
// survive reinstalls of the client host, not just process restarts.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) *Redis {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		// Not a redis:// URL, treat it as host:port.
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
	}
	return &Redis{client: redis.NewClient(opts)}
}

func (r *Redis) Read(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read slot %s: %w", key, err)
	}
	return val, true, nil
}

func (r *Redis) Write(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.client.Ping(pingCtx).Err() == nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
