package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 5 * time.Second

// Config captures the settings for the Redis connection backing the per-post
// toggle locks.
type Config struct {
	Addr        string
	DB          int
	DialTimeout time.Duration
}

// Connect initialises a Redis client and verifies connectivity with a ping.
// The lock keyspace is latency-sensitive, so read/write timeouts stay at the
// client defaults; only the initial dial gets a configurable bound.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
