package redisstore

import (
	"context"
	"time"

	"sitewatch/config"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	rdb *redis.Client
}

func New(cfg *config.RedisConfig) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	// Timeouts
	opt.DialTimeout = orDefault(cfg.DialTimeout, 5*time.Second)
	opt.ReadTimeout = orDefault(cfg.ReadTimeout, 3*time.Second)
	opt.WriteTimeout = orDefault(cfg.WriteTimeout, 3*time.Second)

	// Pool tuning
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opt.MinIdleConns = cfg.MinIdleConns
	}

	// Connection lifecycle
	opt.ConnMaxLifetime = orDefault(cfg.ConnMaxLifetime, 2*time.Minute)
	opt.ConnMaxIdleTime = orDefault(cfg.ConnMaxIdleTime, 30*time.Second)

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
