package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviflow/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 5 * time.Second

// NewRedisOptions maps the redis section of the config onto client options.
func NewRedisOptions(redisCfg config.RedisConfig) (*redis.Options, error) {
	if redisCfg.Address == "" {
		return nil, errors.New("redis address is empty")
	}
	opt := &redis.Options{
		Addr:         redisCfg.Address,
		Password:     redisCfg.Password,
		DB:           redisCfg.DB,
		PoolSize:     redisCfg.PoolSize,
		DialTimeout:  redisCfg.DialTimeout,
		ReadTimeout:  redisCfg.DialTimeout,
		WriteTimeout: redisCfg.DialTimeout,
	}
	return opt, nil
}

// NewRedisClient connects and pings the server before returning.
func NewRedisClient(redisCfg config.RedisConfig) (*redis.Client, error) {
	opt, err := NewRedisOptions(redisCfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	timeout := opt.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", redisCfg.Address, err)
	}
	return client, nil
}
