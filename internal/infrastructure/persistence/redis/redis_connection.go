// Package redis implements the Redis-backed device list cache.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/perimetra/devscope/internal/config"
	"github.com/perimetra/devscope/pkg/logger"
)

// NewClient opens a Redis client and verifies it with a ping.
func NewClient(cfg *config.RedisConfig, log logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info(context.Background(), "redis connected", logger.String("address", cfg.Address))
	return client, nil
}
