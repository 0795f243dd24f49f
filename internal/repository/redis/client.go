package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/certzilla/auth-server/internal/config"
)

// NewClient creates a redis client and checks the connection.
func NewClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
