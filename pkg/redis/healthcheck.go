package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Healthcheck returns a check function that pings the Redis server.
func Healthcheck(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
