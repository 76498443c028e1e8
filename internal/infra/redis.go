package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds the client backing the job queue and payment status keys.
// Connectivity is verified with a ping before the server starts taking work.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
