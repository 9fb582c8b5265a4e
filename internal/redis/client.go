// Package redis provides a wrapper around the go-redis client library
// for improved testing and abstraction.
package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
)

// Options configures Redis client behavior
type Options struct {
	MaxRetries int
}

// NewClient creates a Redis client for a single instance. The connection is
// lazy; use Ping to check it.
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.InvalidArgument("redis endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	return redis.NewClient(&redis.Options{
		Addr:       endpoint,
		MaxRetries: opts.MaxRetries,
	}), nil
}

// Ping verifies the server is reachable
func Ping(ctx context.Context, client Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "redis is unreachable")
	}
	return nil
}
