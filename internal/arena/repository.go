package arena

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/redis"
	"github.com/KirkDiggler/rpg-skirmish/internal/repositories/encounters"
)

// OpenRepository returns the Redis snapshot repository when addr is set and
// the in-memory one otherwise. The returned func releases the connection.
func OpenRepository(ctx context.Context, addr string, ttl time.Duration) (encounters.Repository, func(), error) {
	if addr == "" {
		return encounters.NewInMemory(), func() {}, nil
	}

	client, err := redis.NewClient(addr, &redis.Options{MaxRetries: 2})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Warn("Failed to close redis client", "error", err)
		}
	}

	if err := redis.Ping(ctx, client); err != nil {
		closeFn()
		return nil, nil, errors.Wrapf(err, "failed to reach redis at %s", addr)
	}

	repo, err := encounters.NewRedisRepository(&encounters.Config{Client: client, TTL: ttl})
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	slog.Info("Saving board snapshots to redis", "addr", addr)
	return repo, closeFn, nil
}
