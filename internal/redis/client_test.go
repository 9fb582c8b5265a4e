package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/redis"
)

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := redis.NewClient("", nil)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestPing(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	require.NoError(t, redis.Ping(context.Background(), client))

	mr.Close()
	err = redis.Ping(context.Background(), client)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))
}

func TestNewClientAppliesOptions(t *testing.T) {
	client, err := redis.NewClient("localhost:6379", &redis.Options{MaxRetries: 2})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	concrete, ok := client.(*goredis.Client)
	require.True(t, ok)
	assert.Equal(t, "localhost:6379", concrete.Options().Addr)
	assert.Equal(t, 2, concrete.Options().MaxRetries)
}
