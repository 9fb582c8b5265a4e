package encounters

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-skirmish/internal/redis"
)

const (
	// Key patterns: encounter:{id}:board and encounter:{id}:history
	keyPrefix  = "encounter:"
	boardKey   = ":board"
	historyKey = ":history"

	// DefaultTTL bounds how long a finished encounter's board stays readable
	DefaultTTL = time.Hour

	errEncounterIDEmpty = "encounter ID cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client

	// TTL defaults to DefaultTTL
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.TTL < 0 {
		vb.Field("TTL", "must not be negative")
	}

	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis repository for board snapshots
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		ttl:    ttl,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Save writes the latest board and appends it to the history in one transaction
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Snapshot)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal snapshot")
	}

	id := input.Snapshot.EncounterID
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.boardKey(id), data, r.ttl)
		pipe.RPush(ctx, r.historyKey(id), data)
		pipe.Expire(ctx, r.historyKey(id), r.ttl)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store snapshot in Redis")
	}

	return &SaveOutput{}, nil
}

// Get retrieves the latest snapshot
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	data, err := r.client.Get(ctx, r.boardKey(input.EncounterID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.NotFound("encounter snapshot not found")
		}
		return nil, errors.Wrapf(err, "failed to get snapshot from Redis")
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal snapshot")
	}

	return &GetOutput{Snapshot: &snap}, nil
}

// ListHistory returns all snapshots, oldest first
func (r *redisRepository) ListHistory(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	items, err := r.client.LRange(ctx, r.historyKey(input.EncounterID), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list snapshots from Redis")
	}

	snapshots := make([]*Snapshot, 0, len(items))
	for _, item := range items {
		var snap Snapshot
		if err := json.Unmarshal([]byte(item), &snap); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal snapshot")
		}
		snapshots = append(snapshots, &snap)
	}

	return &ListHistoryOutput{Snapshots: snapshots}, nil
}

// Delete removes an encounter's snapshots
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument(errEncounterIDEmpty)
	}

	removed, err := r.client.Del(ctx, r.boardKey(input.EncounterID), r.historyKey(input.EncounterID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete snapshot from Redis")
	}
	if removed == 0 {
		return nil, errors.NotFound("encounter snapshot not found")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) boardKey(encounterID string) string {
	return keyPrefix + encounterID + boardKey
}

func (r *redisRepository) historyKey(encounterID string) string {
	return keyPrefix + encounterID + historyKey
}

func validateSave(input *SaveInput) error {
	if input == nil || input.Snapshot == nil {
		return errors.InvalidArgument("snapshot is required")
	}
	if input.Snapshot.EncounterID == "" {
		return errors.InvalidArgument(errEncounterIDEmpty)
	}
	return nil
}
