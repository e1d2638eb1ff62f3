package gamestate

import (
	"context"
	"encoding/json"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/errors"
	redisclient "github.com/caravangame/caravan-api/internal/redis"
)

const (
	slotKeyPrefix = "game:slot:"
	slotIndexKey  = "game:slots"

	errSlotEmpty  = "slot name cannot be empty"
	errStateNil   = "state cannot be nil"
	errStateNoID  = "state ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a new Redis-backed game state repository.
// Snapshots are stored as JSON with no TTL; a save slot lives until the
// player deletes it.
func NewRedisRepository(client redisclient.Client) Repository {
	return &redisRepository{
		client: client,
	}
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Slot == "" {
		return nil, errors.InvalidArgument(errSlotEmpty)
	}
	if input.State == nil {
		return nil, errors.InvalidArgument(errStateNil)
	}
	if input.State.ID == "" {
		return nil, errors.InvalidArgument(errStateNoID)
	}

	data, err := json.Marshal(input.State)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal state")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, slotKeyPrefix+input.Slot, data, 0)
	pipe.SAdd(ctx, slotIndexKey, input.Slot)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save slot %s", input.Slot)
	}

	return &SaveOutput{}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Slot == "" {
		return nil, errors.InvalidArgument(errSlotEmpty)
	}

	result, err := r.client.Get(ctx, slotKeyPrefix+input.Slot).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("slot %s is empty", input.Slot)
		}
		return nil, errors.Wrapf(err, "failed to get slot %s", input.Slot)
	}

	var state entities.GameState
	if err := json.Unmarshal([]byte(result), &state); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal state")
	}

	return &GetOutput{State: &state}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.Slot == "" {
		return nil, errors.InvalidArgument(errSlotEmpty)
	}

	exists, err := r.client.Exists(ctx, slotKeyPrefix+input.Slot).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check slot %s", input.Slot)
	}
	if exists == 0 {
		return nil, errors.NotFoundf("slot %s is empty", input.Slot)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, slotKeyPrefix+input.Slot)
	pipe.SRem(ctx, slotIndexKey, input.Slot)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete slot %s", input.Slot)
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	slots, err := r.client.SMembers(ctx, slotIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list slots")
	}
	sort.Strings(slots)
	return &ListOutput{Slots: slots}, nil
}
