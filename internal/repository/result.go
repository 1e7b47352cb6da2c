package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

var ErrResultNotFound = fmt.Errorf("result %w", apperror.ErrNotFound)

const (
	resultKeyPrefix = "result:"
	statsKeyPrefix  = "stats:"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	GetByID(ctx context.Context, sessionID string) (*entity.Result, error)
	GetStats(ctx context.Context, playerID string) (*entity.PlayerStats, error)
}

type dbResult struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultRepository archives finished games in Redis. Results expire after ttl; player
// counters never expire. A zero ttl keeps results forever.
func NewResultRepository(client *redis.Client, ttl time.Duration) ResultRepository {
	return &dbResult{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, resultKeyPrefix+result.SessionID, resultJSON, that.ttl)

		for _, player := range result.Players {
			field := entity.StatsField(result.Kind, result.OutcomeFor(player))
			pipe.HIncrBy(ctx, statsKeyPrefix+player, field, 1)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

func (that *dbResult) GetByID(ctx context.Context, sessionID string) (*entity.Result, error) {
	response, err := that.client.Get(ctx, resultKeyPrefix+sessionID).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrResultNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get result by id: %w", err)
	}

	var result entity.Result
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

func (that *dbResult) GetStats(ctx context.Context, playerID string) (*entity.PlayerStats, error) {
	fields, err := that.client.HGetAll(ctx, statsKeyPrefix+playerID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}

	stats := &entity.PlayerStats{
		PlayerID: playerID,
		Counters: make(map[string]int64, len(fields)),
	}

	for field, value := range fields {
		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stats field %s: %w", field, err)
		}

		stats.Counters[field] = count
	}

	return stats, nil
}
