package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guildsmith/craftbot/internal/redisx"
)

// RedisStore keeps dialog state in Redis under a short TTL, refreshed on
// every step, so abandoned pickers clean themselves up.
type RedisStore struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{RDB: rdb, TTL: redisx.TTLDialog}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (State, error) {
	raw, err := s.RDB.Get(ctx, fmt.Sprintf(redisx.KeyDialog, sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return State{}, ErrExpired
	}
	if err != nil {
		return State{}, fmt.Errorf("dialog get: %w", err)
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}, fmt.Errorf("dialog decode: %w", err)
	}
	return st, nil
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, st State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("dialog encode: %w", err)
	}
	if err := s.RDB.Set(ctx, fmt.Sprintf(redisx.KeyDialog, sessionID), b, s.TTL).Err(); err != nil {
		return fmt.Errorf("dialog put: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.RDB.Del(ctx, fmt.Sprintf(redisx.KeyDialog, sessionID)).Err()
}
