package rules

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/assistant-console/core/internal/core/error"
	"github.com/assistant-console/core/internal/console/model"
	logx "github.com/assistant-console/core/pkg/logger"
)

type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb redis.Cmdable, cfg model.RulesConfig) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: cfg.KeyPrefix, ttl: cfg.TTL}
}

func (s *RedisStore) Save(ctx context.Context, assistantID, text string) error {
	key := Key(s.prefix, assistantID)

	// zero ttl keeps the key forever
	if err := s.rdb.Set(ctx, key, text, s.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save training rules to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, assistantID string) (string, error) {
	key := Key(s.prefix, assistantID)

	text, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load training rules from redis")
		return "", errx.WrapRedis(err)
	}

	if s.ttl > 0 {
		if ok, err := s.rdb.Expire(ctx, key, s.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return "", errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", s.ttl).Msg("failed to refresh TTL on training rules key")
		}
	}
	return text, nil
}

func (s *RedisStore) Delete(ctx context.Context, assistantID string) error {
	key := Key(s.prefix, assistantID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete training rules from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
