package errx

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

const (
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
)

// WrapRedis maps Redis errors to AppError: redis.Nil becomes KindNotFound,
// everything else KindStorage.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return New(err, KindNotFound, RedisNotFoundMessage)
	}

	return New(err, KindStorage, RedisErrorMessage)
}
