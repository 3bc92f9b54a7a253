package credential

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// RedisStore shares one credential between machines under a single key.
type RedisStore struct {
	rdb redis.UniversalClient
	key string
}

func NewRedisStore(rdb redis.UniversalClient, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Token(ctx context.Context) (string, error) {
	token, err := s.rdb.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, errors.Wrap(err, "reading credential from redis")
}

func (s *RedisStore) SetToken(ctx context.Context, token string) error {
	return errors.Wrap(s.rdb.Set(ctx, s.key, token, 0).Err(), "writing credential to redis")
}

func (s *RedisStore) ClearToken(ctx context.Context) error {
	return errors.Wrap(s.rdb.Del(ctx, s.key).Err(), "clearing credential from redis")
}
