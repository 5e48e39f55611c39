package cartsync

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the cart identifier in redis, keyed per session, for
// deployments where the consumer runs server-side.
type RedisStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, sessionKey string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, key: "cartid:" + sessionKey, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context) (string, bool, error) {
	val, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Save(ctx context.Context, id string) error {
	return s.rdb.Set(ctx, s.key, id, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}

var _ IDStore = (*RedisStore)(nil)
var _ IDStore = (*FileStore)(nil)
