package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gallery:session:"

type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisStore stores each session key as a redis string with ttl, which
// is refreshed on every write.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, redisKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (r *RedisStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	return r.client.Set(ctx, redisKey(sessionID, key), value, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, sessionID, key string) error {
	return r.client.Del(ctx, redisKey(sessionID, key)).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func redisKey(sessionID, key string) string {
	return redisKeyPrefix + sessionID + ":" + key
}
