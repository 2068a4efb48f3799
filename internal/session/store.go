// Package session provides the per-session key-value storage the search
// history lives in.
package session

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL is how long an idle session keeps its data.
const DefaultTTL = 24 * time.Hour

// Store is a key-value store scoped by session id. Get returns nil, nil
// for a missing key. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
	Delete(ctx context.Context, sessionID, key string) error
}

type Config struct {
	Backend       string
	Database      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
	Capacity      int
}

// NewFromConfig opens the configured backend: memory (default), sqlite or redis.
func NewFromConfig(ctx context.Context, cfg Config) (Store, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(cfg.Capacity, ttl), nil

	case "sqlite":
		filename := cfg.Database
		if filename == "" {
			filename = DefaultDatabase
		}
		return NewSQLiteStore(filename, ttl)

	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis session store requires redisAddr")
		}
		store := NewRedisStore(NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), ttl)
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("redis session store: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown session backend: %s", cfg.Backend)
	}
}

func compositeKey(sessionID, key string) string {
	return sessionID + "\x00" + key
}
