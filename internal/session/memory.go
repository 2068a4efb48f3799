package session

import (
	"context"
	"time"

	"github.com/apibillme/cache"
)

const defaultCapacity = 4096

// MemoryStore keeps session data in a bounded in-process LRU. Entries
// expire after the configured TTL and the least recently used session is
// evicted once capacity is reached.
type MemoryStore struct {
	data cache.Cache
}

func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{data: cache.New(capacity, cache.WithTTL(ttl))}
}

func (m *MemoryStore) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	v, ok := m.data.Get(compositeKey(sessionID, key))
	if !ok {
		return nil, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, sessionID, key string, value []byte) error {
	m.data.Set(compositeKey(sessionID, key), append([]byte(nil), value...))
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID, key string) error {
	m.data.Del(compositeKey(sessionID, key))
	return nil
}
