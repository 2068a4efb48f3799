package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behaviour every backend shares.
func runStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		val, err := s.Get(ctx, "s1", "nothing")
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "s1", "history", []byte(`[1]`)))
		val, err := s.Get(ctx, "s1", "history")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[1]`), val)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "s1", "history", []byte(`[2]`)))
		val, err := s.Get(ctx, "s1", "history")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[2]`), val)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		val, err := s.Get(ctx, "s2", "history")
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "s1", "history"))
		val, err := s.Get(ctx, "s1", "history")
		require.NoError(t, err)
		assert.Nil(t, val)

		require.NoError(t, s.Delete(ctx, "s1", "history"), "deleting twice is fine")
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore(0, 0))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore(16, time.Hour)
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "s", "k", in))
	in[0] = 'x'

	out, err := s.Get(ctx, "s", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)
}

func TestMemoryStore_DeleteFreesSlot(t *testing.T) {
	s := NewMemoryStore(2, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "k", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", "k", []byte("2")))
	require.NoError(t, s.Delete(ctx, "a", "k"))
	assert.Equal(t, 1, s.data.Len())

	require.NoError(t, s.Set(ctx, "c", "k", []byte("3")))
	got, err := s.Get(ctx, "b", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got, "live session survives after a delete")
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	runStoreContract(t, s)
}

func TestSQLiteStore_Purge(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "sessions.db"), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "k", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", "k", []byte("2")))

	n, err := s.DeleteBefore(ctx, time.Now().Unix())
	require.NoError(t, err)
	assert.Zero(t, n, "nothing expired yet")

	n, err = s.DeleteBefore(ctx, time.Now().Add(2*time.Hour).Unix())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	val, err := s.Get(ctx, "a", "k")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(NewRedisClient(mr.Addr(), "", 0), time.Hour)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Ping(context.Background()))
	runStoreContract(t, s)
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(NewRedisClient(mr.Addr(), "", 0), time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "s", "history", []byte("v")))
	assert.Equal(t, time.Minute, mr.TTL(redisKey("s", "history")))

	mr.FastForward(2 * time.Minute)
	val, err := s.Get(ctx, "s", "history")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	s, err := NewFromConfig(ctx, Config{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewFromConfig(ctx, Config{Backend: "sqlite", Database: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, s)
	s.(*SQLiteStore).Close()

	mr := miniredis.RunT(t)
	s, err = NewFromConfig(ctx, Config{Backend: "redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)

	_, err = NewFromConfig(ctx, Config{Backend: "redis"})
	assert.Error(t, err)

	_, err = NewFromConfig(ctx, Config{Backend: "etcd"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "etcd")
}
