package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s, err := New(Config{Client: client, CloseClient: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, mr
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNilClient)
}

func TestSetExGet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetEx(ctx, "k", []byte("v"), time.Minute))

	b, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), b)
}

func TestGetMiss(t *testing.T) {
	s, _ := newTestStore(t)

	_, ok, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetExRejectsNonPositiveTTL(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Error(t, s.SetEx(context.Background(), "k", []byte("v"), 0))
	assert.Error(t, s.SetEx(context.Background(), "k", []byte("v"), -time.Second))
}

func TestTTLExpiry(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetEx(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDel(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetEx(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, s.SetEx(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, s.Del(ctx, "a", "b"))
	require.NoError(t, s.Del(ctx)) // no keys is a no-op

	_, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeysPattern(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetEx(ctx, "trending:7d", []byte("1"), time.Minute))
	require.NoError(t, s.SetEx(ctx, "trending:30d", []byte("2"), time.Minute))
	require.NoError(t, s.SetEx(ctx, "search:tv", []byte("3"), time.Minute))

	keys, err := s.Keys(ctx, "trending:*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"trending:7d", "trending:30d"}, keys)
}

func TestFlushAll(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetEx(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, s.FlushAll(ctx))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInfo(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetEx(ctx, "k", []byte("v"), time.Minute))

	h, err := s.Info(ctx)
	require.NoError(t, err)
	assert.True(t, h.Connected)
	assert.EqualValues(t, 1, h.Keys)
}

func TestDownServer(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	mr.Close()

	assert.Error(t, s.Ping(ctx))
	_, _, err := s.Get(ctx, "k")
	assert.Error(t, err)
	_, err = s.Info(ctx)
	assert.Error(t, err)
}

func TestInfoInt(t *testing.T) {
	raw := "# Memory\r\nused_memory:1048576\r\nmaxmemory:0\r\n"
	assert.EqualValues(t, 1048576, infoInt(raw, "used_memory"))
	assert.EqualValues(t, 0, infoInt(raw, "maxmemory"))
	assert.EqualValues(t, 0, infoInt(raw, "missing"))
}
