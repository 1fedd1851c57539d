package redisstore

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis keeps values in a map and ignores expirations.
type fakeRedis struct {
	data map[string]string
	ttl  map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return redis.NewScanCmdResult(keys, 0, nil)
}

func (f *fakeRedis) Close() error { return nil }

func TestStorage_GetSetDelete(t *testing.T) {
	rdb := newFakeRedis()
	s := NewWithClient(rdb, DefaultPrefix)

	got, err := s.Get("limiter:1.2.3.4")
	require.NoError(t, err)
	assert.Nil(t, got, "missing keys are not an error")

	require.NoError(t, s.Set("limiter:1.2.3.4", []byte("3"), time.Minute))
	assert.Equal(t, "3", rdb.data["tms:limiter:1.2.3.4"])
	assert.Equal(t, time.Minute, rdb.ttl["tms:limiter:1.2.3.4"])

	got, err = s.Get("limiter:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), got)

	require.NoError(t, s.Delete("limiter:1.2.3.4"))
	got, err = s.Get("limiter:1.2.3.4")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_ResetOnlyTouchesPrefix(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data["other:key"] = "keep"
	s := NewWithClient(rdb, DefaultPrefix)
	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))

	require.NoError(t, s.Reset())
	assert.Equal(t, map[string]string{"other:key": "keep"}, rdb.data)
}
