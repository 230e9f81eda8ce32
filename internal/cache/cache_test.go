package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryCache 测试内存缓存的基本功能
func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(Config{
		Type:            "memory",
		DefaultTTL:      time.Second * 2,
		CleanupInterval: time.Second,
	})
	require.NoError(t, err)

	// Set和Get
	require.NoError(t, cache.Set(ctx, "key1", "value1", 0))
	val, found, err := cache.Get(ctx, "key1")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value1", val)

	// 不存在的键
	val, found, err = cache.Get(ctx, "non-existent")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, val)

	// 过期
	require.NoError(t, cache.Set(ctx, "expire-soon", "temp-value", time.Millisecond*200))
	time.Sleep(time.Millisecond * 400)
	_, found, err = cache.Get(ctx, "expire-soon")
	assert.NoError(t, err)
	assert.False(t, found)

	// 删除
	require.NoError(t, cache.Set(ctx, "to-delete", "delete-me", 0))
	require.NoError(t, cache.Delete(ctx, "to-delete"))
	_, found, _ = cache.Get(ctx, "to-delete")
	assert.False(t, found)

	// 删除不存在的键不报错
	assert.NoError(t, cache.Delete(ctx, "never-set"))

	assert.NoError(t, cache.Ping(ctx))

	// 关闭后清空
	require.NoError(t, cache.Set(ctx, "key2", "value2", 0))
	require.NoError(t, cache.Close())
	_, found, _ = cache.Get(ctx, "key2")
	assert.False(t, found)
}

// setupRedis 启动miniredis并创建Redis缓存
func setupRedis(t *testing.T) (*miniredis.Miniredis, Cache) {
	t.Helper()
	mr := miniredis.RunT(t)

	cache, err := NewRedisCache(Config{
		Type:       "redis",
		RedisAddr:  mr.Addr(),
		DefaultTTL: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	return mr, cache
}

// TestRedisCache 测试Redis缓存
func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr, cache := setupRedis(t)

	require.NoError(t, cache.Set(ctx, "redis-key1", "redis-value1", 0))
	val, found, err := cache.Get(ctx, "redis-key1")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "redis-value1", val)

	// 默认TTL生效
	assert.Equal(t, time.Minute, mr.TTL("redis-key1"))

	// 不存在的键
	val, found, err = cache.Get(ctx, "redis-non-existent")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, val)

	// 过期
	require.NoError(t, cache.Set(ctx, "redis-expire-soon", "tmp", time.Second))
	mr.FastForward(time.Second * 2)
	_, found, err = cache.Get(ctx, "redis-expire-soon")
	assert.NoError(t, err)
	assert.False(t, found)

	// 删除
	require.NoError(t, cache.Set(ctx, "redis-to-delete", "x", 0))
	require.NoError(t, cache.Delete(ctx, "redis-to-delete"))
	assert.False(t, mr.Exists("redis-to-delete"))

	assert.NoError(t, cache.Ping(ctx))
}

// TestRedisCache_Unavailable 连接失败时返回错误
func TestRedisCache_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache(Config{Type: "redis", RedisAddr: addr})
	assert.Error(t, err)
}

// TestCacheFactory 测试缓存工厂函数
func TestCacheFactory(t *testing.T) {
	memCache, err := NewCache(DefaultConfig())
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, memCache)

	mr := miniredis.RunT(t)
	redisCache, err := NewCache(Config{Type: "redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisCache{}, redisCache)
	_ = redisCache.Close()

	// 未知类型回退到内存缓存
	unknownCache, err := NewCache(Config{Type: "unknown-type"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, unknownCache)
}

// TestKey 测试缓存键生成
func TestKey(t *testing.T) {
	assert.Equal(t, "prefix", Key("prefix"))
	assert.Equal(t, "prefix:part1", Key("prefix", "part1"))
	assert.Equal(t, "prefix:part1:part2:part3", Key("prefix", "part1", "part2", "part3"))
}
