package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// cacheFactory opens a cache for the given session
type cacheFactory func(t *testing.T, sessionID string) core.CacheRepository

// runCacheContract exercises the behaviour every cache backend shares
func runCacheContract(t *testing.T, open cacheFactory) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		c := open(t, "session-a")
		created := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

		require.NoError(t, c.Set(ctx, &core.CacheEntry{
			Key:         core.CacheKey("Hello world"),
			Translation: "Witaj świecie",
			Backend:     "openai",
			CreatedAt:   created,
		}))

		entry, err := c.Get(ctx, core.CacheKey("Hello world"))
		require.NoError(t, err)
		assert.Equal(t, "Witaj świecie", entry.Translation)
		assert.Equal(t, "openai", entry.Backend)
		assert.True(t, created.Equal(entry.CreatedAt))
	})

	t.Run("missing key", func(t *testing.T) {
		c := open(t, "session-b")

		_, err := c.Get(ctx, "missing")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("overwrite", func(t *testing.T) {
		c := open(t, "session-c")

		require.NoError(t, c.Set(ctx, &core.CacheEntry{Key: "k", Translation: "first", Backend: "openai"}))
		require.NoError(t, c.Set(ctx, &core.CacheEntry{Key: "k", Translation: "second", Backend: "gemini"}))

		entry, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "second", entry.Translation)
		assert.Equal(t, "gemini", entry.Backend)
	})

	t.Run("delete", func(t *testing.T) {
		c := open(t, "session-d")

		require.NoError(t, c.Set(ctx, &core.CacheEntry{Key: "k", Translation: "v", Backend: "openai"}))
		require.NoError(t, c.Delete(ctx, "k"))

		_, err := c.Get(ctx, "k")
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.NoError(t, c.Delete(ctx, "k"))
	})

	t.Run("purge is per session", func(t *testing.T) {
		first := open(t, "session-e")
		second := open(t, "session-f")

		require.NoError(t, first.Set(ctx, &core.CacheEntry{Key: "k", Translation: "first", Backend: "openai"}))
		require.NoError(t, first.Set(ctx, &core.CacheEntry{Key: "fallback_k", Translation: "first", Backend: "libretranslate"}))
		require.NoError(t, second.Set(ctx, &core.CacheEntry{Key: "k", Translation: "second", Backend: "openai"}))

		require.NoError(t, first.Purge(ctx))

		_, err := first.Get(ctx, "k")
		assert.ErrorIs(t, err, core.ErrNotFound)
		_, err = first.Get(ctx, "fallback_k")
		assert.ErrorIs(t, err, core.ErrNotFound)

		entry, err := second.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "second", entry.Translation)
	})
}

func TestMemoryCache(t *testing.T) {
	runCacheContract(t, func(t *testing.T, _ string) core.CacheRepository {
		return NewMemoryCache(zap.NewNop())
	})
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(zap.NewNop())

	entry := &core.CacheEntry{Key: "k", Translation: "v"}
	require.NoError(t, c.Set(ctx, entry))
	entry.Translation = "changed"

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got.Translation)
	assert.Equal(t, 1, c.Len())
}

func TestSQLiteCache(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	runCacheContract(t, func(t *testing.T, sessionID string) core.CacheRepository {
		c, err := NewSQLiteCache(context.Background(), dbPath, sessionID, zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Stop() })
		return c
	})
}

func TestMySQLCache(t *testing.T) {
	dsn := os.Getenv("MAIL_SEARCH_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("MAIL_SEARCH_TEST_MYSQL_DSN not set")
	}

	runCacheContract(t, func(t *testing.T, sessionID string) core.CacheRepository {
		c, err := NewMySQLCache(context.Background(), dsn, sessionID, zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = c.Purge(context.Background())
			_ = c.Stop()
		})
		return c
	})
}

func TestPostgresCache(t *testing.T) {
	dsn := os.Getenv("MAIL_SEARCH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MAIL_SEARCH_TEST_POSTGRES_DSN not set")
	}

	runCacheContract(t, func(t *testing.T, sessionID string) core.CacheRepository {
		c, err := NewPostgresCache(context.Background(), dsn, sessionID, zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = c.Purge(context.Background())
			_ = c.Stop()
		})
		return c
	})
}

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr
}

func TestRedisCache(t *testing.T) {
	mr := setupTestRedis(t)

	runCacheContract(t, func(t *testing.T, sessionID string) core.CacheRepository {
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		c, err := NewRedisCache(context.Background(), client, sessionID, time.Hour, zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Stop() })
		return c
	})
}

func TestRedisCache_SetsTTL(t *testing.T) {
	mr := setupTestRedis(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c, err := NewRedisCache(context.Background(), client, "session-ttl", time.Hour, zap.NewNop())
	require.NoError(t, err)
	defer c.Stop()

	require.NoError(t, c.Set(context.Background(), &core.CacheEntry{Key: "k", Translation: "v", Backend: "openai"}))

	assert.Equal(t, time.Hour, mr.TTL(redisKeyPrefix+"session-ttl:k"))

	mr.FastForward(2 * time.Hour)
	_, err = c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRedisCache_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	_, err = NewRedisCache(context.Background(), client, "session", time.Hour, zap.NewNop())
	assert.Error(t, err)
}

func TestSQLCache_Rebind(t *testing.T) {
	c := &SQLCache{dialect: postgresDialect}
	assert.Equal(t, "a = $1 AND b = $2", c.rebind("a = ? AND b = ?"))

	c = &SQLCache{dialect: sqliteDialect}
	assert.Equal(t, "a = ? AND b = ?", c.rebind("a = ? AND b = ?"))
}
