package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix = "mail-search:translation:"
	scanBatchSize  = 100
)

// RedisCache is a session-scoped CacheRepository on Redis. Entries are
// hashes under a per-session key prefix and expire after ttl so abandoned
// sessions do not linger.
type RedisCache struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisCache creates a new Redis cache for one session
func NewRedisCache(ctx context.Context, client *redis.Client, sessionID string, ttl time.Duration, logger *zap.Logger) (*RedisCache, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client:    client,
		sessionID: sessionID,
		ttl:       ttl,
		logger:    logger,
	}, nil
}

func (c *RedisCache) key(key string) string {
	return redisKeyPrefix + c.sessionID + ":" + key
}

// Get retrieves a cached entry
func (c *RedisCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	fields, err := c.client.HGetAll(ctx, c.key(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query Redis cache: %w", err)
	}
	if len(fields) == 0 {
		return nil, core.ErrNotFound
	}

	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at in Redis cache entry: %w", err)
	}

	return &core.CacheEntry{
		Key:         key,
		Translation: fields["translation"],
		Backend:     fields["backend"],
		CreatedAt:   time.Unix(0, createdAt),
	}, nil
}

// Set stores a cache entry
func (c *RedisCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	redisKey := c.key(entry.Key)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisKey,
			"translation", entry.Translation,
			"backend", entry.Backend,
			"created_at", strconv.FormatInt(createdAt.UnixNano(), 10))
		if c.ttl > 0 {
			pipe.Expire(ctx, redisKey, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert Redis cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Purge removes every entry written by the session
func (c *RedisCache) Purge(ctx context.Context) error {
	pattern := redisKeyPrefix + c.sessionID + ":*"
	purged := 0

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan session keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to purge session keys: %w", err)
			}
			purged += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("Purged session cache entries",
		zap.String("backend", "redis"),
		zap.String("session_id", c.sessionID),
		zap.Int("purged_count", purged))

	return nil
}

// Stop closes the Redis client
func (c *RedisCache) Stop() error {
	if err := c.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}
	return nil
}
