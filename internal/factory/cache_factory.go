package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mikey/llm-mail-search/internal/adapters/cache"
	"github.com/mikey/llm-mail-search/internal/config"
	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheFactory creates session caches based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSession starts a new viewer session with a fresh identifier and its own cache
func (f *CacheFactory) CreateSession(ctx context.Context) (*core.Session, error) {
	id := uuid.NewString()

	repo, err := f.CreateCacheRepository(ctx, id)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Session started", zap.String("session_id", id))
	return core.NewSession(id, repo, f.logger), nil
}

// CreateCacheRepository creates a cache repository scoped to sessionID
func (f *CacheFactory) CreateCacheRepository(ctx context.Context, sessionID string) (core.CacheRepository, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, err
	}

	switch cacheCfg.Type {
	case "memory":
		return cache.NewMemoryCache(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cacheCfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return cache.NewSQLiteCache(ctx, cacheCfg.SQLitePath, sessionID, f.logger)
	case "mysql":
		return cache.NewMySQLCache(ctx, cacheCfg.MySQLDSN, sessionID, f.logger)
	case "postgres":
		return cache.NewPostgresCache(ctx, cacheCfg.PostgresDSN, sessionID, f.logger)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cacheCfg.RedisAddr,
			Password: cacheCfg.RedisPassword,
			DB:       cacheCfg.RedisDB,
		})
		repo, err := cache.NewRedisCache(ctx, client, sessionID, cacheCfg.SessionTTL, f.logger)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%w: cache type %s", core.ErrUnsupportedProvider, cacheCfg.Type)
	}
}
