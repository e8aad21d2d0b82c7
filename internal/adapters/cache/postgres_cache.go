package cache

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var postgresDialect = dialect{
	name: "postgres",
	schema: []string{`
		CREATE TABLE IF NOT EXISTS translation_cache (
			session_id TEXT NOT NULL,
			cache_key TEXT NOT NULL,
			translation TEXT NOT NULL,
			backend TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			PRIMARY KEY (session_id, cache_key)
		)
	`},
	upsert: `
		INSERT INTO translation_cache (session_id, cache_key, translation, backend, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_id, cache_key) DO UPDATE SET
			translation = EXCLUDED.translation,
			backend = EXCLUDED.backend,
			created_at = EXCLUDED.created_at
	`,
	dollar: true,
}

// NewPostgresCache creates a new PostgreSQL cache for one session
func NewPostgresCache(ctx context.Context, dsn, sessionID string, logger *zap.Logger) (*SQLCache, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	return newSQLCache(ctx, db, postgresDialect, sessionID, logger)
}
