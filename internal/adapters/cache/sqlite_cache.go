package cache

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{`
		CREATE TABLE IF NOT EXISTS translation_cache (
			session_id TEXT NOT NULL,
			cache_key TEXT NOT NULL,
			translation TEXT NOT NULL,
			backend TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (session_id, cache_key)
		)
	`},
	upsert: `
		INSERT OR REPLACE INTO translation_cache (session_id, cache_key, translation, backend, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
}

// NewSQLiteCache creates a new SQLite cache for one session
func NewSQLiteCache(ctx context.Context, dbPath, sessionID string, logger *zap.Logger) (*SQLCache, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	return newSQLCache(ctx, db, sqliteDialect, sessionID, logger)
}
