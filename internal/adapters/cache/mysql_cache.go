package cache

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var mysqlDialect = dialect{
	name: "mysql",
	schema: []string{`
		CREATE TABLE IF NOT EXISTS translation_cache (
			session_id VARCHAR(36) NOT NULL,
			cache_key VARCHAR(255) NOT NULL,
			translation MEDIUMTEXT NOT NULL,
			backend VARCHAR(64) NOT NULL,
			created_at BIGINT NOT NULL,
			PRIMARY KEY (session_id, cache_key)
		) DEFAULT CHARSET=utf8mb4
	`},
	upsert: `
		INSERT INTO translation_cache (session_id, cache_key, translation, backend, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			translation = VALUES(translation),
			backend = VALUES(backend),
			created_at = VALUES(created_at)
	`,
}

// NewMySQLCache creates a new MySQL cache for one session
func NewMySQLCache(ctx context.Context, dsn, sessionID string, logger *zap.Logger) (*SQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	return newSQLCache(ctx, db, mysqlDialect, sessionID, logger)
}
