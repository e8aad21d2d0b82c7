package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mikey/llm-mail-search/internal/core"
	"go.uber.org/zap"
)

// dialect holds the statements that differ between SQL databases.
// Queries are written with '?' placeholders and rebound when needed.
type dialect struct {
	name   string
	schema []string
	upsert string
	dollar bool
}

// SQLCache is a session-scoped CacheRepository on a SQL database. Every row
// carries the session ID, so several sessions can share one table.
type SQLCache struct {
	db        *sql.DB
	dialect   dialect
	sessionID string
	logger    *zap.Logger
}

func newSQLCache(ctx context.Context, db *sql.DB, d dialect, sessionID string, logger *zap.Logger) (*SQLCache, error) {
	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s cache schema: %w", d.name, err)
		}
	}

	return &SQLCache{
		db:        db,
		dialect:   d,
		sessionID: sessionID,
		logger:    logger,
	}, nil
}

// rebind rewrites '?' placeholders to $1, $2... for databases that need it
func (c *SQLCache) rebind(query string) string {
	if !c.dialect.dollar {
		return query
	}

	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Get retrieves a cached entry
func (c *SQLCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	var translation, backend string
	var createdAt int64

	err := c.db.QueryRowContext(ctx, c.rebind(`
		SELECT translation, backend, created_at
		FROM translation_cache
		WHERE session_id = ? AND cache_key = ?
	`), c.sessionID, key).Scan(&translation, &backend, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query %s cache: %w", c.dialect.name, err)
	}

	return &core.CacheEntry{
		Key:         key,
		Translation: translation,
		Backend:     backend,
		CreatedAt:   time.Unix(0, createdAt),
	}, nil
}

// Set stores a cache entry
func (c *SQLCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := c.db.ExecContext(ctx, c.rebind(c.dialect.upsert),
		c.sessionID, entry.Key, entry.Translation, entry.Backend, createdAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert %s cache entry: %w", c.dialect.name, err)
	}
	return nil
}

// Delete removes a cache entry
func (c *SQLCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, c.rebind(`
		DELETE FROM translation_cache
		WHERE session_id = ? AND cache_key = ?
	`), c.sessionID, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Purge removes every entry written by the session
func (c *SQLCache) Purge(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, c.rebind(`
		DELETE FROM translation_cache
		WHERE session_id = ?
	`), c.sessionID)
	if err != nil {
		return fmt.Errorf("failed to purge session entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during purge", zap.Error(err))
	} else {
		c.logger.Debug("Purged session cache entries",
			zap.String("backend", c.dialect.name),
			zap.String("session_id", c.sessionID),
			zap.Int64("purged_count", rowsAffected))
	}

	return nil
}

// Stop closes the database connection
func (c *SQLCache) Stop() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close %s database: %w", c.dialect.name, err)
	}
	return nil
}
