package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Stopper is implemented by caches that hold connections or goroutines
type Stopper interface {
	Stop() error
}

// Session owns the translation cache for one viewer session
type Session struct {
	ID        string
	Cache     CacheRepository
	StartedAt time.Time

	logger *zap.Logger
}

// NewSession creates a new session around cache
func NewSession(id string, cache CacheRepository, logger *zap.Logger) *Session {
	return &Session{
		ID:        id,
		Cache:     cache,
		StartedAt: time.Now(),
		logger:    logger,
	}
}

// Close purges every cache entry written during the session and releases
// the cache. The cache is released even when the purge fails.
func (s *Session) Close(ctx context.Context) error {
	var errs []error
	if err := s.Cache.Purge(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to purge session cache: %w", err))
	}

	if stopper, ok := s.Cache.(Stopper); ok {
		if err := stopper.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop session cache: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.logger.Debug("Session closed",
		zap.String("session_id", s.ID),
		zap.Duration("duration", time.Since(s.StartedAt)))

	return nil
}
