// Package checkpoint records which runs the suite has already verified so
// repeated invocations against a long-lived environment can skip them. The
// store is optional; a nil *Store is a valid no-op.
package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cybrty/pentest-e2e/config"
)

const keyPrefix = "pentest-e2e:verified:"

// Store marks runs as verified in Redis with a TTL.
type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewStore connects to Redis and pings it. Returns (nil, nil) when
// checkpointing is disabled in config.
func NewStore(ctx context.Context, cfg config.CheckpointConfig, logger *slog.Logger) (*Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("checkpoint redis ping: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl, logger: logger.With("component", "checkpoint")}, nil
}

// MarkVerified records that runID passed verification.
func (s *Store) MarkVerified(ctx context.Context, runID string) error {
	if s == nil {
		return nil
	}
	if err := s.rdb.Set(ctx, keyPrefix+runID, time.Now().UTC().Format(time.RFC3339), s.ttl).Err(); err != nil {
		return fmt.Errorf("mark verified %s: %w", runID, err)
	}
	return nil
}

// AlreadyVerified reports whether runID passed verification within the TTL
// window. Lookup failures log and report false; a broken checkpoint store
// must never suppress a verification pass.
func (s *Store) AlreadyVerified(ctx context.Context, runID string) bool {
	if s == nil {
		return false
	}
	_, err := s.rdb.Get(ctx, keyPrefix+runID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "checkpoint lookup failed", "run_id", runID, "error", err)
		}
		return false
	}
	return true
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.rdb.Close()
}
