package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewDBPool initializes a new pgx connection pool using the provided configuration.
// The first connection is retried with exponential backoff so the service can
// start alongside its database.
func NewDBPool(ctx context.Context, cfg *Config, logger zerolog.Logger) (*pgxpool.Pool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	connect := func() (*pgxpool.Pool, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		pool, err := pgxpool.NewWithConfig(attemptCtx, poolCfg)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(attemptCtx); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	}

	pool, err := backoff.Retry(ctx, connect,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(time.Minute),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn().Err(err).Dur("retry_in", next).Msg("database not ready")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return pool, nil
}
