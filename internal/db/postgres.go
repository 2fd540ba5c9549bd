// Package db owns the Postgres connection pool, the query surface shared by the
// repositories, and the embedded schema migrations.
package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// PoolOptions sizes the pool and the startup connect loop.
type PoolOptions struct {
	MaxConns int32
	MinConns int32
	// Retries is the number of extra connect attempts after the first failure.
	Retries uint64
	// Backoff is the first retry delay; it doubles each attempt.
	Backoff time.Duration
}

// Open parses dsn, builds a pgxpool and pings it, retrying with exponential backoff
// until Retries is exhausted or ctx is done. Caller must Close the pool.
func Open(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("db: DATABASE_URL is not set")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").Wrap(err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}

	var pool *pgxpool.Pool
	backoff := retry.WithMaxRetries(opts.Retries, retry.NewExponential(opts.Backoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return retry.RetryableError(err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := p.Ping(pingCtx); err != nil {
			p.Close()
			return retry.RetryableError(err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("retries", opts.Retries).Wrap(err)
	}
	return pool, nil
}
