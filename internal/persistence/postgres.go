package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Lynx-thelearner/BE-Wisata/internal/config"
)

// Postgres wraps access to a pgx connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres resolves a connection pool, trying the primary DSN first and
// the fallback DSN second. Both failing is an error.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	candidates := []struct {
		name string
		dsn  string
	}{
		{"primary", cfg.DSN},
		{"fallback", cfg.FallbackDSN},
	}

	var errs []error
	for _, cand := range candidates {
		if cand.dsn == "" {
			continue
		}
		pool, err := connect(ctx, cand.dsn, cfg)
		if err != nil {
			logger.Warn("postgres connection failed", zap.String("target", cand.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", cand.name, err))
			continue
		}
		logger.Info("connected to postgres", zap.String("target", cand.name))
		return &Postgres{Pool: pool}, nil
	}

	if len(errs) == 0 {
		return nil, errors.New("no postgres DSN configured (POSTGRES_DSN / POSTGRES_FALLBACK_DSN)")
	}
	return nil, errors.Join(errs...)
}

func connect(ctx context.Context, dsn string, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// Ping verifies database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.Pool.Ping(ctx)
}

// PoolHandle returns the underlying pgx pool.
func (p *Postgres) PoolHandle() *pgxpool.Pool {
	if p == nil {
		return nil
	}
	return p.Pool
}
