// Package app assembles adapters from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/shirt-inventory/internal/adapter/storage"
	"github.com/rl1809/shirt-inventory/internal/config"
	"github.com/rl1809/shirt-inventory/internal/port"
)

// Store bundles the shirt repository with the optional idempotency store and
// the connections behind them.
type Store struct {
	Repo        port.ShirtRepository
	Idempotency port.IdempotencyStore
	closers     []func() error
}

func (s *Store) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenStore connects the backend named by cfg.StoreDriver, creating the
// schema for SQL backends. Idempotency keys live in Redis unless the
// in-memory driver is selected.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	s := &Store{}
	var rdb *redis.Client

	openRedis := func() (*redis.Client, error) {
		if rdb != nil {
			return rdb, nil
		}
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 100})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		s.closers = append(s.closers, client.Close)
		logger.Info("connected to redis", "addr", cfg.RedisAddr)
		rdb = client
		return client, nil
	}

	fail := func(err error) (*Store, error) {
		s.Close()
		return nil, err
	}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		mem := storage.NewMemoryAdapter().WithIdempotencyTTL(cfg.IdempotencyTTL)
		s.Repo = mem
		if cfg.IdempotencyEnabled {
			s.Idempotency = mem
		}
		return s, nil

	case config.DriverSQLite:
		db, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return fail(err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fail(err)
		}
		s.closers = append(s.closers, sqlDB.Close)
		adapter := storage.NewSQLiteAdapter(db)
		if err := adapter.Migrate(ctx); err != nil {
			return fail(err)
		}
		s.Repo = adapter
		logger.Info("opened sqlite", "path", cfg.SQLitePath)

	case config.DriverMySQL:
		db, err := storage.OpenMySQL(cfg.MySQLDSN)
		if err != nil {
			return fail(err)
		}
		s.closers = append(s.closers, db.Close)
		if err := db.PingContext(ctx); err != nil {
			return fail(fmt.Errorf("failed to ping mysql: %w", err))
		}
		adapter := storage.NewMySQLAdapter(db)
		if err := adapter.Migrate(ctx); err != nil {
			return fail(err)
		}
		s.Repo = adapter
		logger.Info("connected to mysql")

	case config.DriverPostgres:
		pool, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fail(err)
		}
		s.closers = append(s.closers, func() error { pool.Close(); return nil })
		if err := pool.Ping(ctx); err != nil {
			return fail(fmt.Errorf("failed to ping postgres: %w", err))
		}
		adapter := storage.NewPostgresAdapter(pool)
		if err := adapter.Migrate(ctx); err != nil {
			return fail(err)
		}
		s.Repo = adapter
		logger.Info("connected to postgres")

	case config.DriverRedis:
		client, err := openRedis()
		if err != nil {
			return fail(err)
		}
		s.Repo = storage.NewRedisAdapter(client).WithIdempotencyTTL(cfg.IdempotencyTTL)

	default:
		return fail(fmt.Errorf("unknown store driver %q", cfg.StoreDriver))
	}

	if cfg.IdempotencyEnabled {
		client, err := openRedis()
		if err != nil {
			return fail(err)
		}
		s.Idempotency = storage.NewRedisAdapter(client).WithIdempotencyTTL(cfg.IdempotencyTTL)
	}
	return s, nil
}
