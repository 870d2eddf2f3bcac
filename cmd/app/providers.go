package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/growth-monitor/internal/domain/assessment"
	"github.com/yanqian/growth-monitor/internal/domain/growth"
	"github.com/yanqian/growth-monitor/internal/infra/assessmentcache"
	"github.com/yanqian/growth-monitor/internal/infra/config"
	"github.com/yanqian/growth-monitor/internal/infra/reference"
)

func provideAssessmentConfig(cfg *config.Config) assessment.Config {
	return assessment.Config{
		CacheTTL:         cfg.Assessment.CacheTTL,
		BatchConcurrency: cfg.Assessment.BatchConcurrency,
		MaxBatchSize:     cfg.Assessment.MaxBatchSize,
	}
}

// provideReferenceStore loads every required table before anything is served.
// There is no fallback; a missing or malformed table stops startup.
func provideReferenceStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*growth.ReferenceStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Reference.LoadTimeout)
	defer cancel()

	src, closeSource, err := newReferenceSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	return reference.Load(ctx, src, logger)
}

func newReferenceSource(ctx context.Context, cfg *config.Config) (reference.Source, func(), error) {
	noop := func() {}
	switch cfg.Reference.Source {
	case config.SourcePostgres:
		pool, err := newPostgresPool(ctx, cfg.Reference.Postgres)
		if err != nil {
			return nil, noop, err
		}
		return reference.NewPostgresSource(pool, cfg.Reference.Postgres.Table), pool.Close, nil
	case config.SourceObjectStore:
		store := cfg.Reference.ObjectStore
		opener, err := reference.NewBucketOpener(store.Endpoint, store.AccessKey, store.SecretKey, store.Bucket, store.Region, store.Prefix)
		if err != nil {
			return nil, noop, err
		}
		return reference.NewFileSource(opener), noop, nil
	default:
		return reference.NewFileSource(reference.NewDirOpener(cfg.Reference.Dir)), noop, nil
	}
}

func newPostgresPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return pool, nil
}

// provideAssessmentCache prefers Valkey and falls back to process memory.
func provideAssessmentCache(cfg *config.Config, logger *slog.Logger) assessment.Cache {
	if cfg.Cache.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return assessmentcache.NewMemoryStore(cfg.Cache.Memory.MaxEntries)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return assessmentcache.NewMemoryStore(cfg.Cache.Memory.MaxEntries)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("assessment valkey cache enabled", "addr", cfg.Cache.Redis.Addr)
			return assessmentcache.NewValkeyStore(client, cfg.Cache.Redis.Prefix)
		}
	}
	return assessmentcache.NewMemoryStore(cfg.Cache.Memory.MaxEntries)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
