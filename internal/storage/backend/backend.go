// Package backend opens the storage adapter selected by configuration.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"

	"jotter/internal/platform/config"
	"jotter/internal/platform/database"
	platformredis "jotter/internal/platform/redis"
	"jotter/internal/storage"
	"jotter/internal/storage/memory"
	"jotter/internal/storage/postgres"
	redisadapter "jotter/internal/storage/redis"
	s3adapter "jotter/internal/storage/s3"
	"jotter/internal/storage/sqlite"
)

// Backend is an opened adapter plus its lifecycle hooks.
type Backend struct {
	Kind    string
	Adapter storage.Adapter
	Health  func(ctx context.Context) error
	Close   func() error
	// RedisClient is set for the redis backend so callers can sample pool stats.
	RedisClient *platformredis.Client
}

func noopClose() error { return nil }

func alwaysHealthy(context.Context) error { return nil }

// Open connects to cfg.Storage.Backend and applies migrations where the
// backend has a schema.
func Open(ctx context.Context, cfg config.Server, reg prometheus.Registerer, logger *slog.Logger) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		return &Backend{Kind: storage.KindMemory, Adapter: memory.New(), Health: alwaysHealthy, Close: noopClose}, nil

	case config.StorageSQLite, "":
		db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Storage.SQLitePath, err)
		}
		return &Backend{Kind: storage.KindSQLite, Adapter: sqlite.NewAdapter(db), Health: db.Health, Close: db.Close}, nil

	case config.StoragePostgres:
		pool, err := database.New(ctx, database.DefaultConfig(cfg.Postgres.URL))
		if err != nil {
			return nil, err
		}
		adapter := postgres.NewAdapter(pool.DB())
		if err := adapter.Migrate(ctx); err != nil {
			_ = pool.Close()
			return nil, err
		}
		return &Backend{Kind: storage.KindPostgres, Adapter: adapter, Health: pool.Health, Close: pool.Close}, nil

	case config.StorageRedis:
		client, err := platformredis.New(ctx, cfg.Redis, reg)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Kind:        storage.KindRedis,
			Adapter:     redisadapter.NewAdapter(client.Client),
			Health:      client.Health,
			Close:       client.Close,
			RedisClient: client,
		}, nil

	case config.StorageS3:
		client, err := s3adapter.NewClient(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		bucket := cfg.S3.Bucket
		health := func(ctx context.Context) error {
			_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
			return err
		}
		if err := health(ctx); err != nil {
			logger.WarnContext(ctx, "s3 bucket not reachable at startup", "bucket", bucket, "error", err)
		}
		return &Backend{Kind: storage.KindS3, Adapter: s3adapter.NewAdapter(client, bucket), Health: health, Close: noopClose}, nil
	}
	return nil, errors.New("unknown storage backend " + cfg.Storage.Backend)
}
