// Package bootstrap turns configuration into the catalog store and asset
// sink shared by the service binaries and the admin CLI.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/toyfactory/toyfactory/backend/go-services/internal/assets"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog/repository"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/config"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/database"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectAttempts = 5

// Store is an opened catalog backend.
type Store struct {
	Repo repository.Repository
	// Ping reports whether the backend is reachable.
	Ping func(ctx context.Context) error
	// Close releases connections.
	Close func()
	// Postgres is set for the postgres backend so callers can manage the schema.
	Postgres *repository.PostgresRepo
}

func noop() {}

// OpenRepository connects the configured backend. Remote backends are
// fronted by the LRU cache when CATALOG_CACHE_SIZE > 0.
func OpenRepository(ctx context.Context, cfg *config.Config) (*Store, error) {
	var s *Store
	switch cfg.Catalog.Backend {
	case config.BackendMemory:
		s = &Store{
			Repo:  repository.NewMemoryRepo(),
			Ping:  func(context.Context) error { return nil },
			Close: noop,
		}
		logger.Infof("catalog backend: memory")
		return s, nil

	case config.BackendMongo:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, connectAttempts)
		if err != nil {
			return nil, err
		}
		repo, err := repository.NewMongoRepo(ctx, client.Database(cfg.MongoDB.Database))
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		s = &Store{
			Repo:  repo,
			Ping:  func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			Close: func() { _ = client.Disconnect(context.Background()) },
		}
		logger.Infof("catalog backend: mongo (%s)", cfg.MongoDB.Database)

	case config.BackendPostgres:
		db, err := database.OpenPostgresWithRetry(ctx, cfg.Postgres.DSN(), connectAttempts)
		if err != nil {
			return nil, err
		}
		repo := repository.NewPostgresRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		s = &Store{
			Repo:     repo,
			Ping:     db.PingContext,
			Close:    func() { _ = db.Close() },
			Postgres: repo,
		}
		logger.Infof("catalog backend: postgres (%s@%s)", cfg.Postgres.Database, cfg.Postgres.Host)

	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Catalog.Backend)
	}

	if cfg.Catalog.CacheSize > 0 {
		s.Repo = repository.NewCachedRepo(s.Repo, cfg.Catalog.CacheSize, cfg.Catalog.CacheTTL)
		logger.Infof("catalog cache: %d entries, ttl %s", cfg.Catalog.CacheSize, cfg.Catalog.CacheTTL)
	}
	return s, nil
}

// SeedDemo installs the demo catalogue when the store is empty.
func SeedDemo(ctx context.Context, repo repository.Repository) error {
	n, err := repository.Seed(ctx, repo, catalog.DemoProjects(time.Now()))
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if n > 0 {
		logger.Infof("seeded %d demo projects", n)
	}
	return nil
}

// OpenSink builds the configured asset sink.
func OpenSink(ctx context.Context, cfg *config.Config) (assets.Sink, error) {
	switch cfg.Uploads.Sink {
	case config.SinkFile:
		s, err := assets.NewFileSink(cfg.Uploads.Dir, cfg.Uploads.PublicPrefix)
		if err != nil {
			return nil, err
		}
		logger.Infof("asset sink: file (%s)", cfg.Uploads.Dir)
		return s, nil
	case config.SinkMinIO:
		s, err := assets.NewMinIOSink(ctx, cfg.MinIO, cfg.Uploads.PublicPrefix)
		if err != nil {
			return nil, err
		}
		logger.Infof("asset sink: minio (%s/%s)", cfg.MinIO.Endpoint, cfg.MinIO.Bucket)
		return s, nil
	}
	return nil, fmt.Errorf("unknown upload sink %q", cfg.Uploads.Sink)
}
