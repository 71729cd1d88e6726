package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/cahier-app/cahier-backend/config"
	"github.com/cahier-app/cahier-backend/internal/logger"
	"github.com/cahier-app/cahier-backend/internal/projects/repository"
	"github.com/cahier-app/cahier-backend/internal/storage/kv"
	"github.com/cahier-app/cahier-backend/internal/storage/postgres"
)

// OpenStore builds the project store selected by configuration. The returned
// close function releases the underlying connection and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, func() error, error) {
	log := logger.New(ctx)

	switch cfg.Store.Backend {
	case config.BackendRemote:
		db, err := postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewPostgresStore(db)
		if cfg.Database.AutoCreate {
			if err := store.EnsureSchema(ctx); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		log.LogInfof("bootstrap.store", "backend=remote driver=%s", cfg.Database.Driver)
		return store, db.Close, nil

	case config.BackendLocal:
		storage, err := openLocalStorage(ctx, &cfg.Local, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewLocalStore(storage, repository.WithLocalKey(cfg.Local.StorageKey))
		log.LogInfof("bootstrap.store", "backend=local driver=%s key=%s", cfg.Local.Driver, cfg.Local.StorageKey)
		return store, storage.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func openLocalStorage(ctx context.Context, local *config.LocalConfig, rc *config.RedisConfig) (kv.Storage, error) {
	switch local.Driver {
	case config.DriverFile:
		return kv.NewFile(local.DataDir)
	case config.DriverSQLite:
		if local.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(local.SQLitePath), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite dir: %w", err)
			}
		}
		return kv.OpenSQLite(ctx, local.SQLitePath)
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return kv.NewRedis(client), nil
	case config.DriverMemory:
		return kv.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown local driver %q", local.Driver)
}
