package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/brickstore/brickstore/config"
)

// Migrator is implemented by backends that need schema creation.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// Open connects the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, nodeID int64) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "postgres", "postgresql":
		db, err := OpenPostgres(cfg.Dsn, cfg.Debug)
		if err != nil {
			return nil, err
		}
		zap.S().Infof("Database connection successful, type: %s", driver)
		return NewGormStore(db), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, errors.Wrapf(err, "could not connect to redis (%s)", cfg.RedisAddr)
		}
		zap.S().Infof("Redis connection successful, addr: %s", cfg.RedisAddr)
		return NewRedisStore(client), nil
	case "bolt", "":
		s, err := OpenBolt(cfg.BoltPath, nodeID)
		if err != nil {
			return nil, err
		}
		zap.S().Infof("Bolt store opened, path: %s", cfg.BoltPath)
		return s, nil
	case "memory":
		zap.S().Warn("Using in-memory store, data is lost on exit")
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
}
