package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gunvolt24/techshop/config"
	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/Gunvolt24/techshop/internal/repo/postgres"
	kvredis "github.com/Gunvolt24/techshop/internal/repo/redis"
	"github.com/Gunvolt24/techshop/internal/storage/file"
	kvmem "github.com/Gunvolt24/techshop/internal/storage/memory"
)

// Драйверы хранилища профилей (SHOP_STORAGE_DRIVER).
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// OpenStorage — KV-хранилище корзин по конфигурации и функция его закрытия.
func OpenStorage(ctx context.Context, cfg *config.Config, log ports.Logger) (ports.KVStore, func(), error) {
	noop := func() {}

	switch driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)); driver {
	case DriverMemory, "":
		log.Warnf(ctx, "storage driver=memory: carts are lost on restart")
		return kvmem.NewKVStore(), noop, nil

	case DriverFile:
		store, err := file.NewKVStore(cfg.Storage.Dir)
		if err != nil {
			return nil, noop, fmt.Errorf("file storage: %w", err)
		}
		log.Infof(ctx, "storage driver=file dir=%s", cfg.Storage.Dir)
		return store, noop, nil

	case DriverPostgres:
		if cfg.Postgres.Migrate {
			if err := postgres.Migrate(ctx, cfg.Postgres.DSN); err != nil {
				return nil, noop, fmt.Errorf("postgres migrate: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, noop, fmt.Errorf("postgres pool: %w", err)
		}
		log.Infof(ctx, "storage driver=postgres max_conns=%d", cfg.Postgres.MaxConns)
		return postgres.NewKVStore(pool), pool.Close, nil

	case DriverRedis:
		client, err := kvredis.NewClient(ctx, kvredis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, noop, err
		}
		log.Infof(ctx, "storage driver=redis addr=%s db=%d", cfg.Redis.Addr, cfg.Redis.DB)
		closeClient := func() {
			if err := client.Close(); err != nil {
				log.Warnf(ctx, "redis close: %v", err)
			}
		}
		return kvredis.NewKVStore(client, cfg.Redis.KeyPrefix), closeClient, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", driver)
	}
}
