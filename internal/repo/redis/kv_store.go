// Package redis — KV-хранилище профилей на Redis (go-redis/v9).
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Gunvolt24/techshop/internal/ports"
	goredis "github.com/redis/go-redis/v9"
)

// Проверка, что KVStore удовлетворяет интерфейсу ports.KVStore.
var _ ports.KVStore = (*KVStore)(nil)

// Config — параметры подключения к Redis.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// KVStore — значения хранятся строками под ключами <prefix>:<namespace>:<key>.
type KVStore struct {
	client goredis.UniversalClient
	prefix string
}

// NewClient — клиент с проверкой соединения (PING) при старте.
func NewClient(ctx context.Context, cfg Config) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func NewKVStore(client goredis.UniversalClient, prefix string) *KVStore {
	return &KVStore{client: client, prefix: strings.Trim(prefix, ":")}
}

func (s *KVStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.redisKey(namespace, key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s/%s: %w", namespace, key, err)
	}
	return value, true, nil
}

// Put — SET без TTL: корзина живёт, пока её не очистят.
func (s *KVStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	if err := s.client.Set(ctx, s.redisKey(namespace, key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, namespace, key string) error {
	if err := s.client.Del(ctx, s.redisKey(namespace, key)).Err(); err != nil {
		return fmt.Errorf("redis del %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *KVStore) redisKey(namespace, key string) string {
	if s.prefix == "" {
		return namespace + ":" + key
	}
	return s.prefix + ":" + namespace + ":" + key
}
