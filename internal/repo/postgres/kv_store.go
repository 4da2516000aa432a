package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что KVStore удовлетворяет интерфейсу ports.KVStore.
var _ ports.KVStore = (*KVStore)(nil)

// KVStore — значения профилей в таблице profile_kv (PRIMARY KEY (namespace, key)).
type KVStore struct {
	pool *pgxpool.Pool
}

func NewKVStore(pool *pgxpool.Pool) *KVStore { return &KVStore{pool: pool} }

func (s *KVStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `
		SELECT value FROM profile_kv
		WHERE namespace = $1 AND key = $2
	`, namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s/%s: %w", namespace, key, err)
	}
	return value, true, nil
}

// Put — upsert: значение перезаписывается целиком.
func (s *KVStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO profile_kv (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, namespace, key, value); err != nil {
		return fmt.Errorf("upsert %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, namespace, key string) error {
	if _, err := s.pool.Exec(ctx, `
		DELETE FROM profile_kv WHERE namespace = $1 AND key = $2
	`, namespace, key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	return nil
}
