package ports

import "context"

// KVStore — хранилище «профиль → ключ → значение».
// Значение записывается и читается целиком, частичных записей нет.
type KVStore interface {
	// Get — (value, true, nil) при наличии ключа, (nil, false, nil) при отсутствии.
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	// Put — полностью перезаписать значение.
	Put(ctx context.Context, namespace, key string, value []byte) error
	// Delete — удалить ключ; отсутствие ключа не ошибка.
	Delete(ctx context.Context, namespace, key string) error
}
