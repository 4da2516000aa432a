// Package memory — KV-хранилище профилей в памяти процесса.
// Для локального запуска и тестов: данные живут до перезапуска.
package memory

import (
	"context"
	"sync"

	"github.com/Gunvolt24/techshop/internal/ports"
)

type KVStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

var _ ports.KVStore = (*KVStore)(nil)

func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]map[string][]byte)}
}

func (s *KVStore) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[namespace][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *KVStore) Put(_ context.Context, namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		s.data[namespace] = ns
	}
	ns[key] = append([]byte(nil), value...)
	return nil
}

func (s *KVStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ns, ok := s.data[namespace]; ok {
		delete(ns, key)
		if len(ns) == 0 {
			delete(s.data, namespace)
		}
	}
	return nil
}
