// Package file — KV-хранилище профилей на локальном диске.
//
// Раскладка: <dir>/<namespace>/<key>.json, имена экранируются url.PathEscape.
// Запись атомарна: временный файл в том же каталоге + rename.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/Gunvolt24/techshop/internal/ports"
)

const ext = ".json"

// ErrInvalidName — пространство или ключ не годятся как имя файла.
var ErrInvalidName = errors.New("invalid storage name")

type KVStore struct {
	dir string
}

var _ ports.KVStore = (*KVStore)(nil)

// NewKVStore — создаёт корневой каталог, если его нет.
func NewKVStore(dir string) (*KVStore, error) {
	if dir == "" {
		return nil, errors.New("storage dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &KVStore{dir: dir}, nil
}

func (s *KVStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path, err := s.path(namespace, key)
	if err != nil {
		return nil, false, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s/%s: %w", namespace, key, err)
	}
	return raw, true, nil
}

func (s *KVStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(namespace, key)
	if err != nil {
		return err
	}
	nsDir := filepath.Dir(path)
	if err := os.MkdirAll(nsDir, 0o755); err != nil {
		return fmt.Errorf("create namespace dir: %w", err)
	}

	tmp, err := os.CreateTemp(nsDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // после успешного rename файла уже нет

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s/%s: %w", namespace, key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("commit %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, namespace, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(namespace, key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

// path — файл значения внутри s.dir. PathEscape оставляет "." и ".."
// как есть, поэтому такие имена отклоняются.
func (s *KVStore) path(namespace, key string) (string, error) {
	for _, name := range [...]string{namespace, key} {
		if name == "" || name == "." || name == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return filepath.Join(s.dir, url.PathEscape(namespace), url.PathEscape(key)+ext), nil
}
