package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rushteam/innermatch/core"
)

// FileStore 是文件系统实现的 ModelStore：每个 key 对应模型目录下的一个文件。
// 写入通过临时文件 + rename 完成，读者不会观察到写了一半的 blob。
type FileStore struct {
	dir string
}

// NewFileStore 创建 FileStore，模型目录不存在时自动创建。
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "models"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeStorageFailure,
			fmt.Sprintf("store: create model dir %s: %v", dir, err))
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Name() string { return "file" }

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key)
}

func (f *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(f.path(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, core.NewDomainError(core.ModuleStore, core.ErrorCodeStorageFailure,
		fmt.Sprintf("store: stat %s: %v", key, err))
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.ErrStoreNotFound
		}
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeStorageFailure,
			fmt.Sprintf("store: read %s: %v", key, err))
	}
	return data, nil
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	// 先写临时文件再 rename，保证替换对读者原子可见
	tmp, err := os.CreateTemp(f.dir, key+".tmp-*")
	if err != nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeStorageFailure,
			fmt.Sprintf("store: create temp for %s: %v", key, err))
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeStorageFailure,
			fmt.Sprintf("store: write %s: %v", key, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeStorageFailure,
			fmt.Sprintf("store: close temp for %s: %v", key, err))
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		os.Remove(tmpName)
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeStorageFailure,
			fmt.Sprintf("store: rename %s: %v", key, err))
	}
	return nil
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeStorageFailure,
			fmt.Sprintf("store: remove %s: %v", key, err))
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

var _ core.ModelStore = (*FileStore)(nil)
