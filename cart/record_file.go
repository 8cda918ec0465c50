package cart

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileRecordStore keeps the cart record in a single file on disk, the
// storefront's analog of the original browser-storage entry.
type FileRecordStore struct {
	path string
}

// NewFileRecordStore creates a record store backed by the file at path.
func NewFileRecordStore(path string) *FileRecordStore {
	return &FileRecordStore{path: path}
}

func (f *FileRecordStore) Read(ctx context.Context) ([]byte, bool, error) {
	value, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (f *FileRecordStore) Write(ctx context.Context, value []byte) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(f.path, value, 0o600)
}

func (f *FileRecordStore) Delete(ctx context.Context) error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
