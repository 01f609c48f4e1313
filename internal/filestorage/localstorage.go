package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type localStorage struct {
	dir string
}

// NewLocalStorage returns a storage that writes files under dir,
// creating it on first use.
func NewLocalStorage(dir string) FileStorage {
	return &localStorage{dir: dir}
}

func (l *localStorage) Upload(ctx context.Context, b []byte, fileName, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", l.dir, err)
	}
	// fileName is generated by the intake guard; Base keeps it inside dir regardless.
	path := filepath.Join(l.dir, filepath.Base(fileName))
	if err := os.WriteFile(path, b, 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return path, nil
}

func (l *localStorage) Delete(ctx context.Context, fileName string) error {
	path := filepath.Join(l.dir, filepath.Base(fileName))
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}
