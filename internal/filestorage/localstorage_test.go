package filestorage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	content := "%PDF-1.4 curriculum"
	dir := filepath.Join(t.TempDir(), "uploads", "cv")
	storage := NewLocalStorage(dir)

	path, err := storage.Upload(context.Background(), []byte(content), "abc123.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc123.pdf"), path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(written))
}

func TestUploadStaysInsideDirectory(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalStorage(dir)

	path, err := storage.Upload(context.Background(), []byte("x"), "../../etc/evil.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "evil.pdf"), path)
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalStorage(dir)

	path, err := storage.Upload(context.Background(), []byte("x"), "abc123.pdf", "application/pdf")
	require.NoError(t, err)

	require.NoError(t, storage.Delete(context.Background(), "abc123.pdf"))
	assert.NoFileExists(t, path)

	assert.NoError(t, storage.Delete(context.Background(), "abc123.pdf"))
}
