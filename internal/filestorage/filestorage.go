package filestorage

import "context"

// FileStorage stores an accepted résumé under the given name and returns
// where it was written (a path or an object URL).
type FileStorage interface {
	Upload(ctx context.Context, b []byte, fileName, contentType string) (string, error)
	// Delete removes a file written by Upload. A missing file is not an error.
	Delete(ctx context.Context, fileName string) error
}
