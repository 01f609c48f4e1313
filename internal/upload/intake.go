package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/justsurfingit/devjobs/internal/filestorage"
)

var (
	ErrFileTooLarge  = errors.New("upload: file too large")
	ErrInvalidFormat = errors.New("upload: invalid file format")
)

// Policy describes what an accepted résumé looks like. It is passed to New
// explicitly; there is no package-level upload configuration.
type Policy struct {
	MaxBytes     int64
	AllowedTypes []string
	// FormField is the multipart field that carries the file.
	FormField string
}

func DefaultPolicy() Policy {
	return Policy{
		MaxBytes:     200000,
		AllowedTypes: []string{"application/pdf"},
		FormField:    "cv",
	}
}

func (p Policy) allows(contentType string) bool {
	for _, allowed := range p.AllowedTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

// Message returns the text shown to the uploader for a rejection.
func (p Policy) Message(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return fmt.Sprintf("El archivo es muy grande: Máximo %dkb", p.MaxBytes/1000)
	case errors.Is(err, ErrInvalidFormat):
		return "Formato No Válido"
	default:
		return "No se pudo subir el archivo"
	}
}

// Intake validates uploaded résumés and writes accepted ones to storage
// under a generated name.
type Intake struct {
	policy  Policy
	storage filestorage.FileStorage
	newID   func() string
}

func New(policy Policy, storage filestorage.FileStorage) *Intake {
	return &Intake{
		policy:  policy,
		storage: storage,
		newID:   shortID,
	}
}

func (in *Intake) Policy() Policy {
	return in.policy
}

// Accept checks the declared size and type, re-checks both against the
// actual bytes, and stores the file. It returns the generated filename.
// The client's filename is never used.
func (in *Intake) Accept(ctx context.Context, contentType string, size int64, r io.Reader) (string, error) {
	if size > in.policy.MaxBytes {
		return "", ErrFileTooLarge
	}
	if !in.policy.allows(contentType) {
		return "", ErrInvalidFormat
	}

	data, err := io.ReadAll(io.LimitReader(r, in.policy.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > in.policy.MaxBytes {
		return "", ErrFileTooLarge
	}
	if !mimetype.Detect(data).Is(contentType) {
		return "", ErrInvalidFormat
	}

	name := in.newID() + "." + extension(contentType)
	if _, err := in.storage.Upload(ctx, data, name, contentType); err != nil {
		return "", fmt.Errorf("store upload %s: %w", name, err)
	}
	return name, nil
}

// Discard removes a file previously returned by Accept, for submissions
// that failed after the upload was stored.
func (in *Intake) Discard(ctx context.Context, name string) error {
	if err := in.storage.Delete(ctx, name); err != nil {
		return fmt.Errorf("discard upload %s: %w", name, err)
	}
	return nil
}

// extension derives the file extension from the validated MIME type,
// e.g. application/pdf -> pdf.
func extension(contentType string) string {
	if _, sub, ok := strings.Cut(contentType, "/"); ok && sub != "" {
		return sub
	}
	return "bin"
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
