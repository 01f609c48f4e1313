package services

import (
	"errors"

	"github.com/justsurfingit/devjobs/internal/repository"
)

var (
	// ErrNotFound is the store's not-found error, re-exported so handlers
	// only depend on services.
	ErrNotFound = repository.ErrNotFound
	// ErrForbidden means the acting user does not own the vacancy.
	ErrForbidden = errors.New("forbidden")
)
