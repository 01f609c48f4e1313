package repository

import (
	"context"
	"errors"

	"github.com/justsurfingit/devjobs/internal/models"
)

// ErrNotFound is returned when no vacancy matches the lookup. Callers treat
// it as a normal outcome, not a failure.
var ErrNotFound = errors.New("vacancy not found")

// VacancyStore is the persistence boundary for vacancies and their
// candidates. Implementations must make AppendCandidate atomic so that
// concurrent submissions against one vacancy are all retained.
type VacancyStore interface {
	Create(ctx context.Context, vacancy *models.Vacancy) error
	URLExists(ctx context.Context, url string) (bool, error)
	FindByURL(ctx context.Context, url string) (*models.Vacancy, error)
	FindByID(ctx context.Context, id string) (*models.Vacancy, error)
	Update(ctx context.Context, url string, fields models.VacancyFields) (*models.Vacancy, error)
	Delete(ctx context.Context, id, autor string) error
	AppendCandidate(ctx context.Context, url string, candidate models.Candidate) error
	Search(ctx context.Context, query string) ([]models.Vacancy, error)
	List(ctx context.Context) ([]models.Vacancy, error)
	ListByAuthor(ctx context.Context, autor string) ([]models.Vacancy, error)
}
