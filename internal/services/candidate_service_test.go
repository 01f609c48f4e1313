package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/justsurfingit/devjobs/internal/dtos"
	"github.com/justsurfingit/devjobs/internal/models"
	"github.com/justsurfingit/devjobs/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) (*VacancyService, *CandidateService, *models.Vacancy) {
	t.Helper()
	store := repository.NewMemoryStore()
	validator := NewValidator()
	vacancies := NewVacancyService(store, validator, discardLogger())
	candidates := NewCandidateService(store, validator, discardLogger())
	vacancy, err := vacancies.Create(context.Background(), validRequest(), "user-1")
	require.NoError(t, err)
	return vacancies, candidates, vacancy
}

func TestSubmitAppendsCandidate(t *testing.T) {
	_, candidates, vacancy := newTestServices(t)

	err := candidates.Submit(context.Background(), vacancy.URL, dtos.CandidateRequest{
		Nombre: "Ana", Email: "ana@example.com",
	}, "abc123.pdf")
	require.NoError(t, err)

	withCandidates, err := candidates.List(context.Background(), vacancy.ID, "user-1")
	require.NoError(t, err)
	require.Len(t, withCandidates.Candidatos, 1)
	assert.Equal(t, "Ana", withCandidates.Candidatos[0].Nombre)
	assert.Equal(t, "ana@example.com", withCandidates.Candidatos[0].Email)
	assert.Equal(t, "abc123.pdf", withCandidates.Candidatos[0].CV)
}

func TestSubmitKeepsRepeatedSubmissionsInOrder(t *testing.T) {
	_, candidates, vacancy := newTestServices(t)
	req := dtos.CandidateRequest{Nombre: "Ana", Email: "ana@example.com"}

	require.NoError(t, candidates.Submit(context.Background(), vacancy.URL, req, "1.pdf"))
	require.NoError(t, candidates.Submit(context.Background(), vacancy.URL, req, "2.pdf"))

	withCandidates, err := candidates.List(context.Background(), vacancy.ID, "user-1")
	require.NoError(t, err)
	require.Len(t, withCandidates.Candidatos, 2)
	assert.Equal(t, "1.pdf", withCandidates.Candidatos[0].CV)
	assert.Equal(t, "2.pdf", withCandidates.Candidatos[1].CV)
}

func TestSubmitToMissingVacancy(t *testing.T) {
	_, candidates, vacancy := newTestServices(t)

	err := candidates.Submit(context.Background(), "no-existe", dtos.CandidateRequest{
		Nombre: "Ana", Email: "ana@example.com",
	}, "abc123.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	withCandidates, err := candidates.List(context.Background(), vacancy.ID, "user-1")
	require.NoError(t, err)
	assert.Empty(t, withCandidates.Candidatos)
}

func TestSubmitValidation(t *testing.T) {
	_, candidates, _ := newTestServices(t)

	err := candidates.Validate(dtos.CandidateRequest{Nombre: "Ana", Email: "no-es-email"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"El email no es válido"}, verr.Messages)
}

func TestConcurrentSubmissionsAreAllRetained(t *testing.T) {
	_, candidates, vacancy := newTestServices(t)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := candidates.Submit(context.Background(), vacancy.URL, dtos.CandidateRequest{
				Nombre: fmt.Sprintf("Candidato %d", i), Email: "c@example.com",
			}, fmt.Sprintf("%d.pdf", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	withCandidates, err := candidates.List(context.Background(), vacancy.ID, "user-1")
	require.NoError(t, err)
	assert.Len(t, withCandidates.Candidatos, 2)
}

func TestListCandidatesOnlyForOwner(t *testing.T) {
	_, candidates, vacancy := newTestServices(t)

	_, err := candidates.List(context.Background(), vacancy.ID, "user-2")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = candidates.List(context.Background(), "no-existe", "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
