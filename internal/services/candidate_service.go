package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/justsurfingit/devjobs/internal/dtos"
	"github.com/justsurfingit/devjobs/internal/models"
	"github.com/justsurfingit/devjobs/internal/repository"
)

type CandidateService struct {
	Store     repository.VacancyStore
	Validator *Validator
	Logger    *slog.Logger
}

func NewCandidateService(store repository.VacancyStore, validator *Validator, logger *slog.Logger) *CandidateService {
	return &CandidateService{
		Store:     store,
		Validator: validator,
		Logger:    logger,
	}
}

// Validate checks the text fields of a submission before any file is
// stored.
func (s *CandidateService) Validate(req dtos.CandidateRequest) error {
	return s.Validator.Struct(cleanCandidate(req))
}

// Submit appends a candidate to the vacancy at url. cv must be a filename
// produced by the upload intake. Repeated submissions from the same email
// are all kept.
func (s *CandidateService) Submit(ctx context.Context, url string, req dtos.CandidateRequest, cv string) error {
	req = cleanCandidate(req)
	if err := s.Validator.Struct(req); err != nil {
		return err
	}
	err := s.Store.AppendCandidate(ctx, url, models.Candidate{
		Nombre: req.Nombre,
		Email:  req.Email,
		CV:     cv,
	})
	if err != nil {
		return err
	}
	s.Logger.Info("candidate submitted", slog.String("url", url), slog.String("cv", cv))
	return nil
}

// List returns the vacancy with its candidates, only to the author.
func (s *CandidateService) List(ctx context.Context, vacancyID, actor string) (*models.Vacancy, error) {
	vacancy, err := s.Store.FindByID(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(vacancy, actor) {
		return nil, ErrForbidden
	}
	if vacancy.Candidatos == nil {
		vacancy.Candidatos = []models.Candidate{}
	}
	return vacancy, nil
}

func cleanCandidate(req dtos.CandidateRequest) dtos.CandidateRequest {
	return dtos.CandidateRequest{
		Nombre: sanitize(req.Nombre),
		Email:  strings.TrimSpace(req.Email),
	}
}
