package services

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/justsurfingit/devjobs/internal/dtos"
	"github.com/justsurfingit/devjobs/internal/models"
	"github.com/justsurfingit/devjobs/internal/repository"
	"github.com/lib/pq"
)

const maxURLAttempts = 5

type VacancyService struct {
	Store     repository.VacancyStore
	Validator *Validator
	Logger    *slog.Logger

	newSuffix func() string
}

func NewVacancyService(store repository.VacancyStore, validator *Validator, logger *slog.Logger) *VacancyService {
	return &VacancyService{
		Store:     store,
		Validator: validator,
		Logger:    logger,
		newSuffix: slugSuffix,
	}
}

// Create publishes a vacancy owned by autor.
func (s *VacancyService) Create(ctx context.Context, req dtos.VacancyRequest, autor string) (*models.Vacancy, error) {
	req = sanitizeVacancy(req)
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}

	url, err := s.uniqueURL(ctx, html.UnescapeString(req.Titulo))
	if err != nil {
		return nil, err
	}
	vacancy := &models.Vacancy{
		ID:          uuid.NewString(),
		Titulo:      req.Titulo,
		Empresa:     req.Empresa,
		Ubicacion:   req.Ubicacion,
		Salario:     req.Salario,
		Contrato:    req.Contrato,
		Descripcion: req.Descripcion,
		URL:         url,
		Skills:      pq.StringArray(ParseSkills(req.Skills)),
		Autor:       autor,
	}
	if err := s.Store.Create(ctx, vacancy); err != nil {
		return nil, err
	}
	s.Logger.Info("vacancy created", slog.String("id", vacancy.ID), slog.String("url", vacancy.URL), slog.String("autor", autor))
	return vacancy, nil
}

// Get returns the public view of a vacancy.
func (s *VacancyService) Get(ctx context.Context, url string) (*models.Vacancy, error) {
	return s.Store.FindByURL(ctx, url)
}

// GetForEdit returns the vacancy only to its author.
func (s *VacancyService) GetForEdit(ctx context.Context, url, actor string) (*models.Vacancy, error) {
	vacancy, err := s.Store.FindByURL(ctx, url)
	if err != nil {
		return nil, err
	}
	if !IsOwner(vacancy, actor) {
		return nil, ErrForbidden
	}
	return vacancy, nil
}

// Update overwrites the fields present in req. Validation runs on the
// merged vacancy, not only on the submitted fields.
func (s *VacancyService) Update(ctx context.Context, url string, req dtos.VacancyUpdateRequest, actor string) (*models.Vacancy, error) {
	current, err := s.GetForEdit(ctx, url, actor)
	if err != nil {
		return nil, err
	}

	merged := dtos.VacancyRequest{
		Titulo:      current.Titulo,
		Empresa:     current.Empresa,
		Ubicacion:   current.Ubicacion,
		Salario:     current.Salario,
		Contrato:    current.Contrato,
		Descripcion: current.Descripcion,
		Skills:      strings.Join(current.Skills, ","),
	}
	skills := []string(current.Skills)
	overlay(&merged.Titulo, sanitizePtr(req.Titulo))
	overlay(&merged.Empresa, sanitizePtr(req.Empresa))
	overlay(&merged.Ubicacion, sanitizePtr(req.Ubicacion))
	overlay(&merged.Salario, sanitizePtr(req.Salario))
	overlay(&merged.Contrato, sanitizePtr(req.Contrato))
	overlay(&merged.Descripcion, req.Descripcion)
	if raw := sanitizePtr(req.Skills); raw != nil {
		merged.Skills = *raw
		skills = ParseSkills(*raw)
	}
	if err := s.Validator.Struct(merged); err != nil {
		return nil, err
	}

	updated, err := s.Store.Update(ctx, url, models.VacancyFields{
		Titulo:      merged.Titulo,
		Empresa:     merged.Empresa,
		Ubicacion:   merged.Ubicacion,
		Salario:     merged.Salario,
		Contrato:    merged.Contrato,
		Descripcion: merged.Descripcion,
		Skills:      skills,
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("vacancy updated", slog.String("url", url), slog.String("autor", actor))
	return updated, nil
}

// Delete removes the vacancy and its candidates. Non-owners get
// ErrForbidden and nothing changes.
func (s *VacancyService) Delete(ctx context.Context, id, actor string) error {
	vacancy, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !IsOwner(vacancy, actor) {
		s.Logger.Warn("vacancy delete refused", slog.String("id", id), slog.String("actor", actor))
		return ErrForbidden
	}
	if err := s.Store.Delete(ctx, id, actor); err != nil {
		return err
	}
	s.Logger.Info("vacancy deleted", slog.String("id", id), slog.Int("candidatos", len(vacancy.Candidatos)))
	return nil
}

// Search runs a full-text query. No match is an empty slice.
func (s *VacancyService) Search(ctx context.Context, query string) ([]models.Vacancy, error) {
	vacancies, err := s.Store.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if vacancies == nil {
		vacancies = []models.Vacancy{}
	}
	return vacancies, nil
}

func (s *VacancyService) List(ctx context.Context) ([]models.Vacancy, error) {
	return s.Store.List(ctx)
}

func (s *VacancyService) ListByAuthor(ctx context.Context, autor string) ([]models.Vacancy, error) {
	return s.Store.ListByAuthor(ctx, autor)
}

// uniqueURL derives the slug from the title and appends a random suffix,
// drawing a new suffix while the url is taken.
func (s *VacancyService) uniqueURL(ctx context.Context, titulo string) (string, error) {
	base := Slugify(titulo)
	for i := 0; i < maxURLAttempts; i++ {
		url := base + "-" + s.newSuffix()
		exists, err := s.Store.URLExists(ctx, url)
		if err != nil {
			return "", err
		}
		if !exists {
			return url, nil
		}
	}
	return "", fmt.Errorf("no free url for %q after %d attempts", base, maxURLAttempts)
}

// sanitizeVacancy escapes the plain-text fields. The description comes from
// the rich text editor and is stored as submitted.
func sanitizeVacancy(req dtos.VacancyRequest) dtos.VacancyRequest {
	return dtos.VacancyRequest{
		Titulo:      sanitize(req.Titulo),
		Empresa:     sanitize(req.Empresa),
		Ubicacion:   sanitize(req.Ubicacion),
		Salario:     sanitize(req.Salario),
		Contrato:    sanitize(req.Contrato),
		Descripcion: req.Descripcion,
		Skills:      sanitize(req.Skills),
	}
}

func overlay(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
