package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/devjobs/internal/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// searchVector must stay identical to the expression of the GIN index so
// that Postgres can use it.
const searchVector = `to_tsvector('spanish', coalesce(titulo, '') || ' ' || coalesce(empresa, '') || ' ' || coalesce(ubicacion, '') || ' ' || coalesce(descripcion, '') || ' ' || coalesce(vacancy_skills_text(skills), ''))`

// array_to_string is only STABLE, so the index expression goes through an
// IMMUTABLE wrapper.
const skillsTextFunction = `CREATE OR REPLACE FUNCTION vacancy_skills_text(text[]) RETURNS text
LANGUAGE sql IMMUTABLE PARALLEL SAFE AS $$ SELECT array_to_string($1, ' ') $$`

const appendCandidateSQL = `INSERT INTO candidates (vacancy_id, created_at, nombre, email, cv)
SELECT id, ?, ?, ?, ? FROM vacancies WHERE url = ?`

type PostgresStore struct {
	DB *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// Migrate creates the tables and the full-text index.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	db := s.DB.WithContext(ctx)
	if err := db.AutoMigrate(&models.Vacancy{}, &models.Candidate{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec(skillsTextFunction).Error; err != nil {
		return fmt.Errorf("create skills text function: %w", err)
	}
	// vacancies_search_idx predates skills in the search expression.
	if err := db.Exec("DROP INDEX IF EXISTS vacancies_search_idx").Error; err != nil {
		return fmt.Errorf("drop old search index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS vacancies_fts_idx ON vacancies USING GIN (" + searchVector + ")").Error; err != nil {
		return fmt.Errorf("create search index: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, vacancy *models.Vacancy) error {
	if err := s.DB.WithContext(ctx).Omit("Candidatos").Create(vacancy).Error; err != nil {
		return fmt.Errorf("insert vacancy %q: %w", vacancy.URL, err)
	}
	return nil
}

func (s *PostgresStore) URLExists(ctx context.Context, url string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Vacancy{}).Where("url = ?", url).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count vacancies by url: %w", err)
	}
	return count > 0, nil
}

// FindByURL returns the public view of a vacancy; candidates are not loaded.
func (s *PostgresStore) FindByURL(ctx context.Context, url string) (*models.Vacancy, error) {
	var vacancy models.Vacancy
	err := s.DB.WithContext(ctx).Where("url = ?", url).First(&vacancy).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &vacancy, nil
}

// FindByID loads the vacancy with its candidates in submission order.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Vacancy, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var vacancy models.Vacancy
	err := s.DB.WithContext(ctx).
		Preload("Candidatos", func(db *gorm.DB) *gorm.DB {
			return db.Order("candidates.id ASC")
		}).
		Where("id = ?", id).
		First(&vacancy).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &vacancy, nil
}

func (s *PostgresStore) Update(ctx context.Context, url string, fields models.VacancyFields) (*models.Vacancy, error) {
	res := s.DB.WithContext(ctx).Model(&models.Vacancy{}).Where("url = ?", url).Updates(map[string]interface{}{
		"titulo":      fields.Titulo,
		"empresa":     fields.Empresa,
		"ubicacion":   fields.Ubicacion,
		"salario":     fields.Salario,
		"contrato":    fields.Contrato,
		"descripcion": fields.Descripcion,
		"skills":      pq.StringArray(fields.Skills),
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update vacancy %q: %w", url, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.FindByURL(ctx, url)
}

func (s *PostgresStore) Delete(ctx context.Context, id, autor string) error {
	if !validID(id) {
		return ErrNotFound
	}
	res := s.DB.WithContext(ctx).Where("id = ? AND autor = ?", id, autor).Delete(&models.Vacancy{})
	if res.Error != nil {
		return fmt.Errorf("delete vacancy %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendCandidate inserts the candidate in a single statement keyed by the
// vacancy url, so there is no read-modify-write window.
func (s *PostgresStore) AppendCandidate(ctx context.Context, url string, candidate models.Candidate) error {
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = time.Now().UTC()
	}
	res := s.DB.WithContext(ctx).Exec(appendCandidateSQL,
		candidate.CreatedAt, candidate.Nombre, candidate.Email, candidate.CV, url)
	if res.Error != nil {
		return fmt.Errorf("append candidate to %q: %w", url, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Search(ctx context.Context, query string) ([]models.Vacancy, error) {
	vacancies := []models.Vacancy{}
	err := s.DB.WithContext(ctx).
		Where(searchVector+" @@ plainto_tsquery('spanish', ?)", query).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "ts_rank(" + searchVector + ", plainto_tsquery('spanish', ?)) DESC",
			Vars:               []interface{}{query},
			WithoutParentheses: true,
		}}).
		Find(&vacancies).Error
	if err != nil {
		return nil, fmt.Errorf("search vacancies: %w", err)
	}
	return vacancies, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Vacancy, error) {
	vacancies := []models.Vacancy{}
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&vacancies).Error; err != nil {
		return nil, fmt.Errorf("list vacancies: %w", err)
	}
	return vacancies, nil
}

func (s *PostgresStore) ListByAuthor(ctx context.Context, autor string) ([]models.Vacancy, error) {
	vacancies := []models.Vacancy{}
	err := s.DB.WithContext(ctx).Where("autor = ?", autor).Order("created_at DESC").Find(&vacancies).Error
	if err != nil {
		return nil, fmt.Errorf("list vacancies of %q: %w", autor, err)
	}
	return vacancies, nil
}

// validID reports whether id can be compared with the uuid primary key.
// Anything else cannot match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
