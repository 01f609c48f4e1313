package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/justsurfingit/devjobs/internal/models"
)

// MemoryStore is a process-local VacancyStore used for local development
// and tests.
type MemoryStore struct {
	mu    sync.Mutex
	byID  map[string]*models.Vacancy
	urlID map[string]string
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:  make(map[string]*models.Vacancy),
		urlID: make(map[string]string),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Create(ctx context.Context, vacancy *models.Vacancy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.urlID[vacancy.URL]; ok {
		return errDuplicateURL(vacancy.URL)
	}
	now := m.now()
	vacancy.CreatedAt = now
	vacancy.UpdatedAt = now
	stored := clone(vacancy, true)
	m.byID[vacancy.ID] = stored
	m.urlID[vacancy.URL] = vacancy.ID
	return nil
}

func (m *MemoryStore) URLExists(ctx context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.urlID[url]
	return ok, nil
}

func (m *MemoryStore) FindByURL(ctx context.Context, url string) (*models.Vacancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.urlID[url]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(m.byID[id], false), nil
}

func (m *MemoryStore) FindByID(ctx context.Context, id string) (*models.Vacancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vacancy, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(vacancy, true), nil
}

func (m *MemoryStore) Update(ctx context.Context, url string, fields models.VacancyFields) (*models.Vacancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.urlID[url]
	if !ok {
		return nil, ErrNotFound
	}
	vacancy := m.byID[id]
	vacancy.Apply(fields)
	vacancy.UpdatedAt = m.now()
	return clone(vacancy, false), nil
}

func (m *MemoryStore) Delete(ctx context.Context, id, autor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	vacancy, ok := m.byID[id]
	if !ok || vacancy.Autor != autor {
		return ErrNotFound
	}
	delete(m.urlID, vacancy.URL)
	delete(m.byID, id)
	return nil
}

func (m *MemoryStore) AppendCandidate(ctx context.Context, url string, candidate models.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.urlID[url]
	if !ok {
		return ErrNotFound
	}
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = m.now()
	}
	vacancy := m.byID[id]
	candidate.VacancyID = vacancy.ID
	vacancy.Candidatos = append(vacancy.Candidatos, candidate)
	return nil
}

// Search ranks vacancies by how many query terms appear in their text
// fields. Terms are matched case-insensitively.
func (m *MemoryStore) Search(ctx context.Context, query string) ([]models.Vacancy, error) {
	terms := strings.Fields(strings.ToLower(query))
	m.mu.Lock()
	defer m.mu.Unlock()

	type hit struct {
		vacancy models.Vacancy
		score   int
	}
	var hits []hit
	for _, vacancy := range m.byID {
		text := strings.ToLower(strings.Join(append([]string{
			vacancy.Titulo, vacancy.Empresa, vacancy.Ubicacion, vacancy.Descripcion,
		}, vacancy.Skills...), " "))
		words := strings.Fields(text)
		score := 0
		for _, term := range terms {
			for _, word := range words {
				if word == term {
					score++
				}
			}
		}
		if score > 0 {
			hits = append(hits, hit{vacancy: *clone(vacancy, false), score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].vacancy.CreatedAt.After(hits[j].vacancy.CreatedAt)
	})

	vacancies := make([]models.Vacancy, 0, len(hits))
	for _, h := range hits {
		vacancies = append(vacancies, h.vacancy)
	}
	return vacancies, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]models.Vacancy, error) {
	return m.filter(func(*models.Vacancy) bool { return true }), nil
}

func (m *MemoryStore) ListByAuthor(ctx context.Context, autor string) ([]models.Vacancy, error) {
	return m.filter(func(v *models.Vacancy) bool { return v.Autor == autor }), nil
}

func (m *MemoryStore) filter(keep func(*models.Vacancy) bool) []models.Vacancy {
	m.mu.Lock()
	defer m.mu.Unlock()
	vacancies := []models.Vacancy{}
	for _, vacancy := range m.byID {
		if keep(vacancy) {
			vacancies = append(vacancies, *clone(vacancy, false))
		}
	}
	sort.Slice(vacancies, func(i, j int) bool {
		return vacancies[i].CreatedAt.After(vacancies[j].CreatedAt)
	})
	return vacancies
}

func clone(v *models.Vacancy, withCandidates bool) *models.Vacancy {
	c := *v
	c.Skills = append(c.Skills[:0:0], v.Skills...)
	c.Candidatos = nil
	if withCandidates {
		c.Candidatos = append([]models.Candidate{}, v.Candidatos...)
	}
	return &c
}

type errDuplicateURL string

func (e errDuplicateURL) Error() string {
	return "vacancy url already exists: " + string(e)
}
