package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/justsurfingit/devjobs/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testVacancyID = "0b9f4a1e-6c2d-4d8e-9a57-3f1c2b7e8d90"

func newMockPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewPostgresStore(db), mock
}

func TestPostgresAppendCandidateIsSingleInsert(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO candidates \(vacancy_id, created_at, nombre, email, cv\)\s+SELECT id`).
		WithArgs(sqlmock.AnyArg(), "Ana", "ana@example.com", "abc123.pdf", "backend-dev-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.AppendCandidate(context.Background(), "backend-dev-1", models.Candidate{
		Nombre: "Ana",
		Email:  "ana@example.com",
		CV:     "abc123.pdf",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppendCandidateMissingVacancy(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO candidates`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.AppendCandidate(context.Background(), "no-existe", models.Candidate{Nombre: "Ana"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByURLNotFound(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT \* FROM "vacancies" WHERE url = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "url"}))

	_, err := store.FindByURL(context.Background(), "no-existe")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteScopedToAuthor(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "vacancies" WHERE`).
		WithArgs(testVacancyID, "user-2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := store.Delete(context.Background(), testVacancyID, "user-2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMalformedIDIsNotFound(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	_, err := store.FindByID(context.Background(), "no-es-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Delete(context.Background(), "no-es-uuid", "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSearchIncludesSkills(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT \* FROM "vacancies" WHERE \(?to_tsvector\('spanish', .*vacancy_skills_text\(skills\).*@@ plainto_tsquery\('spanish', \$1\) ORDER BY ts_rank`).
		WithArgs("golang", "golang").
		WillReturnRows(sqlmock.NewRows([]string{"id", "titulo", "url"}).
			AddRow(testVacancyID, "Backend Dev", "backend-dev-1"))

	found, err := store.Search(context.Background(), "golang")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "backend-dev-1", found[0].URL)
	assert.NoError(t, mock.ExpectationsWereMet())
}
