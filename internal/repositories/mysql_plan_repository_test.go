package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planea/back/internal/models"
)

var planColumns = []string{"id", "subject", "grade", "topic", "model", "payload", "created_at"}

func newMockRepository(t *testing.T) (PlanRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewMySQLPlanRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestMySQLPlanRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepository(t)
	at := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)
	p := plan("p1", "Matemáticas", "5to Grado", at)
	p.Topic = "Fracciones"
	p.Model = "gemini-2.5-flash"

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lesson_plans (id, subject, grade, topic, model, payload, created_at)")).
		WithArgs("p1", "Matemáticas", "5to Grado", "Fracciones", "gemini-2.5-flash", sqlmock.AnyArg(), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), p))
}

func TestMySQLPlanRepositoryGetByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	at := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)
	query := regexp.QuoteMeta("FROM lesson_plans WHERE id = ?")

	mock.ExpectQuery(query).WithArgs("p1").WillReturnRows(sqlmock.NewRows(planColumns).
		AddRow("p1", "Matemáticas", "5to Grado", "Fracciones", "m", []byte(`{"unit":"Unidad 3","subject":"Matemáticas"}`), at))

	got, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, "Unidad 3", got.Unit)
	assert.True(t, at.Equal(got.CreatedAt))

	mock.ExpectQuery(query).WithArgs("nope").WillReturnRows(sqlmock.NewRows(planColumns))
	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMySQLPlanRepositoryListNewestFirst(t *testing.T) {
	repo, mock := newMockRepository(t)
	newer := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id ASC")).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(planColumns).
			AddRow("b", "Ciencias Naturales", "3er Grado", "El agua", "m", []byte(`{"topic":"El agua"}`), newer).
			AddRow("a", "Matemáticas", "5to Grado", "Fracciones", "m", []byte(`{"topic":"Fracciones"}`), older))

	plans, err := repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "b", plans[0].ID)
	assert.Equal(t, "El agua", plans[0].Topic)
	assert.Equal(t, "a", plans[1].ID)

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT ? OFFSET ?")).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(planColumns).
			AddRow("a", "Matemáticas", "5to Grado", "Fracciones", "m", []byte(`{}`), older))
	plans, err = repo.List(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "a", plans[0].ID)
}

func TestMySQLPlanRepositoryListBadPayload(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("FROM lesson_plans").WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(planColumns).
			AddRow("a", "Matemáticas", "5to Grado", "", "", []byte(`{roto`), time.Now()))

	_, err := repo.List(context.Background(), 0, 0)
	assert.ErrorContains(t, err, "failed to unmarshal plan a")
}

func TestMySQLPlanRepositoryDelete(t *testing.T) {
	repo, mock := newMockRepository(t)
	query := regexp.QuoteMeta("DELETE FROM lesson_plans WHERE id = ?")

	mock.ExpectExec(query).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "p1"))

	mock.ExpectExec(query).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "p1"), ErrNotFound)
}

func TestMySQLPlanRepositoryStats(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lesson_plans")).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY subject")).
		WillReturnRows(sqlmock.NewRows([]string{"k", "n"}).AddRow("Matemáticas", 2).AddRow("Ciencias Naturales", 1))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY grade")).
		WillReturnRows(sqlmock.NewRows([]string{"k", "n"}).AddRow("5to Grado", 3))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.PlanStats{
		Total:     3,
		BySubject: map[string]int{"Matemáticas": 2, "Ciencias Naturales": 1},
		ByGrade:   map[string]int{"5to Grado": 3},
	}, stats)
}
