package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subplan-io/subplan-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, nil)

	rows := sqlmock.NewRows([]string{"id", "full_name", "subjects", "preferences", "availability", "timetable", "active", "created_at", "updated_at"}).
		AddRow("t1", "Dana Ives", []byte(`["Math"]`), "", []byte(`[]`), []byte(`{}`), true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, subjects, preferences, availability, timetable, active, created_at, updated_at FROM teachers WHERE 1=1 ORDER BY full_name ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teachers WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.TeacherFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{"Math"}, list[0].Subjects)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListFiltersBySubject(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, nil)

	rows := sqlmock.NewRows([]string{"id", "full_name", "subjects", "preferences", "availability", "timetable", "active", "created_at", "updated_at"})
	mock.ExpectQuery(regexp.QuoteMeta("subjects @> $1::jsonb")).
		WithArgs(`["Physics"]`).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(`["Physics"]`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, total, err := repo.List(context.Background(), models.TeacherFilter{Subject: "Physics"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByIDDecodesJSON(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, nil)

	availability := `[{"day":"Monday","windows":[{"start":"08:00","end":"12:00"}]}]`
	timetable := `{"Monday":{"slot-1":[{"subject":"Math","teacher_id":"t1","class_id":"c1"}]}}`
	rows := sqlmock.NewRows([]string{"id", "full_name", "subjects", "preferences", "availability", "timetable", "active", "created_at", "updated_at"}).
		AddRow("t1", "Dana Ives", []byte(`["Math","Physics"]`), "senior classes", []byte(availability), []byte(timetable), true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE id = $1")).
		WithArgs("t1").
		WillReturnRows(rows)

	teacher, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Math", "Physics"}, teacher.Subjects)
	require.Len(t, teacher.Availability, 1)
	assert.Equal(t, models.Monday, teacher.Availability[0].Day)
	require.Contains(t, teacher.Timetable, models.Monday)
	assert.Equal(t, "Math", teacher.Timetable[models.Monday]["slot-1"][0].Subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByIDPassesThroughNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, nil)

	mock.ExpectExec("INSERT INTO teachers").
		WithArgs(sqlmock.AnyArg(), "Dana Ives", []byte(`["Math"]`), "", sqlmock.AnyArg(), sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	teacher := models.Teacher{FullName: "Dana Ives", Subjects: []string{"Math"}, Active: true}
	require.NoError(t, repo.Create(context.Background(), &teacher))
	assert.NotEmpty(t, teacher.ID)
	assert.False(t, teacher.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdateAndDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, nil)

	mock.ExpectExec("UPDATE teachers SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), &models.Teacher{ID: "t1", FullName: "Dana Ives"}))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teachers WHERE id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "t1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
