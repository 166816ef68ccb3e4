package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subplan-io/subplan-api/internal/models"
)

func TestAbsenceRepositoryListBetween(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAbsenceRepository(db)

	start := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "absence_date", "is_all_day", "start_time", "end_time", "created_at", "updated_at"}).
		AddRow("a1", "t1", start, true, "", "", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM absences WHERE absence_date >= $1 AND absence_date <= $2")).
		WithArgs(start, end).
		WillReturnRows(rows)

	absences, err := repo.ListBetween(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, absences, 1)
	assert.True(t, absences[0].IsAllDay)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepositoryReplaceForDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAbsenceRepository(db)

	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM absences WHERE teacher_id = $1 AND absence_date = $2")).
		WithArgs("t1", date).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO absences").
		WithArgs(sqlmock.AnyArg(), "t1", date, false, "08:00", "10:00", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entries := []models.AbsenceDay{{IsAllDay: false, StartTime: "08:00", EndTime: "10:00"}}
	require.NoError(t, repo.ReplaceForDate(context.Background(), "t1", date, entries))
	assert.Equal(t, "t1", entries[0].TeacherID)
	assert.NotEmpty(t, entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepositoryReplaceForDateClearsWhenEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAbsenceRepository(db)

	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM absences WHERE teacher_id = $1 AND absence_date = $2")).
		WithArgs("t1", date).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceForDate(context.Background(), "t1", date, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAbsenceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM absences WHERE id = $1")).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM absences WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.Delete(context.Background(), "a1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = repo.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
