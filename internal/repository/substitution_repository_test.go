package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subplan-io/subplan-api/internal/models"
)

func TestSubstitutionRepositoryFindBySlot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "sub_date", "slot_start", "class_id", "subject", "absent_teacher_id", "absent_teacher_name", "substitute_teacher_id", "substitute_teacher_name", "created_at"}).
		AddRow("s1", date, "08:00", "c1", "Math", "t1", "Dana Ives", "t2", "Rob Ames", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM substitutions WHERE sub_date = $1 AND slot_start = $2 AND class_id = $3")).
		WithArgs(date, "08:00", "c1").
		WillReturnRows(rows)

	record, err := repo.FindBySlot(context.Background(), date, "08:00", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Rob Ames", record.SubstituteTeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryFindBySlotNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM substitutions WHERE sub_date = $1")).
		WithArgs(date, "08:00", "c1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindBySlot(context.Background(), date, "08:00", "c1")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	mock.ExpectExec("INSERT INTO substitutions").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "08:00", "c1", "Math", "t1", "Dana Ives", "t2", "Rob Ames", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := models.SubstitutionRecord{
		Date:                  time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		SlotStart:             "08:00",
		ClassID:               "c1",
		Subject:               "Math",
		AbsentTeacherID:       "t1",
		AbsentTeacherName:     "Dana Ives",
		SubstituteTeacherID:   "t2",
		SubstituteTeacherName: "Rob Ames",
	}
	require.NoError(t, repo.Create(context.Background(), &record))
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryListBetween(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	start := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "sub_date", "slot_start", "class_id", "subject", "absent_teacher_id", "absent_teacher_name", "substitute_teacher_id", "substitute_teacher_name", "created_at"}).
		AddRow("s1", start, "08:00", "c1", "Math", "t1", "Dana Ives", "t2", "Rob Ames", time.Now()).
		AddRow("s2", end, "10:00", "c2", "Physics", "t3", "Kim Soto", "t4", "Ana Brem", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM substitutions WHERE sub_date >= $1 AND sub_date <= $2")).
		WithArgs(start, end).
		WillReturnRows(rows)

	records, err := repo.ListBetween(context.Background(), start, end)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
