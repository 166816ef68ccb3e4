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

func TestClassRepositoryListAllDecodesTimetable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db, nil)

	timetable := `{"Tuesday":{"slot-2":[{"subject":"History","teacher_id":"t1","class_id":"c1"}]}}`
	rows := sqlmock.NewRows([]string{"id", "name", "timetable", "created_at", "updated_at"}).
		AddRow("c1", "10A", []byte(timetable), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, timetable, created_at, updated_at FROM classes ORDER BY name ASC")).
		WillReturnRows(rows)

	classes, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 1)
	lessons := classes[0].Timetable[models.Tuesday]["slot-2"]
	require.Len(t, lessons, 1)
	assert.Equal(t, "History", lessons[0].Subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db, nil)

	mock.ExpectExec("INSERT INTO classes").
		WithArgs(sqlmock.AnyArg(), "10A", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	class := models.SchoolClass{Name: "10A"}
	require.NoError(t, repo.Create(context.Background(), &class))
	assert.NotEmpty(t, class.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
