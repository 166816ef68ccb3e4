package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subplan-io/subplan-api/internal/models"
	appErrors "github.com/subplan-io/subplan-api/pkg/errors"
)

type stubAbsenceStore struct {
	absences   []models.AbsenceDay
	replaced   map[string][]models.AbsenceDay
	deleteRows int64
}

func (s *stubAbsenceStore) ListBetween(ctx context.Context, start, end time.Time) ([]models.AbsenceDay, error) {
	return s.absences, nil
}

func (s *stubAbsenceStore) ListByTeacher(ctx context.Context, teacherID string, start, end time.Time) ([]models.AbsenceDay, error) {
	var out []models.AbsenceDay
	for _, absence := range s.absences {
		if absence.TeacherID == teacherID {
			out = append(out, absence)
		}
	}
	return out, nil
}

func (s *stubAbsenceStore) ReplaceForDate(ctx context.Context, teacherID string, date time.Time, entries []models.AbsenceDay) error {
	if s.replaced == nil {
		s.replaced = map[string][]models.AbsenceDay{}
	}
	s.replaced[teacherID+"|"+date.Format("2006-01-02")] = entries
	return nil
}

func (s *stubAbsenceStore) Delete(ctx context.Context, id string) (int64, error) {
	return s.deleteRows, nil
}

func absenceServiceFixture() (*AbsenceService, *stubAbsenceStore) {
	store := &stubAbsenceStore{}
	teachers := &stubTeacherStore{teachers: []models.Teacher{{ID: "t1", FullName: "Dana Ives"}}}
	return NewAbsenceService(store, teachers, nil, nil), store
}

func TestAbsenceServiceSetForDateReplaces(t *testing.T) {
	svc, store := absenceServiceFixture()

	entries, err := svc.SetForDate(context.Background(), "t1", SetAbsencesRequest{
		Date: "2024-06-03",
		Entries: []AbsenceEntry{
			{IsAllDay: true, StartTime: "08:00", EndTime: "10:00"},
			{StartTime: "11:00", EndTime: "12:00"},
		},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// clock fields are dropped for all-day entries
	assert.Empty(t, entries[0].StartTime)
	assert.Equal(t, "11:00", entries[1].StartTime)
	assert.Equal(t, "t1", entries[0].TeacherID)
	require.Len(t, store.replaced["t1|2024-06-03"], 2)
}

func TestAbsenceServiceSetForDateEmptyClearsDay(t *testing.T) {
	svc, store := absenceServiceFixture()

	entries, err := svc.SetForDate(context.Background(), "t1", SetAbsencesRequest{Date: "2024-06-03"})
	require.NoError(t, err)
	assert.Empty(t, entries)
	replaced, ok := store.replaced["t1|2024-06-03"]
	assert.True(t, ok)
	assert.Empty(t, replaced)
}

func TestAbsenceServiceSetForDateValidation(t *testing.T) {
	svc, _ := absenceServiceFixture()

	_, err := svc.SetForDate(context.Background(), "t1", SetAbsencesRequest{Date: "03.06.2024"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.SetForDate(context.Background(), "t1", SetAbsencesRequest{
		Date:    "2024-06-03",
		Entries: []AbsenceEntry{{StartTime: "10:00", EndTime: "09:00"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.SetForDate(context.Background(), "ghost", SetAbsencesRequest{Date: "2024-06-03"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAbsenceServiceDelete(t *testing.T) {
	svc, store := absenceServiceFixture()

	store.deleteRows = 1
	require.NoError(t, svc.Delete(context.Background(), "a1"))

	store.deleteRows = 0
	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAbsenceServiceTeacherLookupFailure(t *testing.T) {
	// a failing teacher lookup is an infrastructure error, not NOT_FOUND
	teachers := &stubTeacherStore{findErr: assert.AnError}
	svc := NewAbsenceService(&stubAbsenceStore{}, teachers, nil, nil)

	_, err := svc.ListForTeacher(context.Background(), "t1", models.DateRange{Start: monday, End: monday})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)

	_, err = svc.SetForDate(context.Background(), "t1", SetAbsencesRequest{Date: "2024-06-03"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestAbsenceServiceListForTeacher(t *testing.T) {
	svc, store := absenceServiceFixture()
	store.absences = []models.AbsenceDay{
		{ID: "a1", TeacherID: "t1", Date: monday, IsAllDay: true},
		{ID: "a2", TeacherID: "t2", Date: monday, IsAllDay: true},
	}

	absences, err := svc.ListForTeacher(context.Background(), "t1", models.DateRange{Start: monday, End: monday})
	require.NoError(t, err)
	require.Len(t, absences, 1)
	assert.Equal(t, "a1", absences[0].ID)

	_, err = svc.ListForTeacher(context.Background(), "ghost", models.DateRange{Start: monday, End: monday})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
