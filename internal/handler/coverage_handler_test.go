package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subplan-io/subplan-api/internal/models"
	"github.com/subplan-io/subplan-api/internal/service"
	"github.com/subplan-io/subplan-api/pkg/export"
)

type teacherDirStub struct{ teachers []models.Teacher }

func (s teacherDirStub) ListAll(ctx context.Context) ([]models.Teacher, error) {
	return s.teachers, nil
}

type classDirStub struct{ classes []models.SchoolClass }

func (s classDirStub) ListAll(ctx context.Context) ([]models.SchoolClass, error) {
	return s.classes, nil
}

type slotCatalogStub struct{ slots []models.TimeSlot }

func (s slotCatalogStub) ListAll(ctx context.Context) ([]models.TimeSlot, error) {
	return s.slots, nil
}

type absenceLogStub struct{ absences []models.AbsenceDay }

func (s absenceLogStub) ListBetween(ctx context.Context, start, end time.Time) ([]models.AbsenceDay, error) {
	return s.absences, nil
}

type substitutionLogStub struct{ records []models.SubstitutionRecord }

func (s substitutionLogStub) ListBetween(ctx context.Context, start, end time.Time) ([]models.SubstitutionRecord, error) {
	return s.records, nil
}

// 2024-06-03 is a Monday.
func coverageHandlerFixture() *CoverageHandler {
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	teachers := teacherDirStub{teachers: []models.Teacher{
		{
			ID:       "t1",
			FullName: "Dana Ives",
			Active:   true,
			Timetable: models.Timetable{
				models.Monday: {
					"slot-1": {{Subject: "Math", TeacherID: "t1", ClassID: "c1"}},
				},
			},
		},
	}}
	classes := classDirStub{classes: []models.SchoolClass{{ID: "c1", Name: "10A"}}}
	slots := slotCatalogStub{slots: []models.TimeSlot{
		{ID: "slot-1", Start: "08:00", End: "08:45", Type: models.SlotTypeLesson},
	}}
	absences := absenceLogStub{absences: []models.AbsenceDay{
		{ID: "a1", TeacherID: "t1", Date: monday, IsAllDay: true},
	}}

	svc := service.NewCoverageService(teachers, classes, slots, absences, substitutionLogStub{}, nil, 31, nil)
	return NewCoverageHandler(svc, export.NewCSVExporter(), export.NewPDFExporter(), "Substitutes needed")
}

func coverageRouter(h *CoverageHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/coverage/affected-lessons", h.AffectedLessons)
	r.GET("/coverage/uncovered/export", h.ExportUncovered)
	return r
}

func TestCoverageHandlerAffectedLessons(t *testing.T) {
	router := coverageRouter(coverageHandlerFixture())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/coverage/affected-lessons?start=2024-06-03&end=2024-06-03", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []models.AffectedLesson `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Dana Ives", body.Data[0].AbsentTeacherName)
	assert.False(t, body.Data[0].IsCovered)
}

func TestCoverageHandlerAffectedLessonsOnlyUncovered(t *testing.T) {
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	teachers := teacherDirStub{teachers: []models.Teacher{
		{
			ID:       "t1",
			FullName: "Dana Ives",
			Active:   true,
			Timetable: models.Timetable{
				models.Monday: {
					"slot-1": {{Subject: "Math", TeacherID: "t1", ClassID: "c1"}},
				},
			},
		},
	}}
	classes := classDirStub{classes: []models.SchoolClass{{ID: "c1", Name: "10A"}}}
	slots := slotCatalogStub{slots: []models.TimeSlot{
		{ID: "slot-1", Start: "08:00", End: "08:45", Type: models.SlotTypeLesson},
	}}
	absences := absenceLogStub{absences: []models.AbsenceDay{
		{ID: "a1", TeacherID: "t1", Date: monday, IsAllDay: true},
	}}
	subs := substitutionLogStub{records: []models.SubstitutionRecord{
		{ID: "s1", Date: monday, SlotStart: "08:00", ClassID: "c1", SubstituteTeacherID: "t9"},
	}}

	svc := service.NewCoverageService(teachers, classes, slots, absences, subs, nil, 31, nil)
	router := coverageRouter(NewCoverageHandler(svc, export.NewCSVExporter(), export.NewPDFExporter(), ""))

	// the lone affected lesson is covered, so the filter leaves nothing
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/coverage/affected-lessons?start=2024-06-03&end=2024-06-03&only_uncovered=true", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []models.AffectedLesson `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Data)

	// without the filter the covered lesson is still reported
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/coverage/affected-lessons?start=2024-06-03&end=2024-06-03", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body.Data = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.True(t, body.Data[0].IsCovered)
}

func TestCoverageHandlerRejectsBadDates(t *testing.T) {
	router := coverageRouter(coverageHandlerFixture())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/coverage/affected-lessons?start=junk&end=2024-06-03", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCoverageHandlerRejectsWideRange(t *testing.T) {
	router := coverageRouter(coverageHandlerFixture())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/coverage/affected-lessons?start=2024-06-03&end=2024-08-30", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCoverageHandlerExportCSV(t *testing.T) {
	router := coverageRouter(coverageHandlerFixture())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/coverage/uncovered/export?start=2024-06-03&end=2024-06-03&format=csv", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "uncovered-lessons_2024-06-03_2024-06-03.csv")
	assert.Contains(t, w.Body.String(), "Dana Ives")
}

func TestCoverageHandlerExportRejectsUnknownFormat(t *testing.T) {
	router := coverageRouter(coverageHandlerFixture())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/coverage/uncovered/export?start=2024-06-03&end=2024-06-03&format=xlsx", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
