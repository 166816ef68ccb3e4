package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/subplan-io/subplan-api/internal/models"
	appErrors "github.com/subplan-io/subplan-api/pkg/errors"
)

type absenceStore interface {
	absenceLog
	ListByTeacher(ctx context.Context, teacherID string, start, end time.Time) ([]models.AbsenceDay, error)
	ReplaceForDate(ctx context.Context, teacherID string, date time.Time, entries []models.AbsenceDay) error
	Delete(ctx context.Context, id string) (int64, error)
}

// AbsenceEntry is one declared absence for a calendar day.
type AbsenceEntry struct {
	IsAllDay  bool   `json:"is_all_day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SetAbsencesRequest replaces a teacher's absences for one date.
// Existing entries for the date are dropped, not merged; saving an empty
// list clears the day.
type SetAbsencesRequest struct {
	Date    string         `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []AbsenceEntry `json:"entries"`
}

// AbsenceService maintains the absence calendar.
type AbsenceService struct {
	repo      absenceStore
	teachers  teacherStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAbsenceService constructs an AbsenceService.
func NewAbsenceService(repo absenceStore, teachers teacherStore, validate *validator.Validate, logger *zap.Logger) *AbsenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbsenceService{repo: repo, teachers: teachers, validator: validate, logger: logger}
}

// ListForTeacher returns a teacher's absences inside the range.
func (s *AbsenceService) ListForTeacher(ctx context.Context, teacherID string, rng models.DateRange) ([]models.AbsenceDay, error) {
	if err := s.ensureTeacher(ctx, teacherID); err != nil {
		return nil, err
	}
	absences, err := s.repo.ListByTeacher(ctx, teacherID, models.StartOfDay(rng.Start), models.StartOfDay(rng.End))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list absences")
	}
	return absences, nil
}

// SetForDate replaces the teacher's absences on one calendar day.
func (s *AbsenceService) SetForDate(ctx context.Context, teacherID string, req SetAbsencesRequest) ([]models.AbsenceDay, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
	}
	if err := s.ensureTeacher(ctx, teacherID); err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	date = models.StartOfDay(date)

	entries := make([]models.AbsenceDay, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if !entry.IsAllDay {
			if err := validateClockWindow(entry.StartTime, entry.EndTime); err != nil {
				return nil, err
			}
		}
		record := models.AbsenceDay{
			ID:        uuid.NewString(),
			TeacherID: teacherID,
			Date:      date,
			IsAllDay:  entry.IsAllDay,
		}
		if !entry.IsAllDay {
			record.StartTime = entry.StartTime
			record.EndTime = entry.EndTime
		}
		entries = append(entries, record)
	}

	if err := s.repo.ReplaceForDate(ctx, teacherID, date, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save absences")
	}
	s.logger.Info("absences replaced",
		zap.String("teacher_id", teacherID),
		zap.String("date", req.Date),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}

// ensureTeacher verifies the teacher exists, keeping lookup failures
// distinct from a genuinely unknown id.
func (s *AbsenceService) ensureTeacher(ctx context.Context, teacherID string) error {
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return nil
}

// Delete removes a single absence entry.
func (s *AbsenceService) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete absence")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "absence not found")
	}
	return nil
}
