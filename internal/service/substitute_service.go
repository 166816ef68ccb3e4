package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/subplan-io/subplan-api/internal/dto"
	"github.com/subplan-io/subplan-api/internal/models"
	appErrors "github.com/subplan-io/subplan-api/pkg/errors"
)

type teacherFinder interface {
	teacherDirectory
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type substitutionStore interface {
	substitutionLog
	FindBySlot(ctx context.Context, date time.Time, slotStart, classID string) (*models.SubstitutionRecord, error)
	Create(ctx context.Context, record *models.SubstitutionRecord) error
}

// Recommendation outcomes reported to metrics.
const (
	outcomeRecommended = "recommended"
	outcomeSupervisory = "supervisory"
	outcomeNone        = "none"
)

// SubstituteService produces substitute recommendations for affected
// lessons and records the human-confirmed assignments.
type SubstituteService struct {
	teachers      teacherFinder
	classes       classDirectory
	slots         slotCatalog
	absences      absenceLog
	substitutions substitutionStore
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewSubstituteService wires the recommender dependencies.
func NewSubstituteService(
	teachers teacherFinder,
	classes classDirectory,
	slots slotCatalog,
	absences absenceLog,
	substitutions substitutionStore,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *SubstituteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstituteService{
		teachers:      teachers,
		classes:       classes,
		slots:         slots,
		absences:      absences,
		substitutions: substitutions,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
	}
}

// Recommend runs the recommender for one lesson. A nil recommendation
// with populated reasoning is a first-class outcome, not an error.
func (s *SubstituteService) Recommend(ctx context.Context, req dto.RecommendationRequest) (*models.Recommendation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recommendation payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitute pool")
	}
	classes, err := s.classes.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	slots, err := s.slots.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}

	pool := make([]models.Teacher, 0, len(teachers))
	for _, teacher := range teachers {
		if !teacher.Active || teacher.ID == req.ExcludeTeacherID {
			continue
		}
		pool = append(pool, teacher)
	}

	result := findSubstitute(req.Subject, date, req.Time, pool, classes, slots)
	if s.metrics != nil {
		s.metrics.RecordRecommendation(recommendationOutcome(result))
	}
	return &result, nil
}

// Confirm records a human-approved substitute assignment, which is the
// one side effect the coverage pipeline can trigger.
func (s *SubstituteService) Confirm(ctx context.Context, req dto.ConfirmSubstitutionRequest) (*models.SubstitutionRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid substitution payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	slots, err := s.slots.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}
	slot := slotByStart(slots, req.Time)
	if slot == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "time does not match any catalog slot")
	}

	absent, err := s.findTeacher(ctx, req.AbsentTeacherID)
	if err != nil {
		return nil, err
	}
	substitute, err := s.findTeacher(ctx, req.SubstituteTeacherID)
	if err != nil {
		return nil, err
	}

	if err := s.verifyAffected(ctx, absent, date, slot, req.ClassID); err != nil {
		return nil, err
	}

	existing, err := s.substitutions.FindBySlot(ctx, date, req.Time, req.ClassID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing substitutions")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrAlreadyCovered, "a substitution is already recorded for this lesson")
	}

	record := &models.SubstitutionRecord{
		ID:                    uuid.NewString(),
		Date:                  models.StartOfDay(date),
		SlotStart:             req.Time,
		ClassID:               req.ClassID,
		Subject:               req.Subject,
		AbsentTeacherID:       absent.ID,
		AbsentTeacherName:     absent.FullName,
		SubstituteTeacherID:   substitute.ID,
		SubstituteTeacherName: substitute.FullName,
	}
	if err := s.substitutions.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record substitution")
	}

	s.logger.Info("substitution confirmed",
		zap.String("class_id", record.ClassID),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
		zap.String("substitute", record.SubstituteTeacherName),
	)
	return record, nil
}

// verifyAffected checks that the lesson being covered is a real
// affected lesson: the absent teacher teaches the class at that slot on
// that weekday, and has an absence overlapping the slot on that date.
func (s *SubstituteService) verifyAffected(ctx context.Context, absent *models.Teacher, date time.Time, slot *models.TimeSlot, classID string) error {
	weekday := models.WeekdayOf(date)
	taught := false
	for _, lesson := range absent.Timetable[weekday][slot.ID] {
		if lesson.ClassID == classID {
			taught = true
			break
		}
	}
	if !taught {
		return appErrors.Clone(appErrors.ErrNotFound, "the absent teacher has no lesson for this class at this slot")
	}

	day := models.StartOfDay(date)
	absences, err := s.absences.ListBetween(ctx, day, day)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absences")
	}
	slotStartVal := clockValue(slot.Start)
	slotEndVal := clockValue(slot.End)
	for _, absence := range absences {
		if absence.TeacherID != absent.ID || !models.SameDay(absence.Date, day) {
			continue
		}
		absStart, absEnd := absenceWindow(absence)
		if overlaps(slotStartVal, slotEndVal, absStart, absEnd) {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "the absent teacher has no absence overlapping this slot")
}

func (s *SubstituteService) findTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

func recommendationOutcome(rec models.Recommendation) string {
	switch {
	case rec.Name == nil:
		return outcomeNone
	case rec.Reasoning != nil && strings.Contains(*rec.Reasoning, "supervise"):
		return outcomeSupervisory
	default:
		return outcomeRecommended
	}
}
