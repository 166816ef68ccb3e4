package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/subplan-io/subplan-api/internal/models"
	appErrors "github.com/subplan-io/subplan-api/pkg/errors"
	"github.com/subplan-io/subplan-api/pkg/export"
)

type teacherDirectory interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
}

type classDirectory interface {
	ListAll(ctx context.Context) ([]models.SchoolClass, error)
}

type slotCatalog interface {
	ListAll(ctx context.Context) ([]models.TimeSlot, error)
}

type absenceLog interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]models.AbsenceDay, error)
}

type substitutionLog interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]models.SubstitutionRecord, error)
}

// CoverageService expands absences into affected lessons over a date
// range. Every call loads a fresh snapshot and recomputes; results are
// never memoized because they go stale on any absence or timetable
// change.
type CoverageService struct {
	teachers      teacherDirectory
	classes       classDirectory
	slots         slotCatalog
	absences      absenceLog
	substitutions substitutionLog
	metrics       *MetricsService
	maxRangeDays  int
	logger        *zap.Logger
}

// NewCoverageService wires the coverage dependencies.
func NewCoverageService(
	teachers teacherDirectory,
	classes classDirectory,
	slots slotCatalog,
	absences absenceLog,
	substitutions substitutionLog,
	metrics *MetricsService,
	maxRangeDays int,
	logger *zap.Logger,
) *CoverageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRangeDays <= 0 {
		maxRangeDays = 62
	}
	return &CoverageService{
		teachers:      teachers,
		classes:       classes,
		slots:         slots,
		absences:      absences,
		substitutions: substitutions,
		metrics:       metrics,
		maxRangeDays:  maxRangeDays,
		logger:        logger,
	}
}

// AffectedLessons returns every lesson in the range whose teacher has an
// overlapping absence, ordered by date then slot start.
func (s *CoverageService) AffectedLessons(ctx context.Context, rng models.DateRange) ([]models.AffectedLesson, error) {
	if err := s.checkRange(rng); err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, rng)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	affected := expandAffectedLessons(snap, rng)
	if s.metrics != nil {
		s.metrics.ObserveExpansion(time.Since(started), len(affected))
	}
	s.logger.Debug("expanded affected lessons",
		zap.Time("start", rng.Start),
		zap.Time("end", rng.End),
		zap.Int("affected", len(affected)),
	)
	return affected, nil
}

// Uncovered returns only the affected lessons that still need a
// substitute, for the needed-substitutes panel.
func (s *CoverageService) Uncovered(ctx context.Context, rng models.DateRange) ([]models.AffectedLesson, error) {
	affected, err := s.AffectedLessons(ctx, rng)
	if err != nil {
		return nil, err
	}
	uncovered := affected[:0:0]
	for _, lesson := range affected {
		if !lesson.IsCovered {
			uncovered = append(uncovered, lesson)
		}
	}
	return uncovered, nil
}

// UncoveredDataset assembles the export table for the uncovered-lesson
// report.
func (s *CoverageService) UncoveredDataset(ctx context.Context, rng models.DateRange) (export.Dataset, error) {
	uncovered, err := s.Uncovered(ctx, rng)
	if err != nil {
		return export.Dataset{}, err
	}

	dataset := export.Dataset{
		Headers: []string{"Date", "Day", "Time", "Class", "Subject", "Absent teacher"},
		Rows:    make([]map[string]string, 0, len(uncovered)),
	}
	for _, lesson := range uncovered {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":           lesson.Date.Format("2006-01-02"),
			"Day":            string(models.WeekdayOf(lesson.Date)),
			"Time":           fmt.Sprintf("%s-%s", lesson.SlotStart, lesson.SlotEnd),
			"Class":          lesson.ClassName,
			"Subject":        lesson.Subject,
			"Absent teacher": lesson.AbsentTeacherName,
		})
	}
	return dataset, nil
}

func (s *CoverageService) checkRange(rng models.DateRange) error {
	if rng.Start.IsZero() || rng.End.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "start and end dates are required")
	}
	if models.StartOfDay(rng.End).Before(models.StartOfDay(rng.Start)) {
		return appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}
	if rng.Days() > s.maxRangeDays {
		return appErrors.Clone(appErrors.ErrRangeTooWide, fmt.Sprintf("date range is limited to %d days", s.maxRangeDays))
	}
	return nil
}

// loadSnapshot fetches the directory data and attaches each teacher's
// in-range absences, mirroring the record shape the engine expects.
func (s *CoverageService) loadSnapshot(ctx context.Context, rng models.DateRange) (coverageSnapshot, error) {
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return coverageSnapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	classes, err := s.classes.ListAll(ctx)
	if err != nil {
		return coverageSnapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	slots, err := s.slots.ListAll(ctx)
	if err != nil {
		return coverageSnapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}
	absences, err := s.absences.ListBetween(ctx, models.StartOfDay(rng.Start), models.StartOfDay(rng.End))
	if err != nil {
		return coverageSnapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absences")
	}
	substitutions, err := s.substitutions.ListBetween(ctx, models.StartOfDay(rng.Start), models.StartOfDay(rng.End))
	if err != nil {
		return coverageSnapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitutions")
	}

	byTeacher := make(map[string][]models.AbsenceDay, len(absences))
	for _, absence := range absences {
		byTeacher[absence.TeacherID] = append(byTeacher[absence.TeacherID], absence)
	}
	for i := range teachers {
		teachers[i].Absences = byTeacher[teachers[i].ID]
	}

	return coverageSnapshot{
		Teachers:      teachers,
		Classes:       classes,
		Substitutions: substitutions,
		Slots:         slots,
	}, nil
}
